// Package notify delivers the client reply and the admin alert over SMTP.
//
// net/smtp reports no delivery identifier, so the mailer generates its own
// Message-Id header and returns it; the workflow stores that value as the
// delivery id.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	FromEmail string
	FromName  string

	// AdminEmail receives the internal alert for every inquiry.
	AdminEmail string

	// BaseURL is the public origin confirmation links point at.
	BaseURL string

	// Enabled=false logs instead of sending (local development).
	Enabled bool
}

type SMTPMailer struct {
	cfg Config
	log *slog.Logger
}

func NewSMTPMailer(cfg Config, log *slog.Logger) *SMTPMailer {
	if log == nil {
		log = slog.Default()
	}
	return &SMTPMailer{cfg: cfg, log: log}
}

// SendClientReply emails the generated response plus one confirmation button
// per proposed slot.
func (m *SMTPMailer) SendClientReply(ctx context.Context, rec inquiry.Record) (string, error) {
	html, text, err := renderClientReply(rec, m.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("notify: render client reply: %w", err)
	}
	return m.send(rec.Email, "Odgovor na vaš upit - Q-Total", html, text)
}

// SendAdminAlert emails the internal notification with the classification
// block and the reply that was sent to the client.
func (m *SMTPMailer) SendAdminAlert(ctx context.Context, rec inquiry.Record) (string, error) {
	if m.cfg.AdminEmail == "" {
		return "", fmt.Errorf("notify: admin email not configured")
	}
	html, text, err := renderAdminAlert(rec)
	if err != nil {
		return "", fmt.Errorf("notify: render admin alert: %w", err)
	}
	subject := fmt.Sprintf("Nova poruka - %s (%d%% confidence)", rec.ServiceType, rec.ClassificationConfidence)
	return m.send(m.cfg.AdminEmail, subject, html, text)
}

// Verify checks SMTP connectivity at startup. Best-effort: callers log the
// result and continue either way.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}
	conn, err := net.DialTimeout("tcp", m.addr(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("notify: smtp dial: %w", err)
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("notify: smtp handshake: %w", err)
	}
	defer c.Close()
	return c.Noop()
}

func (m *SMTPMailer) addr() string {
	return fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
}

func (m *SMTPMailer) send(to, subject, htmlBody, textBody string) (string, error) {
	messageID := newMessageID(m.cfg.FromEmail)

	if !m.cfg.Enabled {
		m.log.Info("email sending disabled, skipping", "to", to, "subject", subject, "message_id", messageID)
		return messageID, nil
	}
	if m.cfg.Host == "" || m.cfg.Username == "" || m.cfg.Password == "" {
		return "", fmt.Errorf("notify: smtp not properly configured")
	}

	from := m.cfg.FromEmail
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	}
	msg := buildMessage(from, to, subject, messageID, htmlBody, textBody)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(m.addr(), auth, m.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return "", fmt.Errorf("notify: send to %s: %w", to, err)
	}
	return messageID, nil
}

// buildMessage assembles a multipart/alternative message with a plain-text
// part and an HTML part.
func buildMessage(from, to, subject, messageID, htmlBody, textBody string) string {
	boundary := "----=_Part_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Message-Id: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}

func newMessageID(fromEmail string) string {
	domain := "qtotal.local"
	if i := strings.LastIndex(fromEmail, "@"); i >= 0 && i < len(fromEmail)-1 {
		domain = fromEmail[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
