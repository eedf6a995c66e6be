package notify

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

// slotLink pairs a proposed meeting-time label with its confirmation URL.
// Index is 0-based and must match the label's position in the record's
// proposed sequence; the confirmation endpoint resolves it positionally.
type slotLink struct {
	Index int
	Label string
	URL   string
}

func confirmLinks(rec inquiry.Record, baseURL string) []slotLink {
	baseURL = strings.TrimRight(baseURL, "/")
	links := make([]slotLink, 0, len(rec.ProposedMeetingTimes))
	for i, label := range rec.ProposedMeetingTimes {
		q := url.Values{}
		q.Set("id", rec.ID)
		q.Set("time", fmt.Sprint(i))
		links = append(links, slotLink{
			Index: i,
			Label: label,
			URL:   fmt.Sprintf("%s/api/confirm?%s", baseURL, q.Encode()),
		})
	}
	return links
}

var clientReplyTmpl = template.Must(template.New("client").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
  <div style="background-color: #ffffff; padding: 30px; border-radius: 10px;">
    <h2 style="color: #2c3e50;">Q-Total - IT Konsalting i Obuke</h2>
    <div style="color: #34495e; line-height: 1.6; white-space: pre-line;">{{.Response}}</div>
    <div style="margin-top: 30px; padding: 20px; background-color: #ecf0f1; border-radius: 5px;">
      <h3 style="color: #2c3e50; margin-top: 0;">Predloženi termini za sastanak:</h3>
      <p style="color: #7f8c8d; font-size: 14px;">Kliknite na dugme da potvrdite termin koji vam odgovara. Automatski ćemo zakazati sastanak i poslati vam pozivnicu u kalendar.</p>
      {{range .Links}}
      <div style="margin: 10px 0;">
        <a href="{{.URL}}" style="display: inline-block; background-color: #27ae60; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold;">Potvrdi: {{.Label}}</a>
      </div>
      {{end}}
    </div>
    <div style="margin-top: 30px; padding-top: 20px; border-top: 2px solid #ecf0f1; color: #7f8c8d; font-size: 12px;">
      <p>Q-Total - IT Konsalting i Obuke</p>
    </div>
  </div>
</div>
`))

type clientReplyData struct {
	Response string
	Links    []slotLink
}

func renderClientReply(rec inquiry.Record, baseURL string) (html, text string, err error) {
	links := confirmLinks(rec, baseURL)

	var b strings.Builder
	if err := clientReplyTmpl.Execute(&b, clientReplyData{Response: rec.AIGeneratedResponse, Links: links}); err != nil {
		return "", "", err
	}

	var t strings.Builder
	t.WriteString(rec.AIGeneratedResponse)
	t.WriteString("\n\nPredloženi termini za sastanak:\n")
	for _, l := range links {
		fmt.Fprintf(&t, "- %s: %s\n", l.Label, l.URL)
	}
	return b.String(), t.String(), nil
}

var adminAlertTmpl = template.Must(template.New("admin").Parse(`<div style="font-family: Arial, sans-serif; max-width: 700px; margin: 0 auto; padding: 20px; background-color: #f4f4f4;">
  <div style="background-color: #ffffff; padding: 30px; border-radius: 10px;">
    <h2 style="color: #e74c3c;">Nova poruka od klijenta</h2>
    <div style="background-color: #3498db; color: white; padding: 15px; border-radius: 5px; margin-bottom: 20px;">
      <h3 style="margin: 0;">AI Klasifikacija: {{.ServiceType}}</h3>
      <p style="margin: 5px 0 0 0;">Pouzdanost: {{.ClassificationConfidence}}%</p>
      <p style="margin: 5px 0 0 0; font-size: 14px;">Razlog: {{.ClassificationReasoning}}</p>
    </div>
    <div style="background-color: #ecf0f1; padding: 20px; border-radius: 5px; margin-bottom: 20px;">
      <h3 style="color: #2c3e50; margin-top: 0;">Podaci klijenta:</h3>
      <p><strong>Ime:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Telefon:</strong> {{if .Phone}}{{.Phone}}{{else}}Nije naveden{{end}}</p>
      <p><strong>Poruka:</strong></p>
      <div style="background-color: white; padding: 15px; border-left: 4px solid #3498db;">{{.Message}}</div>
    </div>
    <div style="background-color: #e8f5e9; padding: 20px; border-radius: 5px; border-left: 4px solid #27ae60;">
      <h3 style="color: #27ae60; margin-top: 0;">AI Odgovor poslat klijentu:</h3>
      <div style="color: #2c3e50; white-space: pre-line; line-height: 1.6;">{{.AIGeneratedResponse}}</div>
    </div>
    <div style="margin-top: 20px; padding: 15px; background-color: #fff3cd; border-radius: 5px; border-left: 4px solid #ffc107;">
      <p style="margin: 0; color: #856404;"><strong>Akcija potrebna:</strong> Čekajte odgovor klijenta sa potvrdom termina.</p>
    </div>
  </div>
</div>
`))

func renderAdminAlert(rec inquiry.Record) (html, text string, err error) {
	var b strings.Builder
	if err := adminAlertTmpl.Execute(&b, rec); err != nil {
		return "", "", err
	}

	phone := rec.Phone
	if phone == "" {
		phone = "Nije naveden"
	}
	plain := fmt.Sprintf(`Nova poruka od klijenta

AI Klasifikacija: %s (%d%%)
Razlog: %s

Ime: %s
Email: %s
Telefon: %s

Poruka:
%s

AI Odgovor poslat klijentu:
%s
`, rec.ServiceType, rec.ClassificationConfidence, rec.ClassificationReasoning,
		rec.Name, rec.Email, phone, rec.Message, rec.AIGeneratedResponse)

	return b.String(), plain, nil
}
