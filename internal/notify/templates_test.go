package notify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

func sampleRecord() inquiry.Record {
	return inquiry.Record{
		ID:      "11111111-2222-3333-4444-555555555555",
		Name:    "Ana",
		Email:   "ana@x.com",
		Message: "Treba nam ISO 27001 obuka",
		Status:  inquiry.StatusProcessing,

		ServiceType:              "Obuke",
		ClassificationConfidence: 91,
		ClassificationReasoning:  "pominje obuku",
		AIGeneratedResponse:      "Poštovana Ana,\nhvala na poruci.",
		ProposedMeetingTimes: []string{
			"Ponedeljak, 2. decembar u 10:00",
			"Utorak, 3. decembar u 14:00",
			"Sreda, 4. decembar u 11:00",
		},
	}
}

func TestConfirmLinks_IndexMatchesSlotPosition(t *testing.T) {
	rec := sampleRecord()
	links := confirmLinks(rec, "https://qtotal.rs/")

	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	for i, l := range links {
		want := fmt.Sprintf("https://qtotal.rs/api/confirm?id=%s&time=%d", rec.ID, i)
		if l.URL != want {
			t.Fatalf("link %d: expected %q, got %q", i, want, l.URL)
		}
		if l.Label != rec.ProposedMeetingTimes[i] {
			t.Fatalf("link %d: label %q does not match slot", i, l.Label)
		}
	}
}

func TestRenderClientReply(t *testing.T) {
	rec := sampleRecord()
	html, text, err := renderClientReply(rec, "http://localhost:5000")
	if err != nil {
		t.Fatalf("renderClientReply: %v", err)
	}

	for i, label := range rec.ProposedMeetingTimes {
		if !strings.Contains(html, label) {
			t.Fatalf("html missing slot label %q", label)
		}
		link := fmt.Sprintf("http://localhost:5000/api/confirm?id=%s&time=%d", rec.ID, i)
		// html/template escapes & inside attributes.
		if !strings.Contains(html, strings.ReplaceAll(link, "&", "&amp;")) {
			t.Fatalf("html missing link %q", link)
		}
		if !strings.Contains(text, link) {
			t.Fatalf("text missing link %q", link)
		}
	}
	if !strings.Contains(html, "Ana") {
		t.Fatalf("html missing generated response")
	}
}

func TestRenderClientReply_EscapesHTMLInResponse(t *testing.T) {
	rec := sampleRecord()
	rec.AIGeneratedResponse = `<script>alert("x")</script>`
	html, _, err := renderClientReply(rec, "http://localhost:5000")
	if err != nil {
		t.Fatalf("renderClientReply: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("response must be escaped: %q", html)
	}
}

func TestRenderAdminAlert(t *testing.T) {
	rec := sampleRecord()
	html, text, err := renderAdminAlert(rec)
	if err != nil {
		t.Fatalf("renderAdminAlert: %v", err)
	}

	for _, want := range []string{"Obuke", "91", "pominje obuku", "Ana", "ana@x.com", "Nije naveden"} {
		if !strings.Contains(html, want) {
			t.Fatalf("admin html missing %q", want)
		}
	}
	if !strings.Contains(text, "Obuke") || !strings.Contains(text, "ana@x.com") {
		t.Fatalf("admin text incomplete: %q", text)
	}

	// Client-submitted message must be escaped in the admin alert.
	rec.Message = `<img src=x onerror=alert(1)>`
	html, _, err = renderAdminAlert(rec)
	if err != nil {
		t.Fatalf("renderAdminAlert: %v", err)
	}
	if strings.Contains(html, "<img src=x") {
		t.Fatalf("message must be escaped: %q", html)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Q-Total <info@qtotal.rs>", "ana@x.com", "Subject", "<abc@qtotal.rs>", "<p>hi</p>", "hi")

	for _, want := range []string{
		"From: Q-Total <info@qtotal.rs>\r\n",
		"To: ana@x.com\r\n",
		"Subject: Subject\r\n",
		"Message-Id: <abc@qtotal.rs>\r\n",
		"MIME-Version: 1.0\r\n",
		"multipart/alternative",
		"text/plain; charset=UTF-8",
		"text/html; charset=UTF-8",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestNewMessageID_UsesSenderDomain(t *testing.T) {
	id := newMessageID("info@qtotal.rs")
	if !strings.HasPrefix(id, "<") || !strings.HasSuffix(id, "@qtotal.rs>") {
		t.Fatalf("unexpected message id %q", id)
	}
	if newMessageID("") == id {
		t.Fatalf("message ids must be unique")
	}
}
