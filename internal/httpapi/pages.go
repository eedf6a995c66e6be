package httpapi

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// Confirmation outcome pages. Copy is Serbian because the audience is the
// client who clicked an email link; templates escape all record-derived text.

type pageData struct {
	ClientName  string
	MeetingTime string
	Reason      string
}

const (
	pageInvalidLink      = "invalid_link"
	pageNotFound         = "not_found"
	pageInvalidSlot      = "invalid_slot"
	pageAlreadyConfirmed = "already_confirmed"
	pageBooked           = "booked"
	pageBookingFailed    = "booking_failed"
	pageServerError      = "server_error"
)

var confirmPages = template.Must(template.New("pages").Parse(`
{{define "error_shell"}}<!DOCTYPE html>
<html>
  <body style="font-family: Arial; text-align: center; padding: 50px;">
    <h1 style="color: #e74c3c;">&#10060; Greška</h1>
    <p>{{.}}</p>
  </body>
</html>
{{end}}

{{define "invalid_link"}}{{template "error_shell" "Nevažeći link za potvrdu."}}{{end}}
{{define "not_found"}}{{template "error_shell" "Kontakt nije pronađen."}}{{end}}
{{define "invalid_slot"}}{{template "error_shell" "Nevažeći termin."}}{{end}}

{{define "already_confirmed"}}<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <title>Već Potvrđeno - Q-Total</title>
  </head>
  <body style="font-family: Arial; text-align: center; padding: 50px; background-color: #f9f9f9;">
    <div style="background: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); max-width: 600px; margin: 0 auto;">
      <h1 style="color: #f39c12;">&#9888; Sastanak već zakazan</h1>
      <p style="font-size: 18px; color: #555;">Već ste potvrdili sastanak:</p>
      <p style="font-size: 20px; font-weight: bold; color: #27ae60;">{{.MeetingTime}}</p>
      <p style="color: #888;">Pozivnica je već poslata na vašu email adresu.</p>
    </div>
  </body>
</html>
{{end}}

{{define "booked"}}<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <title>Sastanak Zakazan - Q-Total</title>
  </head>
  <body style="font-family: Arial; text-align: center; padding: 50px; background-color: #f9f9f9;">
    <div style="background: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); max-width: 600px; margin: 0 auto;">
      <h1 style="color: #27ae60;">&#9989; Sastanak uspešno zakazan!</h1>
      <p style="font-size: 18px; color: #555;">Hvala što ste potvrdili, {{.ClientName}}!</p>
      <div style="background: #e8f5e9; padding: 20px; border-radius: 5px; margin: 20px 0;">
        <p style="font-size: 16px; margin: 5px 0;"><strong>Termin:</strong></p>
        <p style="font-size: 22px; font-weight: bold; color: #27ae60; margin: 10px 0;">{{.MeetingTime}}</p>
      </div>
      <p style="color: #888;">Pozivnica za sastanak je poslata na vašu email adresu.</p>
      <p style="color: #888;">Dodajte ga u svoj kalendar klikom na link u emailu.</p>
      <hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">
      <p style="color: #888; font-size: 14px;">
        Q-Total - IT Konsalting i Obuke<br>
        Email: qtotal.rs@gmail.com
      </p>
    </div>
  </body>
</html>
{{end}}

{{define "booking_failed"}}<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <title>Greška - Q-Total</title>
  </head>
  <body style="font-family: Arial; text-align: center; padding: 50px; background-color: #f9f9f9;">
    <div style="background: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); max-width: 600px; margin: 0 auto;">
      <h1 style="color: #e74c3c;">&#10060; Greška prilikom zakazivanja</h1>
      <p style="font-size: 18px; color: #555;">Vaš izbor je zabeležen:</p>
      <p style="font-size: 20px; font-weight: bold; color: #3498db;">{{.MeetingTime}}</p>
      <p style="color: #888;">Međutim, došlo je do problema sa kreiranjem kalendar eventa.</p>
      <p style="color: #888;">Javićemo vam se uskoro sa potvrdom.</p>
      {{if .Reason}}<p style="color: #e74c3c; font-size: 14px; margin-top: 20px;">Greška: {{.Reason}}</p>{{end}}
    </div>
  </body>
</html>
{{end}}

{{define "server_error"}}<!DOCTYPE html>
<html>
  <body style="font-family: Arial; text-align: center; padding: 50px;">
    <h1 style="color: #e74c3c;">&#10060; Server Greška</h1>
    <p>Došlo je do greške. Molimo pokušajte ponovo kasnije.</p>
    {{if .Reason}}<p style="color: #888; font-size: 14px;">{{.Reason}}</p>{{end}}
  </body>
</html>
{{end}}
`))

func renderPage(c *gin.Context, status int, name string, data pageData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := confirmPages.ExecuteTemplate(c.Writer, name, data); err != nil {
		// Headers are already written; nothing left to do but record it.
		_ = c.Error(err)
	}
}
