package calendar

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

func TestBookRejectsUnparsableLabel(t *testing.T) {
	b := NewGoogleBooker(StaticClient{}, Config{AdminEmail: "admin@qtotal.rs"})
	b.clock = func() time.Time {
		return time.Date(2024, time.December, 2, 9, 0, 0, 0, b.loc)
	}

	_, err := b.Book(context.Background(), inquiry.BookingRequest{
		InquiryID:   "abc",
		ClientName:  "Ana",
		ClientEmail: "ana@example.com",
		MeetingTime: "sometime next week",
	})
	if err == nil {
		t.Fatal("expected error for unparsable meeting time")
	}
	if !strings.Contains(err.Error(), "calendar:") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBookWithoutCredentials(t *testing.T) {
	b := NewGoogleBooker(nil, Config{})
	b.clock = func() time.Time {
		return time.Date(2024, time.December, 2, 9, 0, 0, 0, b.loc)
	}

	_, err := b.Book(context.Background(), inquiry.BookingRequest{
		MeetingTime: "Utorak, 3. decembar u 14:00",
	})
	if err == nil || !strings.Contains(err.Error(), "credentials not configured") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.CalendarID != "primary" {
		t.Fatalf("CalendarID = %q", cfg.CalendarID)
	}
	if cfg.TimeZone != "Europe/Belgrade" {
		t.Fatalf("TimeZone = %q", cfg.TimeZone)
	}
}

func TestFileCredentials(t *testing.T) {
	dir := t.TempDir()
	credsPath := filepath.Join(dir, "credentials.json")
	tokenPath := filepath.Join(dir, "token.json")

	creds := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	token := `{"access_token":"tok","token_type":"Bearer"}`
	if err := os.WriteFile(credsPath, []byte(creds), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		t.Fatal(err)
	}

	fc := FileCredentials{CredentialsPath: credsPath, TokenPath: tokenPath}
	client, err := fc.Client(context.Background())
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if client == nil {
		t.Fatal("nil http client")
	}
}

func TestFileCredentialsMissingFiles(t *testing.T) {
	fc := FileCredentials{CredentialsPath: "/nonexistent/creds.json", TokenPath: "/nonexistent/token.json"}
	if _, err := fc.Client(context.Background()); err == nil {
		t.Fatal("expected error for missing credentials file")
	}
}
