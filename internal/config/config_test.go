package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App: AppConfig{Env: "local", Port: 8080, BaseURL: "http://localhost:8080"},
		DB:  DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "qtotal", SSLMode: "disable"},
		Auth: AuthConfig{
			JWTSecret:       "secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 30 * 24 * time.Hour,
			AdminUsername:   "admin",
			AdminPassword:   "pass",
		},
		RateLimit: RateLimitConfig{Requests: 10, Window: time.Minute},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_OK(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.DB.SSLMode = ""
	c.Auth.JWTIssuer = "qtotal"
	c.Auth.JWTAudience = "qtotal-api"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_ProductionRequiresDB(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.DB = DBConfig{}
	c.Auth.JWTIssuer = "qtotal"
	c.Auth.JWTAudience = "qtotal-api"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_HOST")
	}
}

func TestValidate_DBOptionalOutsideProduction(t *testing.T) {
	c := validConfig()
	c.DB = DBConfig{}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error without DB config, got %v", err)
	}
}

func TestValidate_SMTPRequiresAdminEmail(t *testing.T) {
	c := validConfig()
	c.SMTP = SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@qtotal.rs"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for SMTP without ADMIN_EMAIL")
	}
	c.SMTP.AdminEmail = "admin@qtotal.rs"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_CalendarRequiresTokenFile(t *testing.T) {
	c := validConfig()
	c.Calendar = CalendarConfig{CredentialsFile: "credentials.json"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for calendar without token file")
	}
}

func TestValidate_AdminCredentialsRequired(t *testing.T) {
	c := validConfig()
	c.Auth.AdminPassword = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing admin credentials")
	}
}

func TestHTTPAddr(t *testing.T) {
	c := validConfig()
	if got := c.HTTPAddr(); got != ":8080" {
		t.Fatalf("HTTPAddr = %q", got)
	}
}
