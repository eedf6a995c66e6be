package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// CredentialProvider yields an authenticated HTTP client for the Calendar API.
type CredentialProvider interface {
	Client(ctx context.Context) (*http.Client, error)
}

// FileCredentials reads an OAuth2 client configuration and a previously
// obtained user token from disk. The token file is produced out of band by a
// one-time consent flow.
type FileCredentials struct {
	CredentialsPath string
	TokenPath       string
}

func (f FileCredentials) Client(ctx context.Context) (*http.Client, error) {
	raw, err := os.ReadFile(f.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read oauth config: %w", err)
	}
	cfg, err := google.ConfigFromJSON(raw, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth config: %w", err)
	}

	tokRaw, err := os.ReadFile(f.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("read oauth token: %w", err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(tokRaw, tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	return cfg.Client(ctx, tok), nil
}

// StaticClient wraps a fixed HTTP client, mainly for tests.
type StaticClient struct {
	HTTP *http.Client
}

func (s StaticClient) Client(ctx context.Context) (*http.Client, error) {
	if s.HTTP == nil {
		return nil, fmt.Errorf("no http client configured")
	}
	return s.HTTP, nil
}
