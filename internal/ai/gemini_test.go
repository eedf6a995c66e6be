package ai

import (
	"strings"
	"testing"
)

func TestDecodeClassification(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		wantType string
		wantConf int
		wantErr  bool
	}{
		{
			name:     "bare json",
			text:     `{"serviceType": "Obuke", "confidence": 87, "reasoning": "pominje obuku"}`,
			wantType: "Obuke",
			wantConf: 87,
		},
		{
			name:     "fenced json",
			text:     "```json\n{\"serviceType\": \"Konsalting\", \"confidence\": 64.5, \"reasoning\": \"savet\"}\n```",
			wantType: "Konsalting",
			wantConf: 64,
		},
		{
			name:     "confidence above range is clamped",
			text:     `{"serviceType": "Obuke", "confidence": 250, "reasoning": ""}`,
			wantType: "Obuke",
			wantConf: 100,
		},
		{
			name:    "missing serviceType",
			text:    `{"confidence": 50}`,
			wantErr: true,
		},
		{
			name:    "prose instead of json",
			text:    "Ova poruka je o obukama.",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeClassification(tc.text)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ServiceType != tc.wantType || got.Confidence != tc.wantConf {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	if got := stripFences(in); got != `{"a":1}` {
		t.Fatalf("got %q", got)
	}
	if got := stripFences("  {\"a\":1}  "); got != `{"a":1}` {
		t.Fatalf("got %q", got)
	}
}

func TestClassificationPromptEmbedsMessage(t *testing.T) {
	// The prompt is a format string; a message containing % verbs must not
	// corrupt it.
	msg := "Treba nam obuka 100% online"
	p := formatClassificationPrompt(msg)
	if !strings.Contains(p, msg) {
		t.Fatalf("prompt missing message: %q", p)
	}
}
