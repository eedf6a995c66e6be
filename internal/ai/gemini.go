// Package ai adapts the Gemini generative-language API to the two calls the
// inquiry workflow needs: classification and reply generation.
//
// Rules:
// - No SDK calls outside this adapter.
// - Failures are returned to the orchestrator, which applies its fallbacks;
//   nothing here retries or blocks.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ZdravkoRistic/qtotal/internal/inquiry"
)

type Config struct {
	APIKey string
	// Model defaults to gemini-2.0-flash.
	Model string
}

const defaultModel = "gemini-2.0-flash"

type Client struct {
	genai *genai.Client
	model string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: GEMINI_API_KEY is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: client init: %w", err)
	}
	return &Client{genai: gc, model: cfg.Model}, nil
}

const classificationPrompt = `Analiziraj sledeću poruku klijenta i klasifikuj je kao "Konsalting" ili "Obuke".

Poruka: %q

Odgovori SAMO u JSON formatu bez dodatnog teksta:
{
    "serviceType": "Konsalting" ili "Obuke",
    "confidence": broj između 0 i 100,
    "reasoning": "kratko objašnjenje zašto si tako klasifikovao"
}`

// Classify asks the model to label the inquiry. The model is instructed to
// answer with bare JSON, but markdown code fences around it are tolerated.
func (c *Client) Classify(ctx context.Context, message string) (inquiry.Classification, error) {
	text, err := c.generate(ctx, formatClassificationPrompt(message))
	if err != nil {
		return inquiry.Classification{}, err
	}
	return decodeClassification(text)
}

func formatClassificationPrompt(message string) string {
	return fmt.Sprintf(classificationPrompt, message)
}

const replyPrompt = `Ti si profesionalni asistent kompanije Q-Total koja pruža IT konsalting i obuke.

Klijent je poslao sledeću poruku:
Ime: %s
Poruka: %q

Klasifikacija: %s

Napiši profesionalan, prijatan i personalizovan odgovor na srpskom jeziku koji:
1. Pozdravlja klijenta po imenu
2. Zahvaljuje se na kontaktu
3. Potvrđuje razumevanje njihovog zahteva
4. Kratko objašnjava kako možemo pomoći
5. Predlaže da zakažemo sastanak da razgovaramo o detaljima
6. Završava profesionalnim potpisom "Q-Total Tim"

Odgovor treba da bude topao, profesionalan i ne duži od 150 reči.`

// GenerateReply drafts the personalized response sent to the client.
func (c *Client) GenerateReply(ctx context.Context, name, message, serviceType string) (string, error) {
	return c.generate(ctx, fmt.Sprintf(replyPrompt, name, message, serviceType))
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("ai: generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("ai: empty model response")
	}
	return text, nil
}

type classificationJSON struct {
	ServiceType string  `json:"serviceType"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

func decodeClassification(text string) (inquiry.Classification, error) {
	var raw classificationJSON
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return inquiry.Classification{}, fmt.Errorf("ai: malformed classification response: %w", err)
	}
	if raw.ServiceType == "" {
		return inquiry.Classification{}, errors.New("ai: classification response missing serviceType")
	}
	conf := int(raw.Confidence)
	if conf < 0 {
		conf = 0
	}
	if conf > 100 {
		conf = 100
	}
	return inquiry.Classification{
		ServiceType: raw.ServiceType,
		Confidence:  conf,
		Reasoning:   raw.Reasoning,
	}, nil
}

// stripFences removes markdown code fences some model replies wrap around the
// requested JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
