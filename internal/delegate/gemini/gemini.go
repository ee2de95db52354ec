// Package gemini implements the free-text delegate on top of Google's
// Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/mestredagrelha/grelha/internal/freetext"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrMissingCredential is returned when no API key could be found.
var ErrMissingCredential = errors.New("gemini API key not configured")

// Config holds the adapter settings.
type Config struct {
	APIKey   string
	Model    string
	PackSize int
}

// Delegate sends sentences to Gemini and decodes its JSON answer.
type Delegate struct {
	client   *genai.Client
	model    string
	packSize int
}

// LoadAPIKey reads the key from the environment variable envName. When
// envFile is set and exists it is loaded first; variables already present
// in the environment win.
func LoadAPIKey(envName, envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	key := strings.TrimSpace(os.Getenv(envName))
	if key == "" {
		return "", fmt.Errorf("%w: set %s", ErrMissingCredential, envName)
	}
	return key, nil
}

// New creates a Gemini-backed delegate.
func New(ctx context.Context, cfg Config) (*Delegate, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.PackSize < 1 {
		cfg.PackSize = freetext.DefaultPackSize
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Delegate{client: client, model: cfg.Model, packSize: cfg.PackSize}, nil
}

// Understand implements freetext.Delegate.
func (d *Delegate) Understand(ctx context.Context, req freetext.Request) (freetext.Response, error) {
	prompt := BuildPrompt(req, d.packSize)

	resp, err := d.client.Models.GenerateContent(ctx, d.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return freetext.Response{}, fmt.Errorf("generating content: %w", err)
	}

	text := resp.Text()
	slog.Debug("gemini answered", "request_id", req.RequestID, "model", d.model, "bytes", len(text))

	return parseResponse(text)
}

// answer is the JSON object the prompt asks for.
type answer struct {
	ItemID   *string  `json:"itemId"`
	Quantity *float64 `json:"quantity"`
	SubType  *string  `json:"subType"`
}

func parseResponse(text string) (freetext.Response, error) {
	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return freetext.Response{}, fmt.Errorf("%w: empty answer", freetext.ErrDelegateMalformed)
	}

	var a answer
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return freetext.Response{}, fmt.Errorf("%w: decoding answer: %v", freetext.ErrDelegateMalformed, err)
	}

	out := freetext.Response{ItemID: a.ItemID}
	if a.Quantity != nil {
		out.Quantity = *a.Quantity
	}
	if a.SubType != nil {
		out.SubTypeHint = *a.SubType
	}
	return out, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
