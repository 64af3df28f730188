// Package libre implements the Translator interface using a self-hosted
// LibreTranslate server (POST /translate).
package libre

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/translate"
)

// Translator talks to LibreTranslate.
type Translator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// New creates a LibreTranslate client from config.
func New(cfg config.LibreConfig, client *http.Client) *Translator {
	if client == nil {
		client = &http.Client{}
	}
	return &Translator{endpoint: cfg.Endpoint, apiKey: cfg.APIKey, client: client}
}

// Name returns the backend identifier.
func (t *Translator) Name() string { return "libre" }

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate posts the text and returns translatedText. LibreTranslate uses
// base language codes, so region subtags are dropped.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(request{
		Q:      text,
		Source: translate.BaseCode(source),
		Target: translate.BaseCode(target),
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate request: %w", err)
	}
	defer resp.Body.Close()

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding libretranslate response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("libretranslate failed (status %d): %s", resp.StatusCode, out.Error)
	}

	slog.Debug("libretranslate complete", "source", source, "target", target, "text_length", len(out.TranslatedText))
	return out.TranslatedText, nil
}
