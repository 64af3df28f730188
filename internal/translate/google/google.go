// Package google implements the Translator interface against the public
// Google Translate web endpoint (client=gtx), the same endpoint used by
// browser extensions. No API key is needed.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nadzzz/copilot/internal/config"
)

// Translator calls translate.googleapis.com.
type Translator struct {
	endpoint string
	client   *http.Client
}

// New creates a Google translator. client carries the timeout and proxy.
func New(cfg config.GoogleConfig, client *http.Client) *Translator {
	if client == nil {
		client = &http.Client{}
	}
	return &Translator{endpoint: cfg.Endpoint, client: client}
}

// Name returns the backend identifier.
func (t *Translator) Name() string { return "google" }

// Translate sends a single GET request and joins the returned sentence segments.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := make(url.Values)
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("google translate failed (status %d): %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading google response: %w", err)
	}

	out, err := parseSegments(data)
	if err != nil {
		return "", err
	}

	slog.Debug("google translation complete", "source", source, "target", target, "text_length", len(out))
	return out, nil
}

// parseSegments extracts the translated text from the nested array response:
//
//	[[["Hola","Hello",null,null,10],["mundo","world",...]],null,"en",...]
func parseSegments(data []byte) (string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return "", fmt.Errorf("decoding google response: %w", err)
	}
	if len(top) == 0 {
		return "", fmt.Errorf("decoding google response: empty envelope")
	}

	var segments [][]any
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", fmt.Errorf("decoding google segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}
