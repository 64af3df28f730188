// Package openai implements the Translator interface with a chat-completion
// model. Any OpenAI-compatible server (Ollama, vLLM) works via base_url.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/language"
)

const systemPrompt = `You translate short in-car voice commands and assistant replies.
Translate the user's text from %s to %s.
Romanized input (e.g. Hindi or Telugu written in Latin letters) must be understood as that language.
Keep numbers, names and place names unchanged.
Output ONLY the translation. No quotes, no explanations.`

// Translator asks a chat model for translations.
type Translator struct {
	client openai.Client
	model  string
}

// New creates an LLM translator from config. httpClient carries the timeout and proxy.
func New(cfg config.OpenAIConfig, httpClient *http.Client) *Translator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Translator{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Name returns the backend identifier.
func (t *Translator) Name() string { return "openai" }

// Translate sends one system + user message pair and returns the reply.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(systemPrompt, displayName(source), displayName(target))),
			openai.UserMessage(text),
		},
		Model: openai.ChatModel(t.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	slog.Debug("llm translation complete", "source", source, "target", target, "text_length", len(content))
	return content, nil
}

func displayName(code string) string {
	if l, ok := language.Lookup(code); ok {
		return l.Name
	}
	return code
}
