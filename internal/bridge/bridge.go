// Package bridge moves text between the driver's language and the canonical
// working language.
//
// The bridge never fails: when translation errors, times out, panics or
// returns nothing, the input text passes through unchanged so the rest of the
// pipeline can still make a best-effort guess.
package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/nadzzz/copilot/internal/translate"
)

// DefaultTimeout bounds a single translation call when none is configured.
const DefaultTimeout = 5 * time.Second

// Bridge wraps a translate.Translator with pass-through fallback.
type Bridge struct {
	translator translate.Translator // nil disables translation
	canonical  string
	timeout    time.Duration
}

// New creates a bridge. A nil translator makes every call a pass-through.
func New(translator translate.Translator, canonical string, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{
		translator: translator,
		canonical:  canonical,
		timeout:    timeout,
	}
}

// Canonical returns the working language code.
func (b *Bridge) Canonical() string { return b.canonical }

// ToCanonical translates text from source into the canonical language.
func (b *Bridge) ToCanonical(ctx context.Context, text, source string) string {
	return b.translate(ctx, text, source, b.canonical)
}

// FromCanonical translates text from the canonical language into target.
func (b *Bridge) FromCanonical(ctx context.Context, text, target string) string {
	return b.translate(ctx, text, b.canonical, target)
}

func (b *Bridge) translate(ctx context.Context, text, source, target string) (result string) {
	if text == "" || source == target || b.translator == nil {
		return text
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("translation backend panicked, using original text",
				"backend", b.translator.Name(),
				"source", source,
				"target", target,
				"panic", r)
			result = text
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	out, err := b.translator.Translate(ctx, text, source, target)
	if err == nil {
		out, err = translate.Clean(out)
	}
	if err != nil {
		slog.Warn("translation failed, using original text",
			"backend", b.translator.Name(),
			"source", source,
			"target", target,
			"error", err)
		return text
	}

	slog.Debug("translated",
		"backend", b.translator.Name(),
		"source", source,
		"target", target,
		"duration", time.Since(start))
	return out
}
