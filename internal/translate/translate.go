// Package translate defines the machine translation capability used by the
// language bridge.
//
// Backends are black boxes that may fail or return degraded output; callers
// must treat every error as recoverable.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ErrEmptyResult is returned when a backend answers with no usable text.
var ErrEmptyResult = errors.New("translate: empty result")

// Translator is the interface every translation backend implements.
type Translator interface {
	// Name returns the backend identifier (e.g. "google", "libre").
	Name() string

	// Translate converts text from source to target. Codes use the catalog
	// form ("en", "hi", "zh-CN").
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// BaseCode strips region subtags: "zh-CN" -> "zh", "pt_BR" -> "pt".
func BaseCode(code string) string {
	lang := strings.ToLower(code)
	if idx := strings.IndexAny(lang, "-_"); idx >= 0 {
		lang = lang[:idx]
	}
	return lang
}

// NewHTTPClient returns the HTTP client shared by the HTTP backends. When
// socksAddr is set all requests are dialed through that SOCKS5 proxy.
func NewHTTPClient(socksAddr string, timeout time.Duration) (*http.Client, error) {
	if socksAddr == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 dialer: %w", err)
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// Clean trims backend output and rejects blank answers.
func Clean(out string) (string, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyResult
	}
	return out, nil
}
