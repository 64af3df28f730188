// Package http implements the HTTP/WebSocket transport.
//
// It serves the REST API used by the dashboard and head unit, a WebSocket
// endpoint carrying one request per frame, and the Swagger UI. Send delivers
// actuation commands to HTTP targets with a JSON POST.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/copilot/docs"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/transport"
)

// maxBodyBytes bounds request bodies and WebSocket frames.
const maxBodyBytes = 1 << 20

// Transport implements transport.Transport over HTTP and WebSocket.
type Transport struct {
	port   int
	server *http.Server
	client *http.Client
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{
		port:   port,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler returns the routes served for svc.
func Handler(svc transport.Service) http.Handler {
	h := &handlers{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /process", h.process)
	mux.HandleFunc("POST /execute", h.execute)
	mux.HandleFunc("GET /status", h.status)
	mux.HandleFunc("GET /languages", h.languages)
	mux.HandleFunc("GET /context", h.context)
	mux.HandleFunc("GET /ws", h.websocket)

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	return mux
}

// Listen starts the HTTP server and blocks until ctx is cancelled.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Send POSTs the payload to target.Endpoint. A target token is sent as a
// bearer credential.
func (t *Transport) Send(ctx context.Context, target message.Target, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http send: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("http send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("http send: status %d: %s", resp.StatusCode, body)
	}

	slog.Debug("http send success", "target", target.Name, "status", resp.StatusCode)
	return nil
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}
