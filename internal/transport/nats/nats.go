// Package nats implements the NATS request/reply transport.
//
// Requests arrive on <prefix>.process, <prefix>.execute, <prefix>.status,
// <prefix>.languages and <prefix>.context. Replies are JSON; failures are
// reported in the result's status field rather than as NATS errors. Send
// publishes actuation commands to the target's subject.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/transport"
)

// Transport implements transport.Transport over NATS.
type Transport struct {
	cfg  config.NATSConfig
	conn *nats.Conn
	subs []*nats.Subscription
}

// New creates a NATS transport. Call Connect before Listen or Send.
func New(cfg config.NATSConfig) *Transport {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "copilot"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Transport{cfg: cfg}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "nats" }

// Connect dials the server and keeps reconnecting in the background.
func (t *Transport) Connect() error {
	conn, err := nats.Connect(t.cfg.URL,
		nats.Name(t.cfg.Name),
		nats.Timeout(t.cfg.Timeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to nats: %w", err)
	}
	t.conn = conn
	slog.Info("connected to nats", "url", t.cfg.URL)
	return nil
}

// Ping reports whether the connection is up. It serves as a readiness check.
func (t *Transport) Ping(context.Context) error {
	if t.conn == nil {
		return errors.New("nats not connected")
	}
	if !t.conn.IsConnected() {
		return fmt.Errorf("nats connection %s", t.conn.Status())
	}
	return nil
}

// Subject returns the full subject for an operation.
func (t *Transport) Subject(op string) string {
	return t.cfg.SubjectPrefix + "." + op
}

// Listen subscribes to the request subjects and blocks until ctx is cancelled.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	if t.conn == nil {
		return errors.New("nats listen: not connected")
	}
	for _, op := range []string{"process", "execute", "status", "languages", "context"} {
		subject := t.Subject(op)
		sub, err := t.conn.Subscribe(subject, func(msg *nats.Msg) {
			reqCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
			defer cancel()
			reply := handle(reqCtx, svc, op, msg.Data)
			if msg.Reply == "" {
				return
			}
			if err := msg.Respond(reply); err != nil {
				slog.Warn("nats respond failed", "subject", subject, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		t.subs = append(t.subs, sub)
	}

	slog.Info("nats transport listening", "prefix", t.cfg.SubjectPrefix)
	<-ctx.Done()
	slog.Info("nats transport shutting down")
	return nil
}

// handle runs one request and returns the JSON reply.
func handle(ctx context.Context, svc transport.Service, op string, data []byte) []byte {
	var reply any
	switch op {
	case "process":
		var req message.Request
		if err := json.Unmarshal(data, &req); err != nil {
			reply = &message.Result{Status: message.StatusRejected, Error: "invalid json: " + err.Error()}
			break
		}
		if req.Source == "" {
			req.Source = "nats"
		}
		res, err := svc.Process(ctx, &req)
		if err != nil {
			res = transport.ErrorResult(req.ID, err)
		}
		reply = res
	case "execute":
		var req message.ExecuteRequest
		if len(data) > 0 {
			if err := json.Unmarshal(data, &req); err != nil {
				reply = &message.ExecuteResult{Status: message.StatusRejected, RoutedTo: []string{}, Error: "invalid json: " + err.Error()}
				break
			}
		}
		res, err := svc.Execute(ctx, &req)
		if err != nil {
			res = transport.ErrorExecuteResult(err)
		}
		reply = res
	case "status":
		reply = svc.Status()
	case "languages":
		reply = svc.Languages()
	case "context":
		reply = svc.LastContext()
	default:
		reply = map[string]string{"status": message.StatusError, "error": "unknown operation " + op}
	}

	out, err := json.Marshal(reply)
	if err != nil {
		slog.Error("nats reply marshal failed", "op", op, "error", err)
		return []byte(`{"status":"error","error":"internal error"}`)
	}
	return out
}

// Send publishes the payload to target.Endpoint, which names a subject.
func (t *Transport) Send(ctx context.Context, target message.Target, payload []byte) error {
	if t.conn == nil {
		return errors.New("nats send: not connected")
	}
	msg := nats.NewMsg(target.Endpoint)
	msg.Data = payload
	msg.Header.Set("Content-Type", "application/json")
	if target.Token != "" {
		msg.Header.Set("Authorization", "Bearer "+target.Token)
	}
	if err := t.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish to %s: %w", target.Endpoint, err)
	}
	slog.Debug("nats send success", "target", target.Name, "subject", target.Endpoint)
	return nil
}

// Close drains subscriptions and closes the connection.
func (t *Transport) Close() error {
	if t.conn == nil {
		return nil
	}
	for _, sub := range t.subs {
		_ = sub.Unsubscribe()
	}
	t.subs = nil
	if err := t.conn.Drain(); err != nil {
		t.conn.Close()
		return fmt.Errorf("nats drain: %w", err)
	}
	return nil
}
