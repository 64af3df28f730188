// Package grpc implements the gRPC transport.
//
// The server exposes copilot.v1.Assistant (Process, Execute, Status,
// Languages). Messages are the JSON types of the message package carried by
// a registered "json" codec, so clients call with content-subtype json
// instead of compiling protobuf stubs. Send calls copilot.v1.Actuator/Execute
// on the target.
package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/transport"
)

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server

	mu       sync.Mutex
	conns    map[string]*grpc.ClientConn // by target endpoint
	dialOpts []grpc.DialOption
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{
		port:  port,
		conns: make(map[string]*grpc.ClientConn),
		dialOpts: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
		},
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and blocks until ctx is cancelled.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	t.server = grpc.NewServer()
	RegisterAssistant(t.server, svc)

	slog.Info("grpc transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		t.server.GracefulStop()
	}()

	return t.server.Serve(lis)
}

// Send invokes the actuator method on target.Endpoint (host:port) with the
// command as its JSON body. Connections are reused per endpoint.
func (t *Transport) Send(ctx context.Context, target message.Target, payload []byte) error {
	conn, err := t.conn(target.Endpoint)
	if err != nil {
		return err
	}
	if target.Token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+target.Token)
	}

	var reply json.RawMessage
	if err := conn.Invoke(ctx, ActuatorMethod, json.RawMessage(payload), &reply); err != nil {
		return fmt.Errorf("grpc send to %s: %w", target.Name, err)
	}
	slog.Debug("grpc send success", "target", target.Name, "reply", string(reply))
	return nil
}

func (t *Transport) conn(endpoint string) (*grpc.ClientConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.conns[endpoint]; ok {
		return c, nil
	}
	c, err := grpc.NewClient(endpoint, t.dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", endpoint, err)
	}
	t.conns[endpoint] = c
	return c, nil
}

// Close stops the server and closes client connections.
func (t *Transport) Close() error {
	if t.server != nil {
		t.server.GracefulStop()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for ep, c := range t.conns {
		_ = c.Close()
		delete(t.conns, ep)
	}
	return nil
}
