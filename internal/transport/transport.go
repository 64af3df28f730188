// Package transport defines the contract for pluggable transports.
//
// Each transport (HTTP/WebSocket, gRPC, NATS) receives requests, hands them
// to a Service and returns the result to the caller. The same transports
// deliver actuation commands to downstream targets through Send.
package transport

import (
	"context"
	"errors"

	"github.com/nadzzz/copilot/internal/action"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/pipeline"
)

// Service is what transports expose to callers.
type Service interface {
	Process(ctx context.Context, req *message.Request) (*message.Result, error)
	Execute(ctx context.Context, req *message.ExecuteRequest) (*message.ExecuteResult, error)
	Status() message.Status
	Languages() message.LanguageCatalog
	LastContext() message.LastContext
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier ("http", "grpc", "nats").
	Name() string

	// Listen serves requests until ctx is cancelled.
	Listen(ctx context.Context, svc Service) error

	// Send delivers a payload to a target using this transport's protocol.
	Send(ctx context.Context, target message.Target, payload []byte) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}

// Code is a protocol-neutral outcome that each transport maps onto its own
// status space.
type Code int

const (
	CodeOK Code = iota
	CodeInvalid
	CodeBusy
	CodeInternal
)

// CodeOf classifies an error returned by a Service.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, pipeline.ErrEmptyInput), errors.Is(err, action.ErrNoIntent):
		return CodeInvalid
	case errors.Is(err, pipeline.ErrBusy):
		return CodeBusy
	default:
		return CodeInternal
	}
}

func statusOf(c Code) string {
	switch c {
	case CodeOK:
		return message.StatusOK
	case CodeInvalid:
		return message.StatusRejected
	case CodeBusy:
		return message.StatusBusy
	default:
		return message.StatusError
	}
}

// ErrorResult builds the Result reported for a failed Process call.
func ErrorResult(requestID string, err error) *message.Result {
	return &message.Result{
		RequestID: requestID,
		Status:    statusOf(CodeOf(err)),
		Error:     err.Error(),
	}
}

// ErrorExecuteResult builds the ExecuteResult reported for a failed Execute call.
func ErrorExecuteResult(err error) *message.ExecuteResult {
	return &message.ExecuteResult{
		Status:   statusOf(CodeOf(err)),
		RoutedTo: []string{},
		Error:    err.Error(),
	}
}
