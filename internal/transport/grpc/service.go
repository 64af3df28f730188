package grpc

import (
	"context"
	"encoding/json"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/transport"
)

// Full method names.
const (
	ProcessMethod   = "/copilot.v1.Assistant/Process"
	ExecuteMethod   = "/copilot.v1.Assistant/Execute"
	StatusMethod    = "/copilot.v1.Assistant/Status"
	LanguagesMethod = "/copilot.v1.Assistant/Languages"

	// ActuatorMethod is implemented by downstream targets reached through Send.
	ActuatorMethod = "/copilot.v1.Actuator/Execute"
)

// Empty is the request of the parameterless methods.
type Empty struct{}

// AssistantServer is the server API for copilot.v1.Assistant.
type AssistantServer interface {
	Process(context.Context, *message.Request) (*message.Result, error)
	Execute(context.Context, *message.ExecuteRequest) (*message.ExecuteResult, error)
	Status(context.Context, *Empty) (*message.Status, error)
	Languages(context.Context, *Empty) (*message.LanguageCatalog, error)
}

// RegisterAssistant serves svc on s.
func RegisterAssistant(s *grpc.Server, svc transport.Service) {
	s.RegisterService(&assistantDesc, &assistantServer{svc: svc})
}

type assistantServer struct {
	svc transport.Service
}

func grpcError(err error) error {
	switch transport.CodeOf(err) {
	case transport.CodeInvalid:
		return status.Error(codes.InvalidArgument, err.Error())
	case transport.CodeBusy:
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		slog.Error("grpc call failed", "error", err)
		return status.Error(codes.Internal, err.Error())
	}
}

func (a *assistantServer) Process(ctx context.Context, req *message.Request) (*message.Result, error) {
	if req.Source == "" {
		req.Source = "grpc"
	}
	res, err := a.svc.Process(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return res, nil
}

func (a *assistantServer) Execute(ctx context.Context, req *message.ExecuteRequest) (*message.ExecuteResult, error) {
	res, err := a.svc.Execute(ctx, req)
	if err != nil {
		return nil, grpcError(err)
	}
	return res, nil
}

func (a *assistantServer) Status(context.Context, *Empty) (*message.Status, error) {
	st := a.svc.Status()
	return &st, nil
}

func (a *assistantServer) Languages(context.Context, *Empty) (*message.LanguageCatalog, error) {
	cat := a.svc.Languages()
	return &cat, nil
}

// unary adapts a typed method to a grpc.MethodHandler.
func unary[Req, Res any](fullMethod string, call func(AssistantServer, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AssistantServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AssistantServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var assistantDesc = grpc.ServiceDesc{
	ServiceName: "copilot.v1.Assistant",
	HandlerType: (*AssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Process", Handler: unary(ProcessMethod, AssistantServer.Process)},
		{MethodName: "Execute", Handler: unary(ExecuteMethod, AssistantServer.Execute)},
		{MethodName: "Status", Handler: unary(StatusMethod, AssistantServer.Status)},
		{MethodName: "Languages", Handler: unary(LanguagesMethod, AssistantServer.Languages)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "copilot/v1/assistant.proto",
}

// ActuatorFunc handles one command delivered by Send.
type ActuatorFunc func(ctx context.Context, command json.RawMessage) error

// ActuatorServer is the server API for copilot.v1.Actuator.
type ActuatorServer interface {
	Execute(ctx context.Context, command json.RawMessage) error
}

func (f ActuatorFunc) Execute(ctx context.Context, command json.RawMessage) error {
	return f(ctx, command)
}

// RegisterActuator serves an actuation endpoint on s, for targets written in
// Go and for tests.
func RegisterActuator(s *grpc.Server, a ActuatorServer) {
	s.RegisterService(&actuatorDesc, a)
}

type ack struct {
	Status string `json:"status"`
}

var actuatorDesc = grpc.ServiceDesc{
	ServiceName: "copilot.v1.Actuator",
	HandlerType: (*ActuatorServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Execute",
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			var in json.RawMessage
			if err := dec(&in); err != nil {
				return nil, err
			}
			call := func(ctx context.Context, req any) (any, error) {
				if err := srv.(ActuatorServer).Execute(ctx, *req.(*json.RawMessage)); err != nil {
					return nil, err
				}
				return &ack{Status: message.StatusOK}, nil
			}
			if interceptor == nil {
				return call(ctx, &in)
			}
			return interceptor(ctx, &in, &grpc.UnaryServerInfo{Server: srv, FullMethod: ActuatorMethod}, call)
		},
	}},
	Streams:  []grpc.StreamDesc{},
	Metadata: "copilot/v1/actuator.proto",
}
