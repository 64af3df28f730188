package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/pipeline"
)

type fakeService struct {
	processErr error
}

func (f *fakeService) Process(_ context.Context, req *message.Request) (*message.Result, error) {
	if f.processErr != nil {
		return nil, f.processErr
	}
	return &message.Result{RequestID: "r1", Status: message.StatusOK, Intent: "NAVIGATION", Lang: req.Lang, Heard: req.Source}, nil
}

func (f *fakeService) Execute(context.Context, *message.ExecuteRequest) (*message.ExecuteResult, error) {
	return &message.ExecuteResult{Status: message.StatusOK, RoutedTo: []string{"body"}}, nil
}

func (f *fakeService) Status() message.Status {
	return message.Status{Status: message.StatusOK, Processing: true, Lang: "ml"}
}

func (f *fakeService) Languages() message.LanguageCatalog {
	return message.LanguageCatalog{Canonical: "en"}
}

func (f *fakeService) LastContext() message.LastContext { return message.LastContext{} }

func bufServer(t *testing.T, register func(*grpc.Server)) func(context.Context, string) (net.Conn, error) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	register(s)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)
	return func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
}

func dial(t *testing.T, dialer func(context.Context, string) (net.Conn, error)) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestAssistantMethods(t *testing.T) {
	conn := dial(t, bufServer(t, func(s *grpc.Server) { RegisterAssistant(s, &fakeService{}) }))
	ctx := context.Background()

	var res message.Result
	if err := conn.Invoke(ctx, ProcessMethod, &message.Request{Text: "take me home", Lang: "kn"}, &res); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Intent != "NAVIGATION" || res.Lang != "kn" || res.Heard != "grpc" {
		t.Errorf("result = %+v", res)
	}

	var exec message.ExecuteResult
	if err := conn.Invoke(ctx, ExecuteMethod, &message.ExecuteRequest{}, &exec); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(exec.RoutedTo) != 1 {
		t.Errorf("execute = %+v", exec)
	}

	var st message.Status
	if err := conn.Invoke(ctx, StatusMethod, &Empty{}, &st); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Processing || st.Lang != "ml" {
		t.Errorf("status = %+v", st)
	}

	var cat message.LanguageCatalog
	if err := conn.Invoke(ctx, LanguagesMethod, &Empty{}, &cat); err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if cat.Canonical != "en" {
		t.Errorf("catalog = %+v", cat)
	}
}

func TestProcessErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{pipeline.ErrEmptyInput, codes.InvalidArgument},
		{pipeline.ErrBusy, codes.ResourceExhausted},
		{fmt.Errorf("%w: boom", pipeline.ErrInternal), codes.Internal},
	}
	for _, tt := range tests {
		conn := dial(t, bufServer(t, func(s *grpc.Server) { RegisterAssistant(s, &fakeService{processErr: tt.err}) }))
		var res message.Result
		err := conn.Invoke(context.Background(), ProcessMethod, &message.Request{Text: "x"}, &res)
		if got := status.Code(err); got != tt.code {
			t.Errorf("%v: code = %s, want %s", tt.err, got, tt.code)
		}
	}
}

func TestSend(t *testing.T) {
	var (
		mu       sync.Mutex
		received json.RawMessage
		auth     []string
	)
	dialer := bufServer(t, func(s *grpc.Server) {
		RegisterActuator(s, ActuatorFunc(func(ctx context.Context, cmd json.RawMessage) error {
			mu.Lock()
			defer mu.Unlock()
			received = cmd
			md, _ := metadata.FromIncomingContext(ctx)
			auth = md.Get("authorization")
			return nil
		}))
	})

	tr := New(0)
	tr.dialOpts = append(tr.dialOpts, grpc.WithContextDialer(dialer))
	defer tr.Close()

	target := message.Target{Name: "cluster", Endpoint: "passthrough:///bufnet", Protocol: "grpc", Token: "t0k"}
	if err := tr.Send(context.Background(), target, []byte(`{"intent":"MEDIA"}`)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if string(received) != `{"intent":"MEDIA"}` {
		t.Errorf("received %s", received)
	}
	if len(auth) != 1 || auth[0] != "Bearer t0k" {
		t.Errorf("authorization = %v", auth)
	}
}

func TestSendActuatorError(t *testing.T) {
	dialer := bufServer(t, func(s *grpc.Server) {
		RegisterActuator(s, ActuatorFunc(func(context.Context, json.RawMessage) error {
			return status.Error(codes.Unavailable, "window motor fault")
		}))
	})
	tr := New(0)
	tr.dialOpts = append(tr.dialOpts, grpc.WithContextDialer(dialer))
	defer tr.Close()

	err := tr.Send(context.Background(), message.Target{Name: "body", Endpoint: "passthrough:///bufnet"}, []byte(`{}`))
	if status.Code(errors.Unwrap(err)) != codes.Unavailable {
		t.Errorf("err = %v", err)
	}
}
