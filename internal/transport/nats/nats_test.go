package nats

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/pipeline"
)

type fakeService struct {
	err error
	got *message.Request
}

func (f *fakeService) Process(_ context.Context, req *message.Request) (*message.Result, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &message.Result{RequestID: req.ID, Status: message.StatusOK, Intent: "CALL", Lang: req.Lang}, nil
}

func (f *fakeService) Execute(_ context.Context, req *message.ExecuteRequest) (*message.ExecuteResult, error) {
	return &message.ExecuteResult{Status: message.StatusOK, RoutedTo: req.Targets}, nil
}

func (f *fakeService) Status() message.Status {
	return message.Status{Status: message.StatusOK, Lang: "bn"}
}

func (f *fakeService) Languages() message.LanguageCatalog {
	return message.LanguageCatalog{Canonical: "en"}
}

func (f *fakeService) LastContext() message.LastContext {
	return message.LastContext{Intent: "AC", Lang: "ta"}
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("reply %s: %v", data, err)
	}
	return out
}

func TestHandleProcess(t *testing.T) {
	svc := &fakeService{}
	out := decode(t, handle(context.Background(), svc, "process", []byte(`{"id":"n1","text":"call amma","lang":"te"}`)))
	if out["status"] != "ok" || out["intent"] != "CALL" || out["request_id"] != "n1" {
		t.Errorf("reply = %v", out)
	}
	if svc.got.Source != "nats" {
		t.Errorf("source = %q", svc.got.Source)
	}
}

func TestHandleProcessErrors(t *testing.T) {
	tests := []struct {
		err  error
		data string
		want string
	}{
		{pipeline.ErrBusy, `{"text":"call mom"}`, "busy"},
		{pipeline.ErrEmptyInput, `{"text":""}`, "rejected"},
		{nil, `not json`, "rejected"},
	}
	for _, tt := range tests {
		out := decode(t, handle(context.Background(), &fakeService{err: tt.err}, "process", []byte(tt.data)))
		if out["status"] != tt.want {
			t.Errorf("%s: status = %v, want %s", tt.data, out["status"], tt.want)
		}
	}
}

func TestHandleOtherOperations(t *testing.T) {
	svc := &fakeService{}
	ctx := context.Background()

	if out := decode(t, handle(ctx, svc, "execute", nil)); out["status"] != "ok" {
		t.Errorf("execute = %v", out)
	}
	if out := decode(t, handle(ctx, svc, "execute", []byte(`{"targets":["body"]}`))); len(out["routed_to"].([]any)) != 1 {
		t.Errorf("execute with targets = %v", out)
	}
	if out := decode(t, handle(ctx, svc, "status", nil)); out["lang"] != "bn" {
		t.Errorf("status = %v", out)
	}
	if out := decode(t, handle(ctx, svc, "languages", nil)); out["canonical"] != "en" {
		t.Errorf("languages = %v", out)
	}
	if out := decode(t, handle(ctx, svc, "context", nil)); out["intent"] != "AC" {
		t.Errorf("context = %v", out)
	}
	if out := decode(t, handle(ctx, svc, "reboot", nil)); out["status"] != "error" {
		t.Errorf("unknown op = %v", out)
	}
}

func TestNotConnected(t *testing.T) {
	tr := New(config.NATSConfig{})
	if tr.Subject("process") != "copilot.process" {
		t.Errorf("subject = %q", tr.Subject("process"))
	}
	if err := tr.Ping(context.Background()); err == nil {
		t.Error("Ping succeeded without a connection")
	}
	if err := tr.Send(context.Background(), message.Target{Endpoint: "car.body"}, []byte(`{}`)); err == nil {
		t.Error("Send succeeded without a connection")
	}
	if err := tr.Listen(context.Background(), &fakeService{}); err == nil {
		t.Error("Listen succeeded without a connection")
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
