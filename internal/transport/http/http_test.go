package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/nadzzz/copilot/internal/action"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/pipeline"
)

type fakeService struct {
	mu         sync.Mutex
	processErr error
	executeErr error
	lastReq    *message.Request
}

func (f *fakeService) Process(_ context.Context, req *message.Request) (*message.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	if f.processErr != nil {
		return nil, f.processErr
	}
	return &message.Result{RequestID: "r1", Status: message.StatusOK, Intent: "AC", Lang: req.Lang, Response: "ok: " + req.Text}, nil
}

func (f *fakeService) Execute(_ context.Context, req *message.ExecuteRequest) (*message.ExecuteResult, error) {
	if f.executeErr != nil {
		return nil, f.executeErr
	}
	return &message.ExecuteResult{Status: message.StatusOK, RoutedTo: []string{"body"}}, nil
}

func (f *fakeService) Status() message.Status {
	return message.Status{Status: message.StatusOK, Lang: "te"}
}

func (f *fakeService) Languages() message.LanguageCatalog {
	return message.LanguageCatalog{Canonical: "en"}
}

func (f *fakeService) LastContext() message.LastContext {
	return message.LastContext{Intent: "CALL", Lang: "es", Text: "llama a mama"}
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestProcessStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		body       string
		wantCode   int
		wantStatus string
	}{
		{"ok", nil, `{"text":"set temperature to 24","lang":"en"}`, 200, "ok"},
		{"empty", pipeline.ErrEmptyInput, `{"text":""}`, 400, "rejected"},
		{"busy", pipeline.ErrBusy, `{"text":"call mom"}`, 409, "busy"},
		{"fault", fmt.Errorf("%w: boom", pipeline.ErrInternal), `{"text":"call mom"}`, 500, "error"},
		{"bad json", nil, `{"text":`, 400, "rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(Handler(&fakeService{processErr: tt.err}))
			defer srv.Close()

			resp, out := postJSON(t, srv.URL+"/process", tt.body)
			if resp.StatusCode != tt.wantCode {
				t.Errorf("status code = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			if out["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", out["status"], tt.wantStatus)
			}
		})
	}
}

func TestProcessSetsSource(t *testing.T) {
	svc := &fakeService{}
	srv := httptest.NewServer(Handler(svc))
	defer srv.Close()

	postJSON(t, srv.URL+"/process", `{"text":"call mom"}`)
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.lastReq == nil || svc.lastReq.Source != "http" {
		t.Errorf("request = %+v", svc.lastReq)
	}
}

func TestExecute(t *testing.T) {
	srv := httptest.NewServer(Handler(&fakeService{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/execute", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("empty body: status %d", resp.StatusCode)
	}

	srv2 := httptest.NewServer(Handler(&fakeService{executeErr: fmt.Errorf("%w: %q", action.ErrNoIntent, "")}))
	defer srv2.Close()
	resp2, out := postJSON(t, srv2.URL+"/execute", `{}`)
	if resp2.StatusCode != 400 || out["status"] != "rejected" {
		t.Errorf("no intent: %d %v", resp2.StatusCode, out)
	}
}

func TestReadEndpoints(t *testing.T) {
	srv := httptest.NewServer(Handler(&fakeService{}))
	defer srv.Close()

	for path, want := range map[string]string{
		"/status":    `"lang":"te"`,
		"/languages": `"canonical":"en"`,
		"/context":   `"intent":"CALL"`,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != 200 || !strings.Contains(string(body), want) {
			t.Errorf("%s: %d %s", path, resp.StatusCode, body)
		}
	}

	resp, err := http.Post(srv.URL+"/status", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /status = %d", resp.StatusCode)
	}
}

func TestSwaggerDoc(t *testing.T) {
	srv := httptest.NewServer(Handler(&fakeService{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || !strings.Contains(string(body), "/process") {
		t.Errorf("doc.json: %d %.200s", resp.StatusCode, body)
	}
}

func TestWebSocket(t *testing.T) {
	svc := &fakeService{}
	srv := httptest.NewServer(Handler(svc))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(message.Request{Text: "abre la ventana", Lang: "es"}); err != nil {
		t.Fatal(err)
	}
	var res message.Result
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "ok" || res.Lang != "es" {
		t.Errorf("result = %+v", res)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "rejected" {
		t.Errorf("bad frame result = %+v", res)
	}

	svc.mu.Lock()
	svc.processErr = pipeline.ErrBusy
	svc.mu.Unlock()
	_ = conn.WriteJSON(message.Request{Text: "call mom"})
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "busy" {
		t.Errorf("busy result = %+v", res)
	}
}

func TestSend(t *testing.T) {
	var (
		gotAuth string
		gotBody []byte
	)
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer target.Close()

	tr := New(0)
	err := tr.Send(context.Background(), message.Target{Name: "body", Endpoint: target.URL, Protocol: "http", Token: "s3cret"}, []byte(`{"intent":"AC"}`))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAuth != "Bearer s3cret" || string(gotBody) != `{"intent":"AC"}` {
		t.Errorf("auth=%q body=%s", gotAuth, gotBody)
	}
}

func TestSendErrorStatus(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "actuator offline", http.StatusServiceUnavailable)
	}))
	defer target.Close()

	err := New(0).Send(context.Background(), message.Target{Endpoint: target.URL}, []byte(`{}`))
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("err = %v", err)
	}
}
