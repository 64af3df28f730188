package action

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/response"
	"github.com/nadzzz/copilot/internal/slots"
)

type staticSource struct{ ctx message.LastContext }

func (s staticSource) LastContext() message.LastContext { return s.ctx }

type recordingSender struct {
	name string
	err  error
	sent map[string][]byte
}

func (r *recordingSender) Name() string { return r.name }

func (r *recordingSender) Send(_ context.Context, target message.Target, payload []byte) error {
	if r.err != nil {
		return r.err
	}
	if r.sent == nil {
		r.sent = map[string][]byte{}
	}
	r.sent[target.Name] = payload
	return nil
}

var targets = []message.Target{
	{Name: "body", Endpoint: "http://body.local/cmd", Protocol: "http"},
	{Name: "cluster", Endpoint: "cluster.commands", Protocol: "nats"},
	{Name: "legacy", Endpoint: "can-bridge:1", Protocol: "mqtt"},
}

func windowContext() staticSource {
	return staticSource{message.LastContext{
		Intent: "WINDOW",
		Slots:  slots.Set{Direction: slots.Down},
		Text:   "open the driver window",
		Lang:   "hi",
	}}
}

func TestExecuteFromLastContext(t *testing.T) {
	httpS := &recordingSender{name: "http"}
	natsS := &recordingSender{name: "nats"}
	e := New(windowContext(), targets, httpS, natsS)

	res, err := e.Execute(context.Background(), &message.ExecuteRequest{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.RoutedTo) != 2 || res.RoutedTo[0] != "body" || res.RoutedTo[1] != "cluster" {
		t.Errorf("routed to %v", res.RoutedTo)
	}

	var cmd message.Command
	if err := json.Unmarshal(httpS.sent["body"], &cmd); err != nil {
		t.Fatal(err)
	}
	if cmd.Intent != "WINDOW" || cmd.Entities.Direction != "down" || cmd.Entities.Position != response.PositionDriver {
		t.Errorf("command = %+v", cmd)
	}
	if cmd.Lang != "hi" || cmd.ID == "" {
		t.Errorf("command = %+v", cmd)
	}
}

func TestExecuteDerivesFromCanonicalText(t *testing.T) {
	e := New(staticSource{message.LastContext{
		Intent:    "MEDIA",
		Text:      "pon hotel california de eagles",
		Canonical: "play hotel california by eagles",
		Lang:      "es",
	}}, nil)

	res, err := e.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := res.Command.Entities
	if got.Action != response.ActionPlay || got.Track != "Hotel California" || got.Artist != "Eagles" {
		t.Errorf("entities = %+v", got)
	}
	if res.Command.Text != "pon hotel california de eagles" {
		t.Errorf("command text = %q", res.Command.Text)
	}
}

func TestExecuteOverride(t *testing.T) {
	s := &recordingSender{name: "http"}
	e := New(windowContext(), targets, s)
	temp := 19
	res, err := e.Execute(context.Background(), &message.ExecuteRequest{
		Intent:   "ac",
		Entities: &response.Entities{Temperature: &temp},
		Targets:  []string{"body", "missing"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Command.Intent != "AC" || *res.Command.Entities.Temperature != 19 {
		t.Errorf("command = %+v", res.Command)
	}
	if len(res.RoutedTo) != 1 || res.RoutedTo[0] != "body" {
		t.Errorf("routed to %v", res.RoutedTo)
	}
}

func TestExecuteNoIntent(t *testing.T) {
	e := New(staticSource{}, targets)
	for _, req := range []*message.ExecuteRequest{nil, {}, {Intent: "UNKNOWN"}, {Intent: "FLY"}} {
		if _, err := e.Execute(context.Background(), req); !errors.Is(err, ErrNoIntent) {
			t.Errorf("%+v: err = %v, want ErrNoIntent", req, err)
		}
	}
}

func TestExecuteSendFailureIsSkipped(t *testing.T) {
	e := New(windowContext(), targets, &recordingSender{name: "http", err: errors.New("refused")}, &recordingSender{name: "nats"})
	res, err := e.Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.RoutedTo) != 1 || res.RoutedTo[0] != "cluster" {
		t.Errorf("routed to %v", res.RoutedTo)
	}
}

func TestTargetsFromConfig(t *testing.T) {
	got := TargetsFromConfig(map[string]config.Target{
		"zeta":  {Endpoint: "z", Protocol: "nats"},
		"alpha": {Endpoint: "a", Protocol: "http", Token: "secret"},
	})
	if len(got) != 2 || got[0].Name != "alpha" || got[0].Token != "secret" || got[1].Name != "zeta" {
		t.Errorf("targets = %+v", got)
	}
}
