// Package action turns the last resolved command into an actuation message
// and delivers it to the configured targets.
package action

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/intent"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/response"
)

// ErrNoIntent is returned when there is no actionable command to execute.
var ErrNoIntent = errors.New("no intent to execute")

// Sender delivers a payload over one protocol. Transports implement it.
type Sender interface {
	Name() string
	Send(ctx context.Context, target message.Target, payload []byte) error
}

// ContextSource exposes the last completed command.
type ContextSource interface {
	LastContext() message.LastContext
}

// Executor routes commands to targets by protocol.
type Executor struct {
	source  ContextSource
	targets []message.Target
	senders map[string]Sender
}

// New creates an Executor. Senders are keyed by Name, which must match the
// targets' Protocol.
func New(source ContextSource, targets []message.Target, senders ...Sender) *Executor {
	sm := make(map[string]Sender, len(senders))
	for _, s := range senders {
		sm[s.Name()] = s
	}
	return &Executor{source: source, targets: targets, senders: sm}
}

// TargetsFromConfig converts the config map into targets ordered by name.
func TargetsFromConfig(m map[string]config.Target) []message.Target {
	out := make([]message.Target, 0, len(m))
	for name, t := range m {
		out = append(out, message.Target{Name: name, Endpoint: t.Endpoint, Protocol: t.Protocol, Token: t.Token})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute builds a command from the request, falling back to the last
// context for anything the request leaves out, and sends it to every
// selected target. Delivery failures are logged and skipped.
func (e *Executor) Execute(ctx context.Context, req *message.ExecuteRequest) (*message.ExecuteResult, error) {
	if req == nil {
		req = &message.ExecuteRequest{}
	}
	last := e.source.LastContext()

	name := req.Intent
	if name == "" {
		name = last.Intent
	}
	in, ok := intent.Parse(name)
	if name == "" || !ok || in == intent.Unknown {
		return nil, fmt.Errorf("%w: %q", ErrNoIntent, name)
	}

	var entities response.Entities
	if req.Entities != nil {
		entities = *req.Entities
	} else {
		entities = response.Derive(in, last.Slots, cmp.Or(last.Canonical, last.Text))
	}

	cmd := &message.Command{
		ID:       uuid.NewString(),
		Intent:   in.String(),
		Entities: entities,
		Text:     last.Text,
		Lang:     last.Lang,
		IssuedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshalling command: %w", err)
	}

	logger := slog.With("command_id", cmd.ID, "intent", cmd.Intent)
	result := &message.ExecuteResult{Status: message.StatusOK, Command: cmd, RoutedTo: []string{}}

	for _, target := range e.selectTargets(req.Targets, logger) {
		s, ok := e.senders[target.Protocol]
		if !ok {
			logger.Warn("no transport for target protocol", "protocol", target.Protocol, "target", target.Name)
			continue
		}
		if err := s.Send(ctx, target, payload); err != nil {
			logger.Error("failed to send to target", "target", target.Name, "error", err)
			continue
		}
		result.RoutedTo = append(result.RoutedTo, target.Name)
		logger.Info("routed to target", "target", target.Name)
	}

	logger.Info("command executed", "routed_to", len(result.RoutedTo))
	return result, nil
}

func (e *Executor) selectTargets(names []string, logger *slog.Logger) []message.Target {
	if len(names) == 0 {
		return e.targets
	}
	var out []message.Target
	for _, name := range names {
		i := slices.IndexFunc(e.targets, func(t message.Target) bool { return t.Name == name })
		if i < 0 {
			logger.Warn("unknown target requested", "target", name)
			continue
		}
		out = append(out, e.targets[i])
	}
	return out
}
