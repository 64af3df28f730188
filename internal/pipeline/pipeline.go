// Package pipeline is the single entry point for interpreting a command:
// normalize, bridge to the canonical language, classify, extract, compose,
// localize and record the result.
//
// At most one request runs at a time. A request that arrives while another is
// in flight is rejected with ErrBusy rather than queued.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/copilot/internal/bridge"
	"github.com/nadzzz/copilot/internal/intent"
	"github.com/nadzzz/copilot/internal/language"
	"github.com/nadzzz/copilot/internal/message"
	"github.com/nadzzz/copilot/internal/normalize"
	"github.com/nadzzz/copilot/internal/response"
	"github.com/nadzzz/copilot/internal/session"
	"github.com/nadzzz/copilot/internal/slots"
	"github.com/nadzzz/copilot/internal/tts"
)

var (
	// ErrEmptyInput rejects requests whose text has no words.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy rejects requests that arrive while another is in flight.
	ErrBusy = errors.New("busy: another command is being processed")
	// ErrInternal wraps unexpected faults. The context is left unchanged.
	ErrInternal = errors.New("internal error")
)

// Pipeline wires the stages together around the shared session state.
type Pipeline struct {
	bridge      *bridge.Bridge
	classifier  *intent.Classifier
	extractor   *slots.Extractor
	state       *session.State
	synthesizer tts.Synthesizer // nil if speech output is disabled
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithSynthesizer enables the audio response modes.
func WithSynthesizer(s tts.Synthesizer) Option {
	return func(p *Pipeline) { p.synthesizer = s }
}

// WithClassifier replaces the built-in keyword table.
func WithClassifier(c *intent.Classifier) Option {
	return func(p *Pipeline) { p.classifier = c }
}

// WithExtractor replaces the built-in slot tables.
func WithExtractor(e *slots.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// New creates a Pipeline. A nil bridge passes text through untranslated; a
// nil state gets a fresh in-memory one.
func New(b *bridge.Bridge, state *session.State, opts ...Option) *Pipeline {
	if b == nil {
		b = bridge.New(nil, language.Canonical, 0)
	}
	if state == nil {
		state = session.New(nil)
	}
	p := &Pipeline{
		bridge:     b,
		classifier: intent.NewClassifier(),
		extractor:  slots.Default(),
		state:      state,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// resolveResponseMode picks the caller's mode, or the default for the
// configured outputs.
func (p *Pipeline) resolveResponseMode(mode message.ResponseMode) message.ResponseMode {
	switch mode {
	case message.ResponseModeNone, message.ResponseModeText,
		message.ResponseModeAudio, message.ResponseModeTextAudio:
		return mode
	default:
		if p.synthesizer != nil {
			return message.ResponseModeTextAudio
		}
		return message.ResponseModeText
	}
}

func wantText(mode message.ResponseMode) bool {
	return mode == message.ResponseModeText || mode == message.ResponseModeTextAudio
}

func wantAudio(mode message.ResponseMode) bool {
	return mode == message.ResponseModeAudio || mode == message.ResponseModeTextAudio
}

// Process interprets one request. It returns ErrEmptyInput, ErrBusy or an
// error wrapping ErrInternal; every other outcome, UNKNOWN included, is a
// result.
func (p *Pipeline) Process(ctx context.Context, req *message.Request) (res *message.Result, err error) {
	if req == nil || normalize.Text(req.Text) == "" {
		return nil, ErrEmptyInput
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	lang := language.Resolve(req.Lang).Code
	logger := slog.With("request_id", id, "lang", lang)

	release, ok := p.state.TryAcquire()
	if !ok {
		logger.Info("request rejected, pipeline busy")
		return nil, ErrBusy
	}
	defer release()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline fault", "panic", r)
			res, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	return p.run(ctx, id, lang, req, logger)
}

func (p *Pipeline) run(ctx context.Context, id, lang string, req *message.Request, logger *slog.Logger) (*message.Result, error) {
	start := time.Now()
	mode := p.resolveResponseMode(req.ResponseMode)
	logger.Info("pipeline started", "source", req.Source, "response_mode", mode)

	normalized := normalize.Text(strings.ToLower(req.Text))
	canonical := normalize.Text(strings.ToLower(p.bridge.ToCanonical(ctx, normalized, lang)))
	if canonical == "" {
		canonical = normalized
	}

	in, scores := p.classifier.ClassifyDetail(canonical)
	raw := p.extractor.Extract(canonical)
	logger.Debug("command classified", "canonical", canonical, "intent", in, "scores", scores)

	entities, english, err := response.Synthesize(in, raw, canonical)
	if err != nil {
		logger.Error("composing response failed", "intent", in, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	res := &message.Result{
		RequestID: id,
		Status:    message.StatusOK,
		Intent:    in.String(),
		Heard:     req.Text,
		Canonical: canonical,
		Entities:  &entities,
		Lang:      lang,
	}

	if mode != message.ResponseModeNone {
		localized := p.bridge.FromCanonical(ctx, english, lang)
		if wantText(mode) {
			res.Response = localized
		}
		if wantAudio(mode) && p.synthesizer != nil {
			p.speak(ctx, res, localized, lang, logger)
		}
	}

	p.state.Update(ctx, session.Snapshot{
		RequestID:      id,
		RawText:        req.Text,
		NormalizedText: normalized,
		CanonicalText:  canonical,
		Intent:         in,
		Slots:          raw,
		Lang:           lang,
	})

	logger.Info("pipeline complete", "intent", in, "duration", time.Since(start))
	return res, nil
}

func (p *Pipeline) speak(ctx context.Context, res *message.Result, text, lang string, logger *slog.Logger) {
	out, err := p.synthesizer.Synthesize(ctx, text, tts.SynthesizeOpts{Language: lang})
	if err != nil {
		logger.Warn("TTS synthesis failed, continuing without audio", "error", err)
		return
	}
	res.SetResponseAudioBytes(out.Audio)
	res.ResponseContentType = out.ContentType
	logger.Debug("TTS synthesis complete", "audio_bytes", len(out.Audio))
}

// LastContext returns the last completed command for actuation.
func (p *Pipeline) LastContext() message.LastContext {
	snap := p.state.Snapshot()
	if snap.Empty() {
		return message.LastContext{Lang: language.Canonical}
	}
	text := snap.NormalizedText
	if text == "" {
		text = snap.RawText
	}
	updated := snap.UpdatedAt
	return message.LastContext{
		RequestID: snap.RequestID,
		Intent:    snap.Intent.String(),
		Slots:     snap.Slots,
		Text:      text,
		Canonical: snap.CanonicalText,
		Lang:      snap.Lang,
		UpdatedAt: &updated,
	}
}

// Status reports whether a request is in flight and the last language used.
func (p *Pipeline) Status() message.Status {
	snap := p.state.Snapshot()
	st := message.Status{
		Status:     message.StatusOK,
		Processing: p.state.Busy(),
		Lang:       language.Canonical,
	}
	if !snap.Empty() {
		st.Lang = snap.Lang
		st.Intent = snap.Intent.String()
	}
	return st
}

// Languages returns the static language catalog.
func (p *Pipeline) Languages() message.LanguageCatalog {
	return message.LanguageCatalog{
		Canonical: p.bridge.Canonical(),
		Languages: language.All(),
	}
}
