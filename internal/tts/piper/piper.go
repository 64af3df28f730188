// Package piper speaks confirmations through a Piper server over the Wyoming
// protocol (TCP, default port 10200).
package piper

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/nadzzz/copilot/internal/config"
	"github.com/nadzzz/copilot/internal/tts"
)

// defaultVoices maps catalog codes to Piper voice models. Languages without an
// entry have no voice unless configured.
var defaultVoices = map[string]string{
	"en":    "en_US-lessac-medium",
	"hi":    "hi_IN-pratham-medium",
	"te":    "te_IN-maya-medium",
	"ml":    "ml_IN-meera-medium",
	"es":    "es_ES-davefx-medium",
	"fr":    "fr_FR-siwis-medium",
	"de":    "de_DE-thorsten-medium",
	"pt":    "pt_BR-faber-medium",
	"ar":    "ar_JO-kareem-medium",
	"zh-CN": "zh_CN-huayan-medium",
	"ru":    "ru_RU-ruslan-medium",
}

// Synthesizer implements tts.Synthesizer. Each call opens its own connection.
type Synthesizer struct {
	endpoint  string
	endpoints map[string]string // per-language servers
	voices    map[string]string
	dialer    net.Dialer
}

// New builds a synthesizer from config. Configured voices override defaults.
func New(cfg config.PiperConfig) *Synthesizer {
	voices := make(map[string]string, len(defaultVoices)+len(cfg.Voices))
	for k, v := range defaultVoices {
		voices[k] = v
	}
	for k, v := range cfg.Voices {
		voices[k] = v
	}
	endpoints := make(map[string]string, len(cfg.Endpoints))
	for lang, ep := range cfg.Endpoints {
		endpoints[lang] = hostPort(ep)
	}
	return &Synthesizer{
		endpoint:  hostPort(cfg.Endpoint),
		endpoints: endpoints,
		voices:    voices,
		dialer:    net.Dialer{Timeout: 10 * time.Second},
	}
}

func hostPort(ep string) string {
	for _, p := range []string{"tcp://", "http://"} {
		ep = strings.TrimPrefix(ep, p)
	}
	return ep
}

// Synthesize speaks text with the voice for opts.Language and returns WAV.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	voice := opts.Voice
	if voice == "" {
		voice = s.voices[opts.Language]
	}
	if voice == "" {
		return nil, fmt.Errorf("%w %q", tts.ErrNoVoice, opts.Language)
	}
	endpoint := s.endpoints[opts.Language]
	if endpoint == "" {
		endpoint = s.endpoint
	}
	if endpoint == "" {
		return nil, fmt.Errorf("no piper endpoint configured for language %q", opts.Language)
	}

	logger := slog.With("voice", voice, "lang", opts.Language, "endpoint", endpoint)
	logger.Debug("piper synthesize", "text_length", len(text))

	conn, err := s.dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(30 * time.Second)
	}
	_ = conn.SetDeadline(deadline)

	req := event{
		Type: "synthesize",
		Data: map[string]any{
			"text":  text,
			"voice": map[string]any{"name": voice},
		},
	}
	if err := writeEvent(conn, req, nil); err != nil {
		return nil, fmt.Errorf("sending synthesize event: %w", err)
	}

	var (
		r        = bufio.NewReader(conn)
		pcm      bytes.Buffer
		rate     = 22050
		channels = 1
		width    = 2
	)
	for {
		evt, payload, err := readEvent(r)
		if err != nil {
			return nil, fmt.Errorf("reading piper event: %w", err)
		}
		switch evt.Type {
		case "audio-start":
			rate = intField(evt.Data, "rate", rate)
			channels = intField(evt.Data, "channels", channels)
			width = intField(evt.Data, "width", width)
		case "audio-chunk":
			pcm.Write(payload)
		case "audio-stop":
			logger.Debug("piper audio-stop", "pcm_bytes", pcm.Len(), "rate", rate)
			wav, err := tts.EncodeWAV(pcm.Bytes(), rate, channels, width)
			if err != nil {
				return nil, err
			}
			return &tts.SynthesizeResult{
				Audio:       wav,
				ContentType: "audio/wav",
				SampleRate:  rate,
				Channels:    channels,
			}, nil
		case "error":
			msg, _ := evt.Data["text"].(string)
			if msg == "" {
				msg = "unknown error"
			}
			return nil, fmt.Errorf("piper error: %s", msg)
		default:
			logger.Debug("piper event ignored", "type", evt.Type)
		}
	}
}

// Ping opens and closes a connection to the default server.
func (s *Synthesizer) Ping(ctx context.Context) error {
	conn, err := s.dialer.DialContext(ctx, "tcp", s.endpoint)
	if err != nil {
		return fmt.Errorf("piper unreachable: %w", err)
	}
	return conn.Close()
}

// Close is a no-op; connections are per request.
func (s *Synthesizer) Close() error { return nil }
