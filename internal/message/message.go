// Package message defines the wire types shared by every transport.
package message

import (
	"encoding/base64"
	"time"

	"github.com/nadzzz/copilot/internal/language"
	"github.com/nadzzz/copilot/internal/response"
	"github.com/nadzzz/copilot/internal/slots"
)

// ResponseMode controls what confirmation output the caller wants. The caller
// declares it in the request and the server fills or omits fields to match.
type ResponseMode string

const (
	// ResponseModeNone suppresses the confirmation entirely.
	ResponseModeNone ResponseMode = "none"

	// ResponseModeText returns the localized confirmation sentence.
	ResponseModeText ResponseMode = "text"

	// ResponseModeAudio returns synthesized speech only.
	ResponseModeAudio ResponseMode = "audio"

	// ResponseModeTextAudio returns both.
	ResponseModeTextAudio ResponseMode = "text+audio"
)

// Result status values.
const (
	StatusOK       = "ok"
	StatusBusy     = "busy"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// Request is one utterance to interpret.
type Request struct {
	// ID is optional; a UUID is assigned when empty.
	ID string `json:"id,omitempty"`

	// Text is the utterance as typed or transcribed.
	Text string `json:"text"`

	// Lang is a catalog code such as "hi" or "zh-CN". Empty or unknown means "en".
	Lang string `json:"lang,omitempty"`

	// Source identifies the sender (e.g. "dashboard", "steering-wheel").
	Source string `json:"source,omitempty"`

	// ResponseMode defaults to "text", or "text+audio" when speech output is configured.
	ResponseMode ResponseMode `json:"response_mode,omitempty"`
}

// Result is the outcome of one Request.
type Result struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`

	Intent    string             `json:"intent,omitempty"`
	Heard     string             `json:"heard,omitempty"`
	Canonical string             `json:"canonical,omitempty"`
	Entities  *response.Entities `json:"entities,omitempty"`
	Lang      string             `json:"lang,omitempty"`

	// Response is the confirmation in the request's language.
	Response string `json:"response,omitempty"`

	// ResponseAudio is base64 WAV, present for the audio response modes.
	ResponseAudio       string `json:"response_audio,omitempty"`
	ResponseContentType string `json:"response_content_type,omitempty"`

	Error string `json:"error,omitempty"`
}

// SetResponseAudioBytes base64-encodes raw audio bytes into ResponseAudio.
func (r *Result) SetResponseAudioBytes(audio []byte) {
	if len(audio) > 0 {
		r.ResponseAudio = base64.StdEncoding.EncodeToString(audio)
	}
}

// ExecuteRequest asks for the last resolved command to be actuated.
// Intent and Entities, when set, replace the stored ones.
type ExecuteRequest struct {
	Intent   string             `json:"intent,omitempty"`
	Entities *response.Entities `json:"entities,omitempty"`

	// Targets restricts delivery to the named targets. Empty means all.
	Targets []string `json:"targets,omitempty"`
}

// ExecuteResult reports where a command was delivered.
type ExecuteResult struct {
	Status   string   `json:"status"`
	Command  *Command `json:"command,omitempty"`
	RoutedTo []string `json:"routed_to"`
	Error    string   `json:"error,omitempty"`
}

// Command is the payload sent to actuation targets.
type Command struct {
	ID       string            `json:"id"`
	Intent   string            `json:"intent"`
	Entities response.Entities `json:"entities"`
	Text     string            `json:"text,omitempty"`
	Lang     string            `json:"lang,omitempty"`
	IssuedAt time.Time         `json:"issued_at"`
}

// Status reports whether a request is in flight and the last language used.
type Status struct {
	Status     string `json:"status"`
	Processing bool   `json:"processing"`
	Lang       string `json:"lang"`
	Intent     string `json:"intent,omitempty"`
}

// LanguageCatalog lists the supported languages for UI population.
type LanguageCatalog struct {
	Canonical string              `json:"canonical"`
	Languages []language.Language `json:"languages"`
}

// LastContext is the last completed command as seen by actuation. Canonical
// is Text in the working language; entities are derived from it.
type LastContext struct {
	RequestID string     `json:"request_id,omitempty"`
	Intent    string     `json:"intent,omitempty"`
	Slots     slots.Set  `json:"slots"`
	Text      string     `json:"text"`
	Canonical string     `json:"canonical,omitempty"`
	Lang      string     `json:"lang"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Target is a downstream actuation service.
type Target struct {
	// Name is a human-readable identifier (e.g. "body-controller").
	Name string `json:"name"`

	// Endpoint is the address: a URL for http, host:port for grpc, a subject for nats.
	Endpoint string `json:"endpoint"`

	// Protocol selects the transport ("http", "grpc", "nats").
	Protocol string `json:"protocol"`

	// Token is sent as a bearer credential when set.
	Token string `json:"-"`
}
