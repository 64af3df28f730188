// Package tts defines speech output for confirmations.
//
// The pipeline speaks the localized confirmation in the request's language
// when the caller asks for an audio response mode.
package tts

import (
	"context"
	"errors"
)

// ErrNoVoice is returned when no voice is configured for a language.
var ErrNoVoice = errors.New("no voice for language")

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Language is a catalog code (e.g. "en", "hi", "zh-CN") used to pick the voice.
	Language string

	// Voice overrides language-based voice selection.
	Voice string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize returns the spoken form of text as a WAV file.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// SynthesizeResult holds the output of TTS synthesis.
type SynthesizeResult struct {
	Audio       []byte
	ContentType string // "audio/wav"
	SampleRate  int
	Channels    int
}
