// Package language holds the static catalog of driver-selectable languages.
//
// Every request carries an explicit language code; there is no detection.
// Codes outside the catalog resolve to the canonical language.
package language

import (
	"log/slog"
	"strings"
)

// Canonical is the working language of the classifier and response templates.
const Canonical = "en"

// Language describes one selectable language.
type Language struct {
	// Code is the translation code (e.g. "hi", "zh-CN").
	Code string `json:"code"`

	// Name is the display name for UI dropdowns.
	Name string `json:"name"`

	// SpeechLocale is the BCP-47 tag for speech recognition (e.g. "hi-IN").
	SpeechLocale string `json:"speech_locale"`

	// VoiceHint is the locale hint handed to speech synthesis.
	VoiceHint string `json:"voice_hint"`
}

var supported = []Language{
	{Code: "en", Name: "English", SpeechLocale: "en-US", VoiceHint: "en-US"},
	{Code: "hi", Name: "Hindi", SpeechLocale: "hi-IN", VoiceHint: "hi-IN"},
	{Code: "te", Name: "Telugu", SpeechLocale: "te-IN", VoiceHint: "te-IN"},
	{Code: "ta", Name: "Tamil", SpeechLocale: "ta-IN", VoiceHint: "ta-IN"},
	{Code: "es", Name: "Spanish", SpeechLocale: "es-ES", VoiceHint: "es-ES"},
	{Code: "fr", Name: "French", SpeechLocale: "fr-FR", VoiceHint: "fr-FR"},
	{Code: "de", Name: "German", SpeechLocale: "de-DE", VoiceHint: "de-DE"},
	{Code: "pt", Name: "Portuguese", SpeechLocale: "pt-BR", VoiceHint: "pt-BR"},
	{Code: "ar", Name: "Arabic", SpeechLocale: "ar-SA", VoiceHint: "ar-SA"},
	{Code: "zh-CN", Name: "Chinese (Simplified)", SpeechLocale: "zh-CN", VoiceHint: "zh-CN"},
	{Code: "ja", Name: "Japanese", SpeechLocale: "ja-JP", VoiceHint: "ja-JP"},
	{Code: "ko", Name: "Korean", SpeechLocale: "ko-KR", VoiceHint: "ko-KR"},
	{Code: "ru", Name: "Russian", SpeechLocale: "ru-RU", VoiceHint: "ru-RU"},
	{Code: "kn", Name: "Kannada", SpeechLocale: "kn-IN", VoiceHint: "kn-IN"},
	{Code: "ml", Name: "Malayalam", SpeechLocale: "ml-IN", VoiceHint: "ml-IN"},
	{Code: "bn", Name: "Bengali", SpeechLocale: "bn-IN", VoiceHint: "bn-IN"},
}

var byCode = func() map[string]Language {
	m := make(map[string]Language, len(supported))
	for _, l := range supported {
		m[l.Code] = l
	}
	return m
}()

// All returns the catalog in display order. The slice is a copy.
func All() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Lookup returns the catalog entry for code, matched exactly after trimming.
func Lookup(code string) (Language, bool) {
	l, ok := byCode[strings.TrimSpace(code)]
	return l, ok
}

// Supported reports whether code is in the catalog.
func Supported(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Resolve returns the catalog entry for code, or the canonical language when
// code is empty or unsupported. The substitution is logged, never surfaced.
func Resolve(code string) Language {
	if l, ok := Lookup(code); ok {
		return l
	}
	if strings.TrimSpace(code) != "" {
		slog.Warn("unsupported language code, falling back", "lang", code, "fallback", Canonical)
	}
	return byCode[Canonical]
}
