// Package intent defines the fixed set of command categories and the
// deterministic classifier that maps an utterance onto one of them.
package intent

import (
	"fmt"
	"strings"
)

// Intent is a command category. The set is closed; UNKNOWN is the sentinel
// for unclassifiable input.
type Intent int

const (
	Unknown Intent = iota
	AC
	Window
	Media
	Navigation
	Call
)

var names = [...]string{
	Unknown:    "UNKNOWN",
	AC:         "AC",
	Window:     "WINDOW",
	Media:      "MEDIA",
	Navigation: "NAVIGATION",
	Call:       "CALL",
}

// Operational returns the five actionable intents in priority order.
func Operational() []Intent {
	return []Intent{AC, Window, Media, Navigation, Call}
}

// Valid reports whether i is one of the six enumerated values.
func (i Intent) Valid() bool {
	return i >= Unknown && i <= Call
}

func (i Intent) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return names[i]
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("invalid intent %d", int(i))
	}
	return []byte(names[i]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Intent) UnmarshalText(b []byte) error {
	v, ok := Parse(string(b))
	if !ok {
		return fmt.Errorf("unknown intent %q", string(b))
	}
	*i = v
	return nil
}

// Parse maps a name (case-insensitive) to its Intent.
func Parse(name string) (Intent, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Intent(i), true
		}
	}
	return Unknown, false
}
