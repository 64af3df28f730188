// Package response turns a classified command into display entities and a
// canonical-language confirmation sentence. It never translates; callers
// localize the sentence afterwards.
package response

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nadzzz/copilot/internal/intent"
	"github.com/nadzzz/copilot/internal/normalize"
	"github.com/nadzzz/copilot/internal/slots"
)

// ErrMalformed is returned by Compose when entities carry values outside
// their enumerations or the intent itself is not one of the six.
var ErrMalformed = errors.New("malformed command data")

// Window positions.
const (
	PositionDriver    = "Driver"
	PositionPassenger = "Passenger"
	PositionAll       = "All Windows"
)

// Media actions.
const (
	ActionPlay = "play"
	ActionStop = "stop"
)

// Unknown is the sentence for unclassifiable input.
const Unknown = "Sorry, I did not understand that command."

// Entities is the intent-specific view of a command. Only the fields for the
// command's intent are set.
type Entities struct {
	Temperature *int   `json:"temperature,omitempty"`
	Direction   string `json:"direction,omitempty"`
	Position    string `json:"position,omitempty"`
	Action      string `json:"action,omitempty"`
	Track       string `json:"track,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Destination string `json:"destination,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

var (
	playByRe = regexp.MustCompile(`\bplay (.+?) by (.+)`)
	playRe   = regexp.MustCompile(`\bplay (.+)`)
)

var (
	playVerbs    = []string{"play", "resume", "start", "unpause"}
	driverWords  = []string{"driver", "driver's", "left"}
	passengWords = []string{"passenger", "passenger's", "right"}
	// "play music" names no track.
	genericMedia = []string{
		"music", "song", "songs", "a song", "some music", "something", "anything",
		"the radio", "radio", "my playlist", "playlist", "audio", "my music",
	}
)

// Derive builds the entities for in from the raw slots and the canonical
// sentence they were extracted from.
func Derive(in intent.Intent, s slots.Set, canonical string) Entities {
	var e Entities
	tokens := normalize.FoldedTokens(canonical)

	switch in {
	case intent.AC:
		e.Temperature = s.Clone().Temperature
	case intent.Window:
		e.Direction = s.Direction
		switch {
		case containsAny(tokens, driverWords):
			e.Position = PositionDriver
		case containsAny(tokens, passengWords):
			e.Position = PositionPassenger
		default:
			e.Position = PositionAll
		}
	case intent.Media:
		e.Action = ActionStop
		if containsAny(tokens, playVerbs) {
			e.Action = ActionPlay
		}
		e.Track, e.Artist = trackAndArtist(strings.ToLower(normalize.Text(canonical)))
	case intent.Navigation:
		e.Destination = title(s.Location)
	case intent.Call:
		e.Contact = title(s.Contact)
	}
	return e
}

// Compose renders the confirmation sentence for in, substituting placeholders
// for absent entities.
func Compose(in intent.Intent, e Entities) (string, error) {
	switch in {
	case intent.AC:
		if e.Temperature != nil {
			return fmt.Sprintf("Temperature set to %d degrees Celsius. Climate control is adjusting.", *e.Temperature), nil
		}
		return "Temperature adjusted. Climate control is adjusting.", nil

	case intent.Window:
		target, err := windowTarget(e.Position)
		if err != nil {
			return "", err
		}
		switch e.Direction {
		case slots.Down:
			return fmt.Sprintf("Opening %s smoothly.", target), nil
		case slots.Up:
			return fmt.Sprintf("Closing %s.", target), nil
		case "":
			return fmt.Sprintf("Adjusting %s.", target), nil
		}
		return "", fmt.Errorf("%w: window direction %q", ErrMalformed, e.Direction)

	case intent.Media:
		switch e.Action {
		case ActionPlay:
			track := cmp.Or(e.Track, "your music")
			if e.Artist == "" {
				return fmt.Sprintf("Now playing %s. Enjoy the ride.", track), nil
			}
			return fmt.Sprintf("Now playing %s by %s. Enjoy the ride.", track, e.Artist), nil
		case ActionStop, "":
			return "Music stopped.", nil
		}
		return "", fmt.Errorf("%w: media action %q", ErrMalformed, e.Action)

	case intent.Navigation:
		return fmt.Sprintf("Starting navigation to %s.", cmp.Or(e.Destination, "your destination")), nil

	case intent.Call:
		return fmt.Sprintf("Calling %s now. Connecting.", cmp.Or(e.Contact, "your contact")), nil

	case intent.Unknown:
		return Unknown, nil
	}
	return "", fmt.Errorf("%w: intent %s", ErrMalformed, in)
}

// Synthesize is Derive followed by Compose.
func Synthesize(in intent.Intent, s slots.Set, canonical string) (Entities, string, error) {
	e := Derive(in, s, canonical)
	text, err := Compose(in, e)
	return e, text, err
}

func windowTarget(position string) (string, error) {
	switch position {
	case PositionDriver:
		return "the driver window", nil
	case PositionPassenger:
		return "the passenger window", nil
	case PositionAll, "":
		return "all windows", nil
	}
	return "", fmt.Errorf("%w: window position %q", ErrMalformed, position)
}

func trackAndArtist(text string) (track, artist string) {
	if m := playByRe.FindStringSubmatch(text); m != nil {
		track, artist = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	} else if m := playRe.FindStringSubmatch(text); m != nil {
		track = strings.TrimSpace(m[1])
	}
	if slices.Contains(genericMedia, track) {
		track = ""
	}
	return title(track), title(artist)
}

func containsAny(tokens, words []string) bool {
	for _, w := range words {
		if slices.Contains(tokens, w) {
			return true
		}
	}
	return false
}

// title upper-cases the first letter of each word. A Caser is stateful, so
// one is built per call.
func title(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
