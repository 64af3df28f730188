// Package slots pulls the raw, intent-agnostic parameters out of an
// utterance: a temperature, a window direction and the free-text remainder
// used as a destination or a contact.
package slots

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/nadzzz/copilot/internal/normalize"
)

// Directions reported by Extract.
const (
	Down = "down" // open / lower
	Up   = "up"   // close / raise
)

// Set holds the raw slots. Absent values are nil or empty.
type Set struct {
	Temperature      *int   `json:"temperature,omitempty"`
	Direction        string `json:"direction,omitempty"`
	DirectionKeyword string `json:"direction_keyword,omitempty"`
	Location         string `json:"location,omitempty"`
	Contact          string `json:"contact,omitempty"`
}

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	if s.Temperature != nil {
		v := *s.Temperature
		s.Temperature = &v
	}
	return s
}

// Tables are the keyword lists the extractor matches against. Phrases are
// folded and tokenized before use.
type Tables struct {
	Open            []string
	Close           []string
	LocationFillers []string
	ContactFillers  []string
}

type phrase struct {
	text   string
	tokens []string
}

// Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	open, close               []phrase
	locationFill, contactFill []phrase
}

// NewExtractor compiles t. Every list is ordered longest phrase first.
func NewExtractor(t Tables) *Extractor {
	return &Extractor{
		open:         compile(t.Open),
		close:        compile(t.Close),
		locationFill: compile(t.LocationFillers),
		contactFill:  compile(t.ContactFillers),
	}
}

// Default returns an extractor over DefaultTables.
func Default() *Extractor {
	return NewExtractor(DefaultTables())
}

// Extract reads every detectable slot from text. It never fails; fields it
// cannot find stay empty.
func (e *Extractor) Extract(text string) Set {
	var s Set
	s.Temperature = firstNumber(text)

	tokens := normalize.Tokens(text)
	folded := make([]string, len(tokens))
	for i, tok := range tokens {
		folded[i] = normalize.Fold(tok)
	}

	if kw, ok := firstMatch(folded, e.open); ok {
		s.Direction, s.DirectionKeyword = Down, kw
	} else if kw, ok := firstMatch(folded, e.close); ok {
		s.Direction, s.DirectionKeyword = Up, kw
	}

	s.Location = strip(tokens, folded, e.locationFill)
	s.Contact = strip(tokens, folded, e.contactFill)
	return s
}

func compile(list []string) []phrase {
	out := make([]phrase, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, p := range list {
		toks := normalize.FoldedTokens(p)
		key := strings.Join(toks, " ")
		if len(toks) == 0 || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, phrase{text: key, tokens: toks})
	}
	slices.SortStableFunc(out, func(a, b phrase) int {
		if c := cmp.Compare(len(b.tokens), len(a.tokens)); c != 0 {
			return c
		}
		if c := cmp.Compare(len(b.text), len(a.text)); c != 0 {
			return c
		}
		return strings.Compare(a.text, b.text)
	})
	return out
}

// firstNumber parses the first run of ASCII digits. Values that overflow int
// count as absent.
func firstNumber(text string) *int {
	start := strings.IndexFunc(text, isDigit)
	if start < 0 {
		return nil
	}
	end := start
	for end < len(text) && isDigit(rune(text[end])) {
		end++
	}
	n, err := strconv.Atoi(text[start:end])
	if err != nil {
		return nil
	}
	return &n
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func firstMatch(tokens []string, list []phrase) (string, bool) {
	for _, p := range list {
		if indexSeq(tokens, p.tokens, nil, 0) >= 0 {
			return p.text, true
		}
	}
	return "", false
}

// strip removes every occurrence of every filler phrase and joins what is
// left. A token is consumed by at most one phrase.
func strip(tokens, folded []string, fillers []phrase) string {
	removed := make([]bool, len(tokens))
	for _, p := range fillers {
		for from := 0; ; {
			i := indexSeq(folded, p.tokens, removed, from)
			if i < 0 {
				break
			}
			for j := range p.tokens {
				removed[i+j] = true
			}
			from = i + len(p.tokens)
		}
	}

	kept := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if !removed[i] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// indexSeq finds seq in tokens starting at from, skipping positions already
// marked in removed (which may be nil).
func indexSeq(tokens, seq []string, removed []bool, from int) int {
outer:
	for i := from; i+len(seq) <= len(tokens); i++ {
		for j := range seq {
			if tokens[i+j] != seq[j] || (removed != nil && removed[i+j]) {
				continue outer
			}
		}
		return i
	}
	return -1
}
