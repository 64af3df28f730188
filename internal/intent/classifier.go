package intent

import (
	"strings"

	"github.com/nadzzz/copilot/internal/normalize"
)

// Kind ranks a keyword. Its value is the score the keyword contributes.
type Kind int

const (
	// Cue is a weak signal: generic verbs, places, contact names.
	Cue Kind = 1
	// Slot is a slot-bearing keyword such as a window direction.
	Slot Kind = 2
	// Domain is a term that names the subsystem itself ("temperature", "window").
	Domain Kind = 3
)

// Keyword is one phrase of a rule. Phrases match whole tokens after folding.
type Keyword struct {
	Phrase string
	Kind   Kind
}

// Rule lists the keywords voting for one intent.
type Rule struct {
	Intent   Intent
	Keywords []Keyword
	// Digits makes any numeric token count as a Slot keyword.
	Digits bool
}

// Score is the outcome of one rule against one utterance.
type Score struct {
	Intent   Intent
	Total    int
	SlotHits int
	Matched  []string
}

type compiledKeyword struct {
	phrase string
	tokens []string
	kind   Kind
}

type compiledRule struct {
	intent   Intent
	keywords []compiledKeyword
	digits   bool
}

// Classifier scores an utterance against keyword rules. It holds no mutable
// state after construction and is safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier compiles rules, in priority order. With no rules the
// built-in multilingual table is used.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{intent: r.Intent, digits: r.Digits}
		for _, kw := range r.Keywords {
			toks := normalize.FoldedTokens(kw.Phrase)
			if len(toks) == 0 {
				continue
			}
			cr.keywords = append(cr.keywords, compiledKeyword{phrase: kw.Phrase, tokens: toks, kind: kw.Kind})
		}
		c.rules = append(c.rules, cr)
	}
	return c
}

// Classify returns the best-scoring intent, or Unknown when nothing matches.
func (c *Classifier) Classify(text string) Intent {
	best, _ := c.ClassifyDetail(text)
	return best
}

// ClassifyDetail is Classify plus the per-rule scores, for logging.
//
// The highest total wins. Ties go to the rule with more slot-bearing hits,
// then to the earlier rule.
func (c *Classifier) ClassifyDetail(text string) (Intent, []Score) {
	tokens := normalize.FoldedTokens(text)
	hasNumber := containsNumber(tokens)

	scores := make([]Score, 0, len(c.rules))
	best := -1
	for _, r := range c.rules {
		s := Score{Intent: r.intent}
		for _, kw := range r.keywords {
			if !containsSeq(tokens, kw.tokens) {
				continue
			}
			s.Total += int(kw.kind)
			if kw.kind == Slot {
				s.SlotHits++
			}
			s.Matched = append(s.Matched, kw.phrase)
		}
		if r.digits && hasNumber {
			s.Total += int(Slot)
			s.SlotHits++
			s.Matched = append(s.Matched, "<number>")
		}
		scores = append(scores, s)

		if s.Total == 0 {
			continue
		}
		if best < 0 || s.Total > scores[best].Total ||
			(s.Total == scores[best].Total && s.SlotHits > scores[best].SlotHits) {
			best = len(scores) - 1
		}
	}

	if best < 0 {
		return Unknown, scores
	}
	return scores[best].Intent, scores
}

func containsSeq(tokens, seq []string) bool {
	if len(seq) == 0 || len(seq) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(seq) <= len(tokens); i++ {
		for j := range seq {
			if tokens[i+j] != seq[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

func containsNumber(tokens []string) bool {
	for _, tok := range tokens {
		if isNumber(tok) {
			return true
		}
	}
	return false
}

// isNumber accepts ASCII digit runs with decimal separators, the same
// digits the slot extractor reads a temperature from.
func isNumber(tok string) bool {
	if tok == "" || !isDigit(rune(tok[0])) {
		return false
	}
	return strings.IndexFunc(tok, func(r rune) bool {
		return !isDigit(r) && r != '.' && r != ','
	}) < 0
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
