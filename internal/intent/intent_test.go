package intent

import (
	"encoding/json"
	"testing"
)

func TestClassifyDefaultRules(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		text string
		want Intent
	}{
		{"set temperature to 24", AC},
		{"make it 22 degrees", AC},
		{"turn up the heat", AC},
		{"open the window", Window},
		{"close the driver window", Window},
		{"play hotel california by eagles", Media},
		{"turn up the volume", Media},
		{"go to the next song", Media},
		{"navigate to the airport", Navigation},
		{"take me home", Navigation},
		{"call mom", Call},
		{"what is the weather", Unknown},
		{"i am upset", Unknown},
		{"", Unknown},

		// romanized Hindi
		{"khidki kholo", Window},
		{"gaana bajao", Media},
		{"ghar chalo", Navigation},
		{"maa ko phone karo", Call},
		{"ac band karo", AC},

		// romanized Telugu
		{"kitiki teruvu", Window},
		{"paata veyyi", Media},
		{"illu ki vellu", Navigation},
		{"amma ki call cheyyi", Call},

		// Spanish, with and without accents
		{"abre la ventana", Window},
		{"pon música", Media},
		{"pon musica", Media},
		{"llévame al aeropuerto", Navigation},
		{"llama a mamá", Call},
		{"llama a mama", Call},
		{"sube la temperatura a 22 grados", AC},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				_, scores := c.ClassifyDetail(tt.text)
				t.Errorf("Classify(%q) = %s, want %s (scores %+v)", tt.text, got, tt.want, scores)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier()
	first := c.Classify("open the window and play music")
	for range 50 {
		if got := c.Classify("open the window and play music"); got != first {
			t.Fatalf("got %s, then %s", first, got)
		}
	}
}

func TestTieBreakSlotHits(t *testing.T) {
	c := NewClassifier(
		Rule{Intent: Media, Keywords: []Keyword{{Phrase: "foo", Kind: Domain}}},
		Rule{Intent: Window, Keywords: []Keyword{{Phrase: "bar", Kind: Slot}, {Phrase: "baz", Kind: Cue}}},
	)
	if got := c.Classify("foo bar baz"); got != Window {
		t.Errorf("got %s, want WINDOW", got)
	}
}

func TestTieBreakOrder(t *testing.T) {
	c := NewClassifier(
		Rule{Intent: AC, Keywords: []Keyword{{Phrase: "foo", Kind: Cue}}},
		Rule{Intent: Call, Keywords: []Keyword{{Phrase: "bar", Kind: Cue}}},
	)
	if got := c.Classify("bar foo"); got != AC {
		t.Errorf("got %s, want AC", got)
	}
}

func TestKeywordCountsOnce(t *testing.T) {
	c := NewClassifier()
	got, scores := c.ClassifyDetail("window window window")
	if got != Window {
		t.Fatalf("got %s", got)
	}
	for _, s := range scores {
		if s.Intent == Window && s.Total != int(Domain) {
			t.Errorf("WINDOW total = %d, want %d", s.Total, Domain)
		}
	}
}

func TestDigitsCountAsSlot(t *testing.T) {
	c := NewClassifier()
	_, scores := c.ClassifyDetail("set temperature to 24")
	s := scores[0]
	if s.Intent != AC || s.SlotHits != 1 || s.Total != 5 {
		t.Errorf("AC score = %+v", s)
	}
}

func TestOnlyASCIIDigitsCount(t *testing.T) {
	c := NewClassifier()
	for _, text := range []string{"set temperature to २४", "set temperature to ２４"} {
		_, scores := c.ClassifyDetail(text)
		if s := scores[0]; s.Intent != AC || s.SlotHits != 0 || s.Total != 3 {
			t.Errorf("%q: AC score = %+v", text, s)
		}
	}
	for _, tok := range []string{"24", "24.5", "1,000"} {
		if !isNumber(tok) {
			t.Errorf("isNumber(%q) = false", tok)
		}
	}
	for _, tok := range []string{"", "२४", "٢٤", "24c", ".5"} {
		if isNumber(tok) {
			t.Errorf("isNumber(%q) = true", tok)
		}
	}
}

func TestParseAndString(t *testing.T) {
	for _, in := range append(Operational(), Unknown) {
		got, ok := Parse(in.String())
		if !ok || got != in {
			t.Errorf("Parse(%q) = %v, %v", in.String(), got, ok)
		}
	}
	if got, ok := Parse(" navigation "); !ok || got != Navigation {
		t.Errorf("Parse lowercase = %v, %v", got, ok)
	}
	if _, ok := Parse("WEATHER"); ok {
		t.Error("Parse accepted WEATHER")
	}
	if Intent(42).Valid() {
		t.Error("Intent(42) reported valid")
	}
	if s := Intent(42).String(); s != "Intent(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Intent{"intent": Media})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"intent":"MEDIA"}` {
		t.Errorf("got %s", b)
	}

	var out struct{ Intent Intent }
	if err := json.Unmarshal([]byte(`{"Intent":"call"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Intent != Call {
		t.Errorf("got %s", out.Intent)
	}

	if _, err := json.Marshal(Intent(9)); err == nil {
		t.Error("expected error for out-of-range intent")
	}
}
