package normalize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"?!...", ""},
		{"Set temperature to 24!", "Set temperature to 24"},
		{"open the window, please.", "open the window please"},
		{"  llama   a   mamá ", "llama a mamá"},
		{"roll-down the driver's window", "roll-down the driver's window"},
		{"set it to 21.5 degrees", "set it to 21.5 degrees"},
		{"ac 24°", "ac 24"},
		{"end.", "end"},
		{"(play) \"hotel california\" by eagles", "play hotel california by eagles"},
		{"ठंडा karo", "ठंडा karo"},
		{"-- call -- mom --", "call mom"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Fatalf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"Set temperature to 24!",
		"navigate to: the airport...",
		"it's 1,000 km -- roughly",
		"¿Llévame a casa?",
		"a--b ''c'' 3.",
	}
	for _, in := range inputs {
		once := Text(in)
		if twice := Text(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Llévame a la Canción"); got != "llevame a la cancion" {
		t.Fatalf("Fold = %q", got)
	}
	if got := FoldedTokens("¿Llévame, al Aeropuerto?"); len(got) != 3 || got[0] != "llevame" || got[2] != "aeropuerto" {
		t.Fatalf("FoldedTokens = %q", got)
	}
}
