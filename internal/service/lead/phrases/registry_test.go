package phrases

import (
	"slices"
	"testing"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestNewRegistry_LoadsAllLanguages(t *testing.T) {
	r := newRegistry(t)

	codes := r.Languages()
	for _, want := range []string{"en", "nl", "es"} {
		if !slices.Contains(codes, want) {
			t.Errorf("missing language %q in %v", want, codes)
		}
	}
}

func TestMatches_CaseInsensitiveSubstring(t *testing.T) {
	r := newRegistry(t)

	if !r.Matches("en", CategoryNameAsk, "Of course! MAY I HAVE YOUR NAME, please?") {
		t.Error("expected case-insensitive match")
	}
	if r.Matches("en", CategoryNameAsk, "The weather is lovely today.") {
		t.Error("unexpected match")
	}
}

func TestMatches_FallsBackToEnglish(t *testing.T) {
	r := newRegistry(t)

	// An English phrasing in a Dutch session still matches via fallback.
	if !r.Matches("nl", CategoryPhoneAsk, "What is the best number to reach you on?") {
		t.Error("expected English fallback match for nl")
	}
	// Unknown languages consult the English tables only.
	if !r.Matches("zz", CategoryGreeting, "Hi there, welcome!") {
		t.Error("expected English fallback match for unknown language")
	}
}

func TestMatches_LocalPhrases(t *testing.T) {
	r := newRegistry(t)

	if !r.Matches("nl", CategoryNameAsk, "Leuk! Mag ik je naam even noteren?") {
		t.Error("expected Dutch name-ask match")
	}
}

func TestIsSetup(t *testing.T) {
	r := newRegistry(t)

	cases := []struct {
		text string
		want bool
	}{
		{"Hi there! I'm the assistant for this listing.", true},
		{"Could you tell me your name?", true},
		{"What's the best number to reach you on?", true},
		{"Before we start, here's how this works.", true},
		{"What kind of property are you looking for?", false},
	}
	for _, tc := range cases {
		if got := r.IsSetup("en", tc.text); got != tc.want {
			t.Errorf("IsSetup(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestIsAcknowledgement(t *testing.T) {
	r := newRegistry(t)

	for _, text := range []string{"yes", "Yes!", "  ok. ", "THANKS", ""} {
		if !r.IsAcknowledgement("en", text) {
			t.Errorf("IsAcknowledgement(%q) = false, want true", text)
		}
	}
	for _, text := range []string{"yes, around 450k", "I think so, probably two bedrooms"} {
		if r.IsAcknowledgement("en", text) {
			t.Errorf("IsAcknowledgement(%q) = true, want false", text)
		}
	}

	// Local-language confirmations count too.
	if !r.IsAcknowledgement("nl", "Ja!") {
		t.Error("expected Dutch acknowledgement")
	}
}

func TestErrorMessage(t *testing.T) {
	r := newRegistry(t)

	en := r.ErrorMessage("en")
	nl := r.ErrorMessage("nl")
	if en == "" || nl == "" {
		t.Fatal("expected non-empty error messages")
	}
	if en == nl {
		t.Error("expected localized error messages to differ")
	}
	if r.ErrorMessage("zz") != en {
		t.Error("unknown language must fall back to English")
	}
}

func TestHasOptionsMarker(t *testing.T) {
	if !HasOptionsMarker("Are you looking to:\n1) buy\n2) rent") {
		t.Error("expected enumerated list to match")
	}
	if !HasOptionsMarker("Pick one:\n- apartment\n- house") {
		t.Error("expected bullet list to match")
	}
	if HasOptionsMarker("How many bedrooms do you need?") {
		t.Error("plain question must not match")
	}
}
