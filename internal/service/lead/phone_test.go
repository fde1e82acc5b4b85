package lead

import "testing"

func TestValidPhone(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"0612345678", true},
		{"+31 6 12 34 56 78", true},
		{"(020) 555-1234", true},
		{"1234567", true},
		{"123456", false},
		{"call me maybe", false},
		{"", false},
		{"+31", false},
	}

	for _, tc := range cases {
		if got := ValidPhone(tc.input); got != tc.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestStripNonDigits(t *testing.T) {
	if got := StripNonDigits("+31 (0)6-12 34 56 78"); got != "310612345678" {
		t.Errorf("StripNonDigits = %q, want %q", got, "310612345678")
	}
}
