package lead

import (
	"strings"
	"unicode"

	"leadgate/internal/config"
)

// StripNonDigits returns only the digit runes of s.
func StripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether s is a plausible phone number: at least
// MinPhoneDigits digits after stripping everything else. Formatting noise
// (spaces, dashes, a leading +) is expected and ignored.
func ValidPhone(s string) bool {
	return len(StripNonDigits(s)) >= config.MinPhoneDigits
}
