package domain

import (
	"strings"
	"unicode"
)

// Slugify converts a display name into a URL-safe identifier: lower-case,
// trimmed, with every character that is not a letter, digit, underscore,
// whitespace or hyphen removed, and every run of whitespace, underscores
// and hyphens collapsed into a single hyphen. Letters that have no
// lowercase form are removed too, so the output is always lower-case.
// The result never starts or ends with a hyphen, and
// Slugify(Slugify(x)) == Slugify(x).
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	b.Grow(len(text))

	pendingSeparator := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// A few letters have no lowercase form and survive
			// ToLower unchanged (e.g. U+03D2); drop them so the
			// output is always lower-case.
			if unicode.IsUpper(r) || unicode.IsTitle(r) {
				continue
			}
			if pendingSeparator && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSeparator = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '-':
			pendingSeparator = true
		}
		// Any other character is dropped without becoming a separator.
	}

	return b.String()
}
