package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes diacritics so "Café Río" slugs as "cafe-rio".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify builds a URL-safe slug from a business name and city. The city is
// appended to keep slugs unique across towns with same-named businesses.
func Slugify(name, city string) string {
	parts := []string{slugToken(name)}
	if c := slugToken(city); c != "" {
		parts = append(parts, c)
	}
	return strings.Trim(strings.Join(parts, "-"), "-")
}

func slugToken(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
