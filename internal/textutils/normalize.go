// Package textutils turns free-text labels into lookup keys and record
// identifiers.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newFolder returns a fresh transformer chain. Transformers keep state
// between calls, so one is built per conversion.
func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool {
			return r > unicode.MaxASCII || unicode.IsControl(r)
		})),
		runes.Map(unicode.ToLower),
	)
}

// Normalize decomposes s (NFKD), drops combining marks, control characters
// and anything outside ASCII, and lowercases the rest.
//
//	Normalize("Mónica Viñao") == "monica vinao"
//
// The result may be empty when s held nothing representable in ASCII.
func Normalize(s string) string {
	out, _, err := transform.String(newFolder(), s)
	if err != nil {
		// The chain only removes or maps runes; fall back to a rune walk
		// rather than returning a partial result.
		return fallbackNormalize(s)
	}
	return out
}

func fallbackNormalize(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) || r > unicode.MaxASCII || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Sanitize normalizes s and makes it usable as a record identifier: outer
// spaces are trimmed, inner spaces become underscores and periods are
// removed.
//
//	Sanitize("Mónica Viñao") == "monica_vinao"
func Sanitize(s string) string {
	out := strings.TrimSpace(Normalize(s))
	out = strings.ReplaceAll(out, " ", "_")
	return strings.ReplaceAll(out, ".", "")
}

// LookupKey is the case-insensitive key used to match account type names
// between the two sources.
func LookupKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
