// internal/text/normalize.go
//
// Canonical string forms used for comparing a player's free-text answer with
// the target phrase, and for folding configured phrase text to the A–Z alphabet
// the board is played with.

package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented runes and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var ligatures = strings.NewReplacer("Œ", "OE", "Æ", "AE")

// Normalize upper-cases s, strips diacritics, removes everything outside
// [A-Z0-9 ], collapses whitespace runs to one space and trims the ends.
//
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	folded := stripAccents(strings.ToUpper(s))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// Fold upper-cases s and strips diacritics but keeps punctuation and spacing,
// so "Où ça ?" becomes "OU CA ?". Common ligatures are expanded.
func Fold(s string) string {
	return ligatures.Replace(stripAccents(strings.ToUpper(s)))
}

// Words splits an already normalized string on single spaces.
func Words(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

func stripAccents(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}
