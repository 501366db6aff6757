// internal/catalog/daily.go
//
// Phrase of the day.
//
// Every phrase in the bank, across categories and in bank order, is a
// candidate. The day is the UTC calendar date; the salt keyed into an
// HMAC-SHA256 of that date keeps tomorrow's phrase out of reach of anyone
// who knows the bank.

package catalog

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey is the UTC calendar day of t, formatted YYYY-MM-DD.
func DateKey(t time.Time) string { return t.UTC().Format(time.DateOnly) }

// Daily returns the phrase of the day for date. The choice is stable for a
// given date, salt and bank.
func (c *Catalog) Daily(date time.Time, salt string) Phrase {
	type ref struct{ cat, phrase int }
	var all []ref
	for ci, cat := range c.categories {
		for pi := range cat.Phrases {
			all = append(all, ref{ci, pi})
		}
	}
	r := all[dayIndex(DateKey(date), salt, len(all))]
	cat := c.categories[r.cat]
	return toPhrase(cat, cat.Phrases[r.phrase])
}

// dayIndex maps day into [0, n).
func dayIndex(day, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(day))
	return int(binary.BigEndian.Uint64(mac.Sum(nil)[:8]) % uint64(n))
}
