package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaily(t *testing.T) {
	cat := Load(Sources{})
	d := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	a := cat.Daily(d, "salt")
	b := cat.Daily(d.Add(10*time.Hour), "salt")
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.Text)
}

func TestDateKeyUTC(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	d := time.Date(2026, 10, 18, 0, 30, 0, 0, paris)
	assert.Equal(t, "2026-10-17", DateKey(d))
}

func TestDayIndex(t *testing.T) {
	a := dayIndex("2026-10-18", "salt", 17)
	assert.Equal(t, a, dayIndex("2026-10-18", "salt", 17))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 17)
	assert.Equal(t, 0, dayIndex("2026-10-18", "salt", 0))

	seen := map[int]bool{}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		seen[dayIndex(DateKey(start.AddDate(0, 0, i)), "salt", 1000)] = true
	}
	assert.Greater(t, len(seen), 30)
}

func TestDailyCoversEveryCategory(t *testing.T) {
	cat, _, err := New(builtinSectors(), []Category{
		{Key: "a", Phrases: []PhraseEntry{{ID: 1, Phrase: "TARTE TATIN"}}},
		{Key: "b", Phrases: []PhraseEntry{{ID: 2, Phrase: "COUP DE FOUDRE"}}},
	}, Params{})
	require.NoError(t, err)

	keys := map[string]bool{}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		keys[cat.Daily(start.AddDate(0, 0, i), "salt").CategoryKey] = true
	}
	assert.Len(t, keys, 2)
}
