// internal/catalog/catalog.go
//
// Game data: wheel sectors, the phrase bank, and round parameters.
//
// Responsibilities:
//   - Validate and default configured data (see load.go for the sources).
//   - Pick a phrase uniformly at random, optionally within one category.
//   - Pick the phrase of the day deterministically (daily.go).
//
// A Catalog is immutable once built and safe for concurrent use.

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/yoakh/thewheelofthefortune/internal/grid"
	"github.com/yoakh/thewheelofthefortune/internal/rng"
	"github.com/yoakh/thewheelofthefortune/internal/text"
	"github.com/yoakh/thewheelofthefortune/internal/wheel"
)

// Defaults applied to missing or non-positive parameters.
const (
	DefaultVowelPrice      = 250
	DefaultCompletionBonus = 1000
)

// DefaultRevealedLetters are given at the start of every round unless the
// phrase or the bank configures its own.
var DefaultRevealedLetters = []rune{'R', 'S', 'T', 'L', 'N', 'E'}

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyBank       = errors.New("phrase bank is empty")
)

// PhraseEntry is one configured phrase.
type PhraseEntry struct {
	ID         int      `json:"id" yaml:"id"`
	Phrase     string   `json:"phrase" yaml:"phrase"`
	Hint       string   `json:"hint" yaml:"hint"`
	Difficulty string   `json:"difficulty" yaml:"difficulty"`
	Revealed   []string `json:"revealed,omitempty" yaml:"revealed,omitempty"`
}

// Category is a named, ordered list of phrases.
type Category struct {
	Key     string        `json:"key" yaml:"key"`
	Name    string        `json:"name" yaml:"name"`
	Phrases []PhraseEntry `json:"phrases" yaml:"phrases"`
}

// Params are the tunable round rules.
type Params struct {
	VowelPrice      int    `json:"vowelPrice"`
	CompletionBonus int    `json:"completionBonus"`
	RevealedLetters []rune `json:"-"`
}

// Phrase is a phrase chosen for a round, with its category resolved.
type Phrase struct {
	ID           int    `json:"id"`
	Text         string `json:"-"`
	CategoryKey  string `json:"categoryKey"`
	CategoryName string `json:"categoryName"`
	Hint         string `json:"hint"`
	Difficulty   string `json:"difficulty"`
	// Revealed overrides the bank's starter letters when non-empty.
	Revealed []rune `json:"-"`
}

// CategoryInfo summarizes a category for listings.
type CategoryInfo struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Catalog is a validated data set.
type Catalog struct {
	sectors    []wheel.Sector
	categories []Category
	params     Params
	source     string
}

// New validates the given data. Phrases that cannot be played are dropped
// and reported in the returned warnings; categories left empty are dropped.
func New(sectors []wheel.SectorConfig, categories []Category, params Params) (*Catalog, []string, error) {
	ws, err := wheel.Build(sectors)
	if err != nil {
		return nil, nil, err
	}
	var warnings []string
	var cats []Category
	for _, c := range categories {
		c.Key = strings.TrimSpace(c.Key)
		if c.Key == "" {
			warnings = append(warnings, fmt.Sprintf("category %q has no key", c.Name))
			continue
		}
		if c.Name == "" {
			c.Name = c.Key
		}
		var kept []PhraseEntry
		for _, p := range c.Phrases {
			p.Phrase = canonicalPhrase(p.Phrase)
			if bad, ok := unplayable(p.Phrase); ok {
				warnings = append(warnings, fmt.Sprintf("%s/%d: unplayable character %q", c.Key, p.ID, bad))
				continue
			}
			kept = append(kept, p)
		}
		if len(kept) == 0 {
			warnings = append(warnings, fmt.Sprintf("category %s has no playable phrase", c.Key))
			continue
		}
		c.Phrases = kept
		cats = append(cats, c)
	}
	if len(cats) == 0 {
		return nil, warnings, ErrEmptyBank
	}
	return &Catalog{sectors: ws, categories: cats, params: withDefaults(params)}, warnings, nil
}

func withDefaults(p Params) Params {
	if p.VowelPrice <= 0 {
		p.VowelPrice = DefaultVowelPrice
	}
	if p.CompletionBonus <= 0 {
		p.CompletionBonus = DefaultCompletionBonus
	}
	if len(p.RevealedLetters) == 0 {
		p.RevealedLetters = DefaultRevealedLetters
	}
	return p
}

// canonicalPhrase folds accents away and single-spaces the words.
func canonicalPhrase(s string) string {
	return strings.Join(strings.Fields(text.Fold(s)), " ")
}

// unplayable returns the first character that is neither a board letter,
// a space nor displayed punctuation.
func unplayable(phrase string) (rune, bool) {
	if phrase == "" {
		return 0, true
	}
	for _, r := range phrase {
		if r != ' ' && !grid.IsLetter(r) && !grid.IsPunctuation(r) {
			return r, true
		}
	}
	return 0, false
}

// letters keeps the single A–Z letters of ls, upper-cased, without duplicates.
func letters(ls []string) []rune {
	out := lo.FilterMap(ls, func(l string, _ int) (rune, bool) {
		l = strings.ToUpper(strings.TrimSpace(l))
		if len(l) != 1 || !grid.IsLetter(rune(l[0])) {
			return 0, false
		}
		return rune(l[0]), true
	})
	return lo.Uniq(out)
}

// Sectors returns the wheel sectors in order.
func (c *Catalog) Sectors() []wheel.Sector {
	return append([]wheel.Sector(nil), c.sectors...)
}

// Params returns the round parameters.
func (c *Catalog) Params() Params {
	p := c.params
	p.RevealedLetters = append([]rune(nil), p.RevealedLetters...)
	return p
}

// Source names where the data came from: "file", "embedded" or "builtin".
func (c *Catalog) Source() string { return c.source }

// Categories lists the categories in configured order.
func (c *Catalog) Categories() []CategoryInfo {
	return lo.Map(c.categories, func(cat Category, _ int) CategoryInfo {
		return CategoryInfo{Key: cat.Key, Name: cat.Name, Count: len(cat.Phrases)}
	})
}

// HasCategory reports whether key names a category.
func (c *Catalog) HasCategory(key string) bool {
	_, ok := c.category(key)
	return ok
}

func (c *Catalog) category(key string) (Category, bool) {
	return lo.Find(c.categories, func(cat Category) bool { return cat.Key == key })
}

// Pick chooses a phrase uniformly within categoryKey, or within a uniformly
// chosen category when categoryKey is empty.
func (c *Catalog) Pick(categoryKey string, src rng.Source) (Phrase, error) {
	var cat Category
	if categoryKey == "" {
		cat = c.categories[src.IntN(len(c.categories))]
	} else {
		var ok bool
		if cat, ok = c.category(categoryKey); !ok {
			return Phrase{}, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryKey)
		}
	}
	return toPhrase(cat, cat.Phrases[src.IntN(len(cat.Phrases))]), nil
}

func toPhrase(cat Category, e PhraseEntry) Phrase {
	return Phrase{
		ID:           e.ID,
		Text:         e.Phrase,
		CategoryKey:  cat.Key,
		CategoryName: cat.Name,
		Hint:         e.Hint,
		Difficulty:   e.Difficulty,
		Revealed:     letters(e.Revealed),
	}
}
