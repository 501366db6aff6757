// internal/catalog/load.go
//
// Loading the catalog from its sources.
//
// Each of the two data sets (wheel, phrase bank) is resolved independently:
//   1. If its file is configured (WHEEL_FILE / PHRASES_FILE), read it.
//      Files ending in .json are decoded as JSON, anything else as YAML.
//   2. If no file is configured, use the copy embedded in the binary.
//   3. If the chosen source cannot be read or validated, log the failure and
//      fall back to the small built-in data set below.
//
// Loading therefore never fails: the game always has something to play.

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yoakh/thewheelofthefortune/assets"
	"github.com/yoakh/thewheelofthefortune/internal/wheel"
)

// Sources names optional data files. Empty fields select embedded data.
type Sources struct {
	WheelFile   string
	PhrasesFile string
}

type wheelDoc struct {
	Sectors []wheel.SectorConfig `json:"sectors" yaml:"sectors"`
}

type paramsDoc struct {
	VowelPrice      int      `json:"vowelPrice" yaml:"vowelPrice"`
	CompletionBonus int      `json:"completionBonus" yaml:"completionBonus"`
	RevealedLetters []string `json:"revealedLetters" yaml:"revealedLetters"`
}

type phrasesDoc struct {
	Params     paramsDoc  `json:"params" yaml:"params"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// Load resolves both data sets and returns a ready catalog.
func Load(src Sources) *Catalog {
	sectors, wheelFrom := loadWheel(src.WheelFile)
	phrases, bankFrom := loadPhrases(src.PhrasesFile)

	cat, warnings, err := New(sectors, phrases.Categories, phrases.params())
	for _, w := range warnings {
		log.Warn().Str("source", bankFrom).Msg("catalog: " + w)
	}
	if err != nil {
		// the wheel is already usable; only the bank falls back
		log.Warn().Err(err).Str("source", bankFrom).Msg("catalog: no playable phrase, using built-in phrases")
		phrases, bankFrom = builtinPhrases(), "builtin"
		if cat, _, err = New(sectors, phrases.Categories, phrases.params()); err != nil {
			log.Warn().Err(err).Msg("catalog: configured data unusable, using built-in defaults")
			return Builtin()
		}
	}
	cat.source = bankFrom
	if wheelFrom != bankFrom {
		cat.source = wheelFrom + "+" + bankFrom
	}
	log.Info().
		Str("source", cat.source).
		Int("sectors", len(cat.sectors)).
		Int("categories", len(cat.categories)).
		Msg("catalog loaded")
	return cat
}

func loadWheel(path string) ([]wheel.SectorConfig, string) {
	var doc wheelDoc
	from, err := readDoc(path, assets.WheelConfig, &doc)
	if err == nil && len(doc.Sectors) == 0 {
		err = wheel.ErrNoSectors
	}
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("wheel config unavailable, using built-in sectors")
		return builtinSectors(), "builtin"
	}
	return doc.Sectors, from
}

func loadPhrases(path string) (phrasesDoc, string) {
	var doc phrasesDoc
	from, err := readDoc(path, assets.PhraseBank, &doc)
	if err == nil && len(doc.Categories) == 0 {
		err = ErrEmptyBank
	}
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("phrase bank unavailable, using built-in phrases")
		return builtinPhrases(), "builtin"
	}
	return doc, from
}

// readDoc decodes path into v, or the embedded document when path is empty.
func readDoc(path string, embedded func() ([]byte, error), v any) (string, error) {
	if path == "" {
		b, err := embedded()
		if err != nil {
			return "", err
		}
		return "embedded", yaml.Unmarshal(b, v)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, v)
	} else {
		err = yaml.Unmarshal(b, v)
	}
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return "file", nil
}

func (d phrasesDoc) params() Params {
	return Params{
		VowelPrice:      d.Params.VowelPrice,
		CompletionBonus: d.Params.CompletionBonus,
		RevealedLetters: letters(d.Params.RevealedLetters),
	}
}

// Builtin returns the minimal data set used when nothing else is usable.
func Builtin() *Catalog {
	doc := builtinPhrases()
	cat, _, err := New(builtinSectors(), doc.Categories, doc.params())
	if err != nil {
		panic("catalog: built-in data set is invalid: " + err.Error())
	}
	cat.source = "builtin"
	return cat
}

func builtinSectors() []wheel.SectorConfig {
	return []wheel.SectorConfig{
		{ID: 1, Value: 100, Label: "100", Color: "#ff6b6b"},
		{ID: 2, Value: 200, Label: "200", Color: "#4ecdc4"},
		{ID: 3, Value: 500, Label: "500", Color: "#4CAF50"},
		{ID: 4, Value: wheel.Bankrupt, Label: "Bankrupt", Color: "#FFC107"},
		{ID: 5, Value: 1000, Label: "1000", Color: "#98d8c8"},
	}
}

func builtinPhrases() phrasesDoc {
	return phrasesDoc{
		Params: paramsDoc{
			VowelPrice:      DefaultVowelPrice,
			CompletionBonus: DefaultCompletionBonus,
			RevealedLetters: []string{"R", "S", "T", "L", "N", "E"},
		},
		Categories: []Category{{
			Key:  "expressions",
			Name: "Expressions",
			Phrases: []PhraseEntry{
				{ID: 1, Phrase: "AVOIR LE COEUR SUR LA MAIN", Hint: "Qualité d'une personne généreuse", Difficulty: "facile"},
				{ID: 2, Phrase: "TOMBER DES NUES", Hint: "Être très surpris", Difficulty: "facile"},
			},
		}},
	}
}
