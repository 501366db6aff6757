package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayout(t *testing.T) {
	g := Load("AVOIR LE COEUR SUR LA MAIN")
	// "AVOIR LE COEUR" is 14 cells; adding " SUR" would need 18.
	assert.Equal(t, "AVOIR LE COEUR\nSUR LA MAIN", g.String())

	lines := g.Lines()
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 14)
	assert.Equal(t, KindSpace, lines[0][5].Kind)
	assert.True(t, lines[0][5].Revealed)
	assert.Equal(t, 1, lines[1][0].Line)
	assert.Equal(t, 0, lines[1][0].Col)
}

func TestLoadExactWidthFits(t *testing.T) {
	g := Load("ABCDEFG ABCDEFG NEXT")
	assert.Equal(t, "ABCDEFG ABCDEFG\nNEXT", g.String())
}

func TestLoadLongWordGetsOwnLine(t *testing.T) {
	g := Load("A ANTICONSTITUTIONNELLEMENT B")
	assert.Equal(t, "A\nANTICONSTITUTIONNELLEMENT\nB", g.String())
}

func TestPunctuationAlwaysRevealed(t *testing.T) {
	g := Load("C'EST LA VIE !")
	for _, l := range g.Lines() {
		for _, c := range l {
			if c.Char == '\'' || c.Char == '!' {
				assert.Equal(t, KindPunctuation, c.Kind)
				assert.True(t, c.Revealed)
			}
		}
	}
	revealed, total := g.Progress()
	assert.Equal(t, 0, revealed)
	assert.Equal(t, 9, total)
}

func TestRevealLetter(t *testing.T) {
	g := Load("TOMBER DES NUES")

	matched := g.RevealLetter('E', true)
	assert.Len(t, matched, 3)
	for _, c := range matched {
		assert.True(t, c.Revealed)
		assert.True(t, c.Given)
		assert.Equal(t, 'E', c.Char)
	}

	matched = g.RevealLetter('D', false)
	require.Len(t, matched, 1)
	assert.False(t, matched[0].Given)

	assert.Empty(t, g.RevealLetter('L', false))
	assert.Empty(t, g.RevealLetter('e', false), "matching is case-sensitive")
	assert.Equal(t, []string{"____E_ DE_ __E_"}, g.Masked())
}

func TestIsComplete(t *testing.T) {
	g := Load("LA VIE !")
	assert.False(t, g.IsComplete())
	for _, r := range "LAVI" {
		g.RevealLetter(r, false)
		assert.False(t, g.IsComplete())
	}
	g.RevealLetter('E', false)
	assert.True(t, g.IsComplete())
}

func TestRevealAll(t *testing.T) {
	g := Load("TOMBER DES NUES")
	g.RevealAll()
	assert.True(t, g.IsComplete())
	assert.Equal(t, []string{"TOMBER DES NUES"}, g.Masked())
}

func TestLetters(t *testing.T) {
	g := Load("C'EST LA VIE")
	assert.Equal(t, []rune("CESTLAVI"), g.Letters())
}

func TestIsPunctuation(t *testing.T) {
	for _, r := range `.,;:!?'"()«»-` {
		assert.True(t, IsPunctuation(r), string(r))
	}
	assert.False(t, IsPunctuation('A'))
	assert.False(t, IsPunctuation(' '))
}
