// internal/grid/grid.go
//
// Board model for one phrase: words laid out on lines of at most MaxLineWidth
// cells, one cell per character, tracking which letters are revealed.
//
// Punctuation and space cells start revealed, so only letters gate completion.

package grid

import "strings"

// MaxLineWidth is the number of cells available on one board line.
const MaxLineWidth = 15

// punctuation is the fixed set of characters shown from the start.
const punctuation = `.,;:!?'"()«»“”‘’-`

// Kind is the kind of a board cell.
type Kind string

const (
	KindLetter      Kind = "letter"
	KindSpace       Kind = "space"
	KindPunctuation Kind = "punctuation"
)

// Cell is one board square.
type Cell struct {
	Kind     Kind `json:"kind"`
	Char     rune `json:"-"`
	Revealed bool `json:"revealed"`
	Given    bool `json:"given,omitempty"` // revealed for free before play
	Line     int  `json:"line"`
	Col      int  `json:"col"`
}

// Grid is the board for a loaded phrase.
type Grid struct {
	lines [][]Cell
}

// Load lays out phrase on the board. Words go on the current line while they
// fit; a separating space costs one cell. A word that would overflow starts a
// new line, and a word longer than a line gets a line of its own.
func Load(phrase string) *Grid {
	g := &Grid{}
	for li, words := range layout(strings.Fields(phrase)) {
		var line []Cell
		for wi, w := range words {
			if wi > 0 {
				line = append(line, Cell{Kind: KindSpace, Char: ' ', Revealed: true, Line: li, Col: len(line)})
			}
			for _, r := range w {
				c := Cell{Kind: KindLetter, Char: r, Line: li, Col: len(line)}
				if IsPunctuation(r) {
					c.Kind = KindPunctuation
					c.Revealed = true
				}
				line = append(line, c)
			}
		}
		g.lines = append(g.lines, line)
	}
	return g
}

func layout(words []string) [][]string {
	var lines [][]string
	var cur []string
	width := 0
	for _, w := range words {
		n := len([]rune(w))
		cost := n
		if len(cur) > 0 {
			cost++
		}
		if width+cost > MaxLineWidth && len(cur) > 0 {
			lines = append(lines, cur)
			cur, width = []string{w}, n
			continue
		}
		cur = append(cur, w)
		width += cost
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// IsPunctuation reports whether r is displayed as-is on the board.
func IsPunctuation(r rune) bool {
	return strings.ContainsRune(punctuation, r)
}

// RevealLetter reveals every letter cell showing letter and returns the
// matched cells. given marks the cells as free reveals. Matching is exact:
// callers pass upper-case letters.
func (g *Grid) RevealLetter(letter rune, given bool) []Cell {
	var matched []Cell
	g.each(func(c *Cell) {
		if c.Kind != KindLetter || c.Char != letter {
			return
		}
		c.Revealed = true
		if given {
			c.Given = true
		}
		matched = append(matched, *c)
	})
	return matched
}

// RevealAll reveals every cell.
func (g *Grid) RevealAll() {
	g.each(func(c *Cell) { c.Revealed = true })
}

// IsComplete reports whether every letter cell is revealed.
func (g *Grid) IsComplete() bool {
	revealed, total := g.Progress()
	return revealed == total
}

// Progress returns the number of revealed letter cells and the total.
func (g *Grid) Progress() (revealed, total int) {
	g.each(func(c *Cell) {
		if c.Kind != KindLetter {
			return
		}
		total++
		if c.Revealed {
			revealed++
		}
	})
	return revealed, total
}

// Letters returns the distinct A–Z letters on the board, in board order.
func (g *Grid) Letters() []rune {
	seen := make(map[rune]bool)
	var out []rune
	g.each(func(c *Cell) {
		if c.Kind == KindLetter && IsLetter(c.Char) && !seen[c.Char] {
			seen[c.Char] = true
			out = append(out, c.Char)
		}
	})
	return out
}

// Lines returns a copy of the board.
func (g *Grid) Lines() [][]Cell {
	out := make([][]Cell, len(g.lines))
	for i, l := range g.lines {
		out[i] = append([]Cell(nil), l...)
	}
	return out
}

// Masked renders each line with hidden letters as '_'.
func (g *Grid) Masked() []string {
	out := make([]string, len(g.lines))
	for i, l := range g.lines {
		var b strings.Builder
		for _, c := range l {
			if c.Revealed {
				b.WriteRune(c.Char)
			} else {
				b.WriteByte('_')
			}
		}
		out[i] = b.String()
	}
	return out
}

// String renders the full phrase line by line.
func (g *Grid) String() string {
	rows := make([]string, len(g.lines))
	for i, l := range g.lines {
		rs := make([]rune, len(l))
		for j, c := range l {
			rs[j] = c.Char
		}
		rows[i] = string(rs)
	}
	return strings.Join(rows, "\n")
}

func (g *Grid) each(fn func(*Cell)) {
	for i := range g.lines {
		for j := range g.lines[i] {
			fn(&g.lines[i][j])
		}
	}
}

// IsLetter reports whether r is a playable board letter.
func IsLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
