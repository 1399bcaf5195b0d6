package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const revealLabelWidth = 6

// cell is one rendered rune together with its display width.
type cell struct {
	text  string
	width int
}

// markRunes styles each rune of shown by whether other holds the same rune
// at the same position. A mismatched space is drawn as a dot.
func markRunes(shown, other []rune) []cell {
	cells := make([]cell, len(shown))
	for i, r := range shown {
		if i < len(other) && other[i] == r {
			cells[i] = cell{correctStyle.Render(string(r)), runewidth.RuneWidth(r)}
			continue
		}
		if r == ' ' {
			r = '•'
		}
		cells[i] = cell{incorrectStyle.Render(string(r)), runewidth.RuneWidth(r)}
	}
	return cells
}

// chunkCells splits cells into lines no wider than width.
func chunkCells(cells []cell, width int) []string {
	var (
		lines []string
		b     strings.Builder
		used  int
	)
	for _, c := range cells {
		if width > 0 && used > 0 && used+c.width > width {
			lines = append(lines, b.String())
			b.Reset()
			used = 0
		}
		b.WriteString(c.text)
		used += c.width
	}
	return append(lines, b.String())
}

// renderReveal shows the target above what was typed, marking mismatches.
func renderReveal(target, input string, width int) string {
	t, in := []rune(target), []rune(input)
	if width > 0 {
		width = max(1, width-revealLabelWidth)
	}
	indent := "\n" + strings.Repeat(" ", revealLabelWidth)
	text := labelStyle.Render("Text  ") + strings.Join(chunkCells(markRunes(t, in), width), indent)
	typed := labelStyle.Render("Typed ") + strings.Join(chunkCells(markRunes(in, t), width), indent)
	return text + "\n" + typed
}
