package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// textTable lays out cells in columns sized by terminal display width, so
// accented and wide characters stay aligned.
type textTable struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

func newTextTable(headers ...string) *textTable {
	return &textTable{headers: headers, rightAlign: map[int]bool{}}
}

func (t *textTable) alignRight(cols ...int) *textTable {
	for _, col := range cols {
		t.rightAlign[col] = true
	}
	return t
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) widths() []int {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range t.rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	return widths
}

func (t *textTable) lines() []string {
	if len(t.headers) == 0 {
		return nil
	}
	widths := t.widths()
	render := func(cells []string) string {
		padded := make([]string, len(widths))
		for i, width := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if t.rightAlign[i] {
				padded[i] = runewidth.FillLeft(cell, width)
			} else {
				padded[i] = runewidth.FillRight(cell, width)
			}
		}
		return strings.Join(padded, " ")
	}
	out := []string{render(t.headers)}
	for _, row := range t.rows {
		out = append(out, render(row))
	}
	return out
}

// write prints the table followed by a blank line.
func (t *textTable) write(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
