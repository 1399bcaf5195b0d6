package statsui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/glimpse/internal/model"
)

const dateLayout = "2006-01-02"

var (
	errSince  = errors.New("invalid since date (expected YYYY-MM-DD)")
	errLast   = errors.New("invalid last value (use 0 or a positive integer)")
	errWindow = errors.New("invalid curve window (use an integer >= 1)")
)

// filterField binds one text input to one StatsConfig field.
type filterField struct {
	input  textinput.Model
	format func(cfg model.StatsConfig) string
	parse  func(cfg *model.StatsConfig, value string) error
}

// filterForm edits the report filter in place of the body.
type filterForm struct {
	fields []filterField
	focus  int
	open   bool
	err    string
}

func newFilterForm() filterForm {
	return filterForm{fields: []filterField{
		{input: newInput("Lang: "), format: formatLang, parse: parseLang},
		{input: newInput("Since (YYYY-MM-DD): "), format: formatSince, parse: parseSince},
		{input: newInput("Last: "), format: formatLast, parse: parseLast},
		{input: newInput("Curve window: "), format: formatWindow, parse: parseWindow},
	}}
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// start fills the inputs from cfg and focuses the first one.
func (f *filterForm) start(cfg model.StatsConfig) tea.Cmd {
	for i := range f.fields {
		f.fields[i].input.SetValue(f.fields[i].format(cfg))
	}
	f.open = true
	f.err = ""
	return f.focusField(0)
}

func (f *filterForm) close() {
	f.open = false
	f.err = ""
}

func (f *filterForm) focusField(idx int) tea.Cmd {
	count := len(f.fields)
	f.focus = (idx + count) % count
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
			continue
		}
		f.fields[i].input.Blur()
	}
	return cmd
}

// result parses every field on top of base.
func (f *filterForm) result(base model.StatsConfig) (model.StatsConfig, error) {
	cfg := base
	for _, field := range f.fields {
		if err := field.parse(&cfg, strings.TrimSpace(field.input.Value())); err != nil {
			return model.StatsConfig{}, err
		}
	}
	return cfg, nil
}

func (f *filterForm) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *filterForm) setWidth(width int) {
	for i := range f.fields {
		promptWidth := lipgloss.Width(f.fields[i].input.Prompt)
		f.fields[i].input.Width = max(10, width-promptWidth-2)
	}
}

func (f *filterForm) view() string {
	lines := make([]string, 0, len(f.fields)+2)
	lines = append(lines, titleStyle.Render("Filter"))
	for _, field := range f.fields {
		lines = append(lines, field.input.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

func formatLang(cfg model.StatsConfig) string { return cfg.Lang }

func parseLang(cfg *model.StatsConfig, value string) error {
	cfg.Lang = strings.ToLower(value)
	return nil
}

func formatSince(cfg model.StatsConfig) string {
	if cfg.Since == nil {
		return ""
	}
	return cfg.Since.Format(dateLayout)
}

func parseSince(cfg *model.StatsConfig, value string) error {
	cfg.Since = nil
	if value == "" {
		return nil
	}
	parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return errSince
	}
	cfg.Since = &parsed
	return nil
}

func formatLast(cfg model.StatsConfig) string {
	if cfg.Last <= 0 {
		return ""
	}
	return strconv.Itoa(cfg.Last)
}

func parseLast(cfg *model.StatsConfig, value string) error {
	cfg.Last = 0
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return errLast
	}
	cfg.Last = n
	return nil
}

func formatWindow(cfg model.StatsConfig) string { return strconv.Itoa(cfg.Window) }

// parseWindow keeps the current window when the input is left empty.
func parseWindow(cfg *model.StatsConfig, value string) error {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return errWindow
	}
	cfg.Window = n
	return nil
}
