package tui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/verte-zerg/glimpse/internal/game"
	"github.com/verte-zerg/glimpse/internal/model"
)

type settingRow int

const (
	rowLength settingRow = iota
	rowSpeed
	rowCaps
	rowSpecial
)

func (r settingRow) label() string {
	switch r {
	case rowLength:
		return "Length"
	case rowSpeed:
		return "Speed"
	case rowCaps:
		return "Caps"
	default:
		return "Special"
	}
}

// settingRows hides the special switch for locales without special characters.
func (m *Model) settingRows() []settingRow {
	rows := []settingRow{rowLength, rowSpeed, rowCaps}
	if m.game.CharacterSet().HasSpecial() {
		rows = append(rows, rowSpecial)
	}
	return rows
}

func (m *Model) moveSetting(delta int) {
	rows := m.settingRows()
	m.settingIndex = (m.settingIndex + delta + len(rows)) % len(rows)
}

func (m *Model) adjustSetting(delta int) {
	rows := m.settingRows()
	if m.settingIndex >= len(rows) {
		m.settingIndex = 0
	}
	current := m.game.Settings()
	next := adjusted(current, rows[m.settingIndex], delta)
	if next == current {
		return
	}
	if err := m.game.ApplySettings(next); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	if m.saver == nil {
		return
	}
	if err := m.saver.SaveSettings(context.Background(), next); err != nil {
		log.Printf("failed to save settings: %v", err)
		m.errMsg = fmt.Sprintf("failed to save settings: %v", err)
	}
}

// adjusted moves one setting by delta. Length and speed stop at their
// bounds, caps modes wrap around and the special switch toggles.
func adjusted(s model.Settings, row settingRow, delta int) model.Settings {
	switch row {
	case rowLength:
		s.Length = clamp(s.Length+delta, game.MinLength, game.MaxLength)
	case rowSpeed:
		speeds := model.Speeds()
		s.Speed = speeds[clamp(indexOf(speeds, s.Speed)+delta, 0, len(speeds)-1)]
	case rowCaps:
		modes := model.CapsModes()
		s.Caps = modes[(indexOf(modes, s.Caps)+delta+len(modes))%len(modes)]
	case rowSpecial:
		if delta != 0 {
			s.Special = !s.Special
		}
	}
	return s
}

func (m *Model) renderSettings() string {
	s := m.game.Settings()
	lines := []string{titleStyle.Render("Settings")}
	for i, row := range m.settingRows() {
		value := settingValue(s, row)
		line := fmt.Sprintf("  %-8s %s", row.label(), value)
		if i == m.settingIndex {
			line = selectedStyle.Render(fmt.Sprintf("> %-8s ‹ %s ›", row.label(), value))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func settingValue(s model.Settings, row settingRow) string {
	switch row {
	case rowLength:
		return strconv.Itoa(s.Length)
	case rowSpeed:
		return s.Speed.String()
	case rowCaps:
		return s.Caps.String()
	default:
		if s.Special {
			return "on"
		}
		return "off"
	}
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
