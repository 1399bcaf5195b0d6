// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/glimpse/internal/game"
	"github.com/verte-zerg/glimpse/internal/model"
)

const inputCharLimit = 32

// SettingsSaver remembers the player's settings between runs.
type SettingsSaver interface {
	SaveSettings(ctx context.Context, settings model.Settings) error
}

type hideMsg struct {
	round int
}

// Model implements the Bubble Tea game UI.
type Model struct {
	game  *game.Game
	saver SettingsSaver

	input textinput.Model
	help  help.Model

	width  int
	height int

	notice    string
	errMsg    string
	lastWrong *game.Outcome

	settingsOpen bool
	settingIndex int
}

var (
	textStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	maskStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs the game TUI model. saver may be nil.
func NewModel(g *game.Game, saver SettingsSaver) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type what you saw"
	input.CharLimit = inputCharLimit
	input.Focus()
	return &Model{
		game:   g,
		saver:  saver,
		input:  input,
		help:   help.New(),
		notice: "Press enter to start",
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case hideMsg:
		m.game.Hide(msg.round)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsOpen {
			return m.updateSettings(msg)
		}
		return m.updatePlay(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Settings):
		m.settingsOpen = true
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keys.Submit):
		if !m.game.Started() {
			return m, m.startRound()
		}
		return m, m.submit()
	case key.Matches(msg, keys.NewText):
		if m.game.Visible() {
			return m, nil
		}
		return m, m.startRound()
	case key.Matches(msg, keys.ResetHigh):
		if err := m.game.ResetHighScore(context.Background()); err != nil {
			log.Printf("%v", err)
			m.errMsg = err.Error()
			return m, nil
		}
		m.notice = "High score reset"
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before && m.game.Started() {
		m.game.Typing()
		m.notice = ""
	}
	return m, cmd
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Close):
		m.settingsOpen = false
		return m, m.input.Focus()
	case key.Matches(msg, keys.Up):
		m.moveSetting(-1)
	case key.Matches(msg, keys.Down):
		m.moveSetting(1)
	case key.Matches(msg, keys.Left):
		m.adjustSetting(-1)
	case key.Matches(msg, keys.Right):
		m.adjustSetting(1)
	}
	return m, nil
}

func (m *Model) startRound() tea.Cmd {
	round, err := m.game.NewRound()
	if err != nil {
		log.Printf("%v", err)
		m.errMsg = err.Error()
		return nil
	}
	log.Printf("round %d: %d chars, hidden after %s", round.ID, len([]rune(round.Text)), round.Delay)
	m.errMsg = ""
	m.notice = ""
	m.input.Reset()
	return hideAfter(round)
}

func hideAfter(round game.Round) tea.Cmd {
	return tea.Tick(round.Delay, func(time.Time) tea.Msg {
		return hideMsg{round: round.ID}
	})
}

func (m *Model) submit() tea.Cmd {
	out, err := m.game.Submit(context.Background(), m.input.Value())
	switch {
	case errors.Is(err, game.ErrInputRequired):
		m.notice = "Input required"
		return nil
	case errors.Is(err, game.ErrNotStarted):
		return m.startRound()
	case err != nil:
		log.Printf("%v", err)
		m.errMsg = err.Error()
	default:
		m.errMsg = ""
	}

	if out.Correct {
		m.lastWrong = nil
	} else {
		m.lastWrong = &out
	}
	cmd := m.startRound()
	m.notice = outcomeNotice(out)
	return cmd
}

func outcomeNotice(out game.Outcome) string {
	switch {
	case out.NewHighScore:
		return fmt.Sprintf("Correct! New high score: %d", out.HighScore)
	case out.Correct:
		return "Correct!"
	default:
		return "Wrong, streak lost"
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		m.renderHeader(),
		"",
		m.renderText(),
		"",
		m.input.View(),
	}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	if m.lastWrong != nil {
		sections = append(sections, "", renderReveal(m.lastWrong.Target, m.lastWrong.Input, m.contentWidth()))
	}
	if m.settingsOpen {
		sections = append(sections, "", panelStyle.Render(m.renderSettings()))
	}
	content := strings.Join(sections, "\n")
	footer := m.renderHelp()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderHeader() string {
	s := m.game.Settings()
	return headerStyle.Render(fmt.Sprintf("Score %d · High score %d · %s · %d chars · %s",
		m.game.Score(), m.game.HighScore(), s.Lang, s.Length, s.Speed))
}

func (m *Model) renderText() string {
	switch {
	case !m.game.Started():
		return maskStyle.Render("…")
	case m.game.Visible():
		return textStyle.Render(m.game.Target())
	default:
		return maskStyle.Render(m.game.Masked())
	}
}

func (m *Model) renderHelp() string {
	if m.settingsOpen {
		return m.help.View(settingsHelp{keys})
	}
	return m.help.View(playHelp{keys})
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}
