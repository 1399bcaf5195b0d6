// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/glimpse/internal/model"
	"github.com/verte-zerg/glimpse/internal/stats"
)

const (
	tabOverview = iota
	tabChars
	tabLengths
)

const (
	mostMissedCount = 5
	defaultWidth    = 80
	cardsRowWidth   = 80
)

var (
	accentColor = lipgloss.Color("#C89A3A")
	borderColor = lipgloss.Color("#4A4A4A")
	mutedColor  = lipgloss.Color("#6E6E6E")
	brightColor = lipgloss.Color("#F0F0F0")

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(borderColor).
			Foreground(lipgloss.Color("#B0B0B0"))
	activeTabStyle = tabStyle.
			BorderForeground(accentColor).
			Foreground(brightColor).
			Bold(true)
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(borderColor)
	mutedStyle      = lipgloss.NewStyle().Foreground(mutedColor)
	titleStyle      = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(brightColor).Bold(true)
	tableTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	tableHeadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true)
	tableFocusStyle = lipgloss.NewStyle().Foreground(brightColor).Bold(true)
)

var tabTitles = []string{"Overview", "Characters", "Lengths"}

// ReportSource builds a stats report for a filter.
type ReportSource func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error)

// Model implements the Bubble Tea stats UI.
type Model struct {
	load ReportSource
	cfg  model.StatsConfig

	report stats.Report
	errMsg string

	activeTab   int
	overview    viewport.Model
	charTable   table.Model
	lengthTable table.Model
	form        filterForm

	width  int
	height int
}

// NewModel constructs a stats UI model and loads the first report.
func NewModel(load ReportSource, cfg model.StatsConfig) *Model {
	m := &Model{
		load:     load,
		cfg:      cfg,
		overview: viewport.New(0, 0),
		charTable: newTable(
			table.Column{Title: "Char", Width: 4},
			table.Column{Title: "Recall", Width: 8},
			table.Column{Title: "Hit", Width: 6},
			table.Column{Title: "Missed", Width: 6},
		),
		lengthTable: newTable(
			table.Column{Title: "Length", Width: 6},
			table.Column{Title: "Rounds", Width: 6},
			table.Column{Title: "Correct", Width: 7},
			table.Column{Title: "Accuracy", Width: 8},
		),
		form: newFilterForm(),
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.form.open {
			return m, m.updateForm(msg)
		}
		return m, m.updateBrowse(msg)
	}
	if m.form.open {
		return m, m.form.updateInput(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "left", "h":
		m.selectTab(m.activeTab - 1)
		return tea.ClearScreen
	case "right", "l":
		m.selectTab(m.activeTab + 1)
		return tea.ClearScreen
	case "=", "+":
		m.setWindow(nextCurveWindow(m.cfg.Window))
		return nil
	case "-":
		m.setWindow(prevCurveWindow(m.cfg.Window))
		return nil
	case "/":
		return m.form.start(m.cfg)
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabChars:
		m.charTable, cmd = m.charTable.Update(msg)
	case tabLengths:
		m.lengthTable, cmd = m.lengthTable.Update(msg)
	default:
		m.overview, cmd = m.overview.Update(msg)
	}
	return cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.form.close()
		return nil
	case tea.KeyTab, tea.KeyDown:
		return m.form.focusField(m.form.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m.form.focusField(m.form.focus - 1)
	case tea.KeyEnter:
		cfg, err := m.form.result(m.cfg)
		if err != nil {
			m.form.err = err.Error()
			return nil
		}
		m.form.close()
		m.cfg = cfg
		m.reload()
		m.resize()
		return nil
	}
	return m.form.updateInput(msg)
}

func (m *Model) selectTab(idx int) {
	m.activeTab = (idx + len(tabTitles)) % len(tabTitles)
	m.charTable.Blur()
	m.lengthTable.Blur()
	switch m.activeTab {
	case tabChars:
		m.charTable.Focus()
	case tabLengths:
		m.lengthTable.Focus()
	}
}

func (m *Model) setWindow(window int) {
	m.cfg.Window = window
	m.refreshOverview()
}

// reload fetches the report for the current filter and refills every tab.
func (m *Model) reload() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	m.charTable.SetRows(charRows(m.report.Chars))
	m.lengthTable.SetRows(lengthRows(m.report.Lengths))
	m.refreshOverview()
}

func (m *Model) refreshOverview() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load stats.")
		return
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	m.overview.SetContent(overviewContent(m.report, m.cfg.Window, width))
}

func (m *Model) bodyHeight() int {
	header := lipgloss.Height(m.renderHeader())
	footer := lipgloss.Height(m.renderFooter())
	return max(1, m.height-header-footer)
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	body := m.bodyHeight()
	m.overview.Width = m.width
	m.overview.Height = body
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(body)
	m.lengthTable.SetWidth(m.width)
	m.lengthTable.SetHeight(body)
	m.form.setWidth(m.width)
	m.refreshOverview()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Render(m.renderBody())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *Model) renderHeader() string {
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if i == m.activeTab {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + mutedStyle.Render(m.filterSummary())
}

func (m *Model) filterSummary() string {
	lang, since, last := "any", "any", "all"
	if m.cfg.Lang != "" {
		lang = m.cfg.Lang
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filter: lang=%s  since=%s  last=%s  window=%d", lang, since, last, m.cfg.Window)
	if m.width > 0 {
		summary = runewidth.Truncate(summary, m.width, "...")
	}
	return summary
}

func (m *Model) renderFooter() string {
	var help string
	if m.form.open {
		help = "tab/shift+tab: next field  enter: apply  esc: cancel"
	} else {
		help = "Nav: left/right  Scroll: up/down  Window: -/=  Filter: /  Quit: q"
	}
	footer := mutedStyle.Render(help)
	if m.errMsg != "" && !m.form.open {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	return footer
}

func (m *Model) renderBody() string {
	switch {
	case m.form.open:
		return m.form.view()
	case m.activeTab == tabOverview:
		return m.overview.View()
	case len(m.report.Rounds) == 0:
		return "No rounds found."
	case m.activeTab == tabChars:
		return tableTextStyle.Render(m.charTable.View())
	default:
		return tableTextStyle.Render(m.lengthTable.View())
	}
}

func overviewContent(report stats.Report, window, width int) string {
	if len(report.Rounds) == 0 {
		return "No rounds found."
	}
	sections := []string{summaryCards(report.Summary, report.HighScore, width)}
	if missed := stats.MostMissed(report.Chars, mostMissedCount); len(missed) > 0 {
		sections = append(sections, mutedStyle.Render("Most missed: "+strings.Join(missed, " ")))
	}
	var buf bytes.Buffer
	if err := stats.RenderCurve(&buf, report.Rounds, window, width); err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Failed to render curve: %v", err)))
	} else {
		sections = append(sections, strings.TrimRight(buf.String(), "\n"))
	}
	return strings.Join(sections, "\n\n")
}

func summaryCards(s stats.Summary, highScore, width int) string {
	cards := []string{
		card("Rounds", strconv.Itoa(s.Rounds)),
		card("Accuracy", fmt.Sprintf("%.1f%%", s.Accuracy*100)),
		card("Best streak", strconv.Itoa(s.BestStreak)),
		card("High score", strconv.Itoa(highScore)),
		card("Avg response", fmt.Sprintf("%.0f ms", s.AvgResponseMs)),
	}
	if width < cardsRowWidth {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func newTable(columns ...table.Column) table.Model {
	styles := table.DefaultStyles()
	styles.Header = tableHeadStyle.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(borderColor).
		PaddingRight(1)
	styles.Cell = lipgloss.NewStyle().PaddingRight(1)
	styles.Selected = tableFocusStyle
	return table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
		table.WithStyles(styles),
	)
}

// charRows lists characters with the lowest recall first.
func charRows(aggs []model.CharAggregate) []table.Row {
	sorted := append([]model.CharAggregate(nil), aggs...)
	recall := func(a model.CharAggregate) float64 { return percent(a.Hit, a.Hit+a.Missed) }
	sort.Slice(sorted, func(i, j int) bool {
		ri, rj := recall(sorted[i]), recall(sorted[j])
		if ri == rj {
			return sorted[i].Char < sorted[j].Char
		}
		return ri < rj
	})
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, table.Row{
			agg.Char,
			fmt.Sprintf("%.2f%%", recall(agg)),
			strconv.Itoa(agg.Hit),
			strconv.Itoa(agg.Missed),
		})
	}
	return rows
}

func lengthRows(aggs []model.LengthAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, table.Row{
			strconv.Itoa(agg.Length),
			strconv.Itoa(agg.Rounds),
			strconv.Itoa(agg.Correct),
			fmt.Sprintf("%.2f%%", percent(agg.Correct, agg.Rounds)),
		})
	}
	return rows
}

func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

// nextCurveWindow steps to the next multiple of five.
func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

// prevCurveWindow steps to the previous multiple of five, then to 1.
func prevCurveWindow(n int) int {
	switch {
	case n <= 5:
		return 1
	case n%5 == 0:
		return n - 5
	default:
		return n / 5 * 5
	}
}
