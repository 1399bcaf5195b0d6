package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/glimpse/internal/charset"
	"github.com/verte-zerg/glimpse/internal/game"
	"github.com/verte-zerg/glimpse/internal/generator"
	"github.com/verte-zerg/glimpse/internal/model"
)

type fixedRNG struct{}

func (fixedRNG) Float64() float64 { return 0.99 }
func (fixedRNG) Intn(int) int     { return 0 }

type fakeRecorder struct {
	rounds    []model.RoundRecord
	highScore int
}

func (f *fakeRecorder) InsertRound(_ context.Context, r model.RoundRecord) (int64, error) {
	f.rounds = append(f.rounds, r)
	return int64(len(f.rounds)), nil
}

func (f *fakeRecorder) SetHighScore(_ context.Context, score int) error {
	f.highScore = score
	return nil
}

type fakeSaver struct {
	saved []model.Settings
	err   error
}

func (f *fakeSaver) SaveSettings(_ context.Context, s model.Settings) error {
	f.saved = append(f.saved, s)
	return f.err
}

func newTestModel(t *testing.T, lang string) (*Model, *fakeRecorder, *fakeSaver) {
	t.Helper()
	rec := &fakeRecorder{}
	saver := &fakeSaver{}
	settings := model.Settings{Lang: lang, Length: 5, Caps: model.CapsSmall, Speed: model.SpeedMedium, Special: true}
	g, err := game.New(generator.NewWithRNG(fixedRNG{}), rec, charset.Builtin(), settings, 2)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return NewModel(g, saver), rec, saver
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestEnterStartsRound(t *testing.T) {
	m, _, _ := newTestModel(t, "en")
	if !strings.Contains(m.View(), "Press enter to start") {
		t.Fatalf("expected start prompt")
	}
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected hide timer command")
	}
	if !m.game.Started() || !m.game.Visible() {
		t.Fatalf("expected visible round")
	}
	if !strings.Contains(m.View(), m.game.Target()) {
		t.Fatalf("expected target in view")
	}
}

func TestTypingHidesText(t *testing.T) {
	m, _, _ := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.game.Visible() {
		t.Fatalf("expected text to hide on typing")
	}
	if m.input.Value() != "a" {
		t.Fatalf("expected input to receive rune, got %q", m.input.Value())
	}
	if !strings.Contains(m.View(), m.game.Masked()) {
		t.Fatalf("expected mask in view")
	}
}

func TestHideMsgIgnoresStaleRound(t *testing.T) {
	m, _, _ := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(hideMsg{round: m.game.RoundID() + 1})
	if !m.game.Visible() {
		t.Fatalf("expected stale hide to be ignored")
	}
	m.Update(hideMsg{round: m.game.RoundID()})
	if m.game.Visible() {
		t.Fatalf("expected hide for current round")
	}
}

func TestEmptySubmitRequiresInput(t *testing.T) {
	m, rec, _ := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.notice != "Input required" {
		t.Fatalf("expected input required notice, got %q", m.notice)
	}
	if len(rec.rounds) != 0 {
		t.Fatalf("expected no recorded rounds")
	}
}

func TestCorrectSubmitScoresAndStartsNextRound(t *testing.T) {
	m, rec, _ := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	first := m.game.RoundID()
	m.input.SetValue(m.game.Target())
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatalf("expected next round timer")
	}
	if m.game.Score() != 1 {
		t.Fatalf("expected score 1, got %d", m.game.Score())
	}
	if m.game.RoundID() != first+1 {
		t.Fatalf("expected next round")
	}
	if len(rec.rounds) != 1 || !rec.rounds[0].Correct {
		t.Fatalf("expected one correct recorded round, got %+v", rec.rounds)
	}
	if m.lastWrong != nil || m.input.Value() != "" {
		t.Fatalf("expected clean state after correct answer")
	}
	if m.notice != "Correct!" {
		t.Fatalf("unexpected notice %q", m.notice)
	}
}

func TestWrongSubmitRevealsAnswer(t *testing.T) {
	m, _, _ := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	target := m.game.Target()
	m.input.SetValue("zzzzz")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.lastWrong == nil || m.lastWrong.Target != target {
		t.Fatalf("expected reveal of %q", target)
	}
	if m.game.Score() != 0 {
		t.Fatalf("expected score reset")
	}
	if !strings.Contains(m.View(), "Typed") {
		t.Fatalf("expected reveal in view")
	}
}

func TestNewHighScoreNotice(t *testing.T) {
	m, rec, _ := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 3; i++ {
		m.input.SetValue(m.game.Target())
		press(m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if rec.highScore != 3 {
		t.Fatalf("expected high score 3, got %d", rec.highScore)
	}
	if !strings.Contains(m.notice, "New high score: 3") {
		t.Fatalf("unexpected notice %q", m.notice)
	}
}

func TestNewTextOnlyWhenHidden(t *testing.T) {
	m, _, _ := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	id := m.game.RoundID()
	press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.game.RoundID() != id {
		t.Fatalf("expected no new text while visible")
	}
	m.Update(hideMsg{round: id})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.game.RoundID() != id+1 {
		t.Fatalf("expected new text once hidden")
	}
}

func TestResetHighScore(t *testing.T) {
	m, rec, _ := newTestModel(t, "en")
	rec.highScore = 2
	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.game.HighScore() != 0 || rec.highScore != 0 {
		t.Fatalf("expected high score reset")
	}
}

func TestSettingsPanelAdjustsAndSaves(t *testing.T) {
	m, _, saver := newTestModel(t, "en")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.settingsOpen {
		t.Fatalf("expected settings panel")
	}
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.game.Settings().Length != 6 {
		t.Fatalf("expected length 6, got %d", m.game.Settings().Length)
	}
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.game.Settings().Speed != model.SpeedFast {
		t.Fatalf("expected fast speed, got %v", m.game.Settings().Speed)
	}
	if len(saver.saved) != 2 || saver.saved[1].Speed != model.SpeedFast {
		t.Fatalf("expected saved settings, got %+v", saver.saved)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.settingsOpen {
		t.Fatalf("expected panel to close")
	}
}

func TestSettingsLengthBounds(t *testing.T) {
	s := model.Settings{Length: game.MaxLength, Speed: model.SpeedExtreme, Caps: model.CapsAll}
	if got := adjusted(s, rowLength, 1); got.Length != game.MaxLength {
		t.Fatalf("expected length clamp, got %d", got.Length)
	}
	if got := adjusted(s, rowSpeed, 1); got.Speed != model.SpeedExtreme {
		t.Fatalf("expected speed clamp, got %v", got.Speed)
	}
	if got := adjusted(s, rowCaps, 1); got.Caps != model.CapsSmall {
		t.Fatalf("expected caps wrap, got %v", got.Caps)
	}
	if got := adjusted(s, rowSpecial, -1); !got.Special {
		t.Fatalf("expected special toggle")
	}
}

func TestSpecialRowOnlyWithSpecialChars(t *testing.T) {
	en, _, _ := newTestModel(t, "en")
	if len(en.settingRows()) != 3 {
		t.Fatalf("expected no special row for en")
	}
	de, _, _ := newTestModel(t, "de")
	if len(de.settingRows()) != 4 {
		t.Fatalf("expected special row for de")
	}
}

func TestSettingsSaveFailureShown(t *testing.T) {
	m, _, saver := newTestModel(t, "en")
	saver.err = errors.New("disk full")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if !strings.Contains(m.errMsg, "disk full") {
		t.Fatalf("expected save error, got %q", m.errMsg)
	}
	if m.game.Settings().Length != 4 {
		t.Fatalf("expected setting applied in memory")
	}
}
