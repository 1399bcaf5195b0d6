package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/glimpse/internal/charset"
	"github.com/verte-zerg/glimpse/internal/generator"
	"github.com/verte-zerg/glimpse/internal/model"
)

type fakeRecorder struct {
	rounds    []model.RoundRecord
	highScore int
	err       error
}

func (f *fakeRecorder) InsertRound(_ context.Context, r model.RoundRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.rounds = append(f.rounds, r)
	return int64(len(f.rounds)), nil
}

func (f *fakeRecorder) SetHighScore(_ context.Context, score int) error {
	if f.err != nil {
		return f.err
	}
	f.highScore = score
	return nil
}

func defaultSettings() model.Settings {
	return model.Settings{Lang: "en", Length: 5, Caps: model.CapsSmall, Speed: model.SpeedMedium, Special: true}
}

func newTestGame(t *testing.T, rec *fakeRecorder, highScore int) *Game {
	t.Helper()
	g, err := New(generator.New(), rec, charset.Builtin(), defaultSettings(), highScore)
	require.NoError(t, err)
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return g
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	cases := map[string]func(*model.Settings){
		"short": func(s *model.Settings) { s.Length = MinLength - 1 },
		"long":  func(s *model.Settings) { s.Length = MaxLength + 1 },
		"lang":  func(s *model.Settings) { s.Lang = "xx" },
		"caps":  func(s *model.Settings) { s.Caps = model.Caps(7) },
		"speed": func(s *model.Settings) { s.Speed = model.Speed(7) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := defaultSettings()
			mutate(&s)
			_, err := New(generator.New(), &fakeRecorder{}, charset.Builtin(), s, 0)
			assert.Error(t, err)
		})
	}
}

func TestSubmitBeforeStart(t *testing.T) {
	g := newTestGame(t, &fakeRecorder{}, 0)
	_, err := g.Submit(context.Background(), "abc")
	assert.True(t, errors.Is(err, ErrNotStarted))
}

func TestNewRoundShowsText(t *testing.T) {
	g := newTestGame(t, &fakeRecorder{}, 0)
	round, err := g.NewRound()
	require.NoError(t, err)
	assert.Equal(t, 1, round.ID)
	assert.Len(t, []rune(round.Text), 5)
	assert.Equal(t, 1781*time.Millisecond, round.Delay)
	assert.True(t, g.Visible())
	assert.True(t, g.Started())
	assert.Equal(t, round.Text, g.Target())
	assert.Equal(t, "* * * * *", g.Masked())
}

func TestHideIgnoresStaleRound(t *testing.T) {
	g := newTestGame(t, &fakeRecorder{}, 0)
	first, err := g.NewRound()
	require.NoError(t, err)
	second, err := g.NewRound()
	require.NoError(t, err)

	assert.False(t, g.Hide(first.ID))
	assert.True(t, g.Visible())
	assert.True(t, g.Hide(second.ID))
	assert.False(t, g.Visible())
	assert.False(t, g.Hide(second.ID))
}

func TestTypingHidesText(t *testing.T) {
	g := newTestGame(t, &fakeRecorder{}, 0)
	_, err := g.NewRound()
	require.NoError(t, err)
	g.Typing()
	assert.False(t, g.Visible())
}

func TestSubmitEmptyInputRequired(t *testing.T) {
	rec := &fakeRecorder{}
	g := newTestGame(t, rec, 0)
	_, err := g.NewRound()
	require.NoError(t, err)

	_, err = g.Submit(context.Background(), "")
	assert.True(t, errors.Is(err, ErrInputRequired))
	assert.True(t, g.Visible())
	assert.Empty(t, rec.rounds)
}

func TestSubmitStreak(t *testing.T) {
	rec := &fakeRecorder{}
	g := newTestGame(t, rec, 1)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		round, err := g.NewRound()
		require.NoError(t, err)
		out, err := g.Submit(ctx, round.Text)
		require.NoError(t, err)
		assert.True(t, out.Correct)
		assert.Equal(t, i, out.Score)
		assert.Equal(t, i > 1, out.NewHighScore, "round %d", i)
	}
	assert.Equal(t, 3, g.HighScore())
	assert.Equal(t, 3, rec.highScore)

	_, err := g.NewRound()
	require.NoError(t, err)
	out, err := g.Submit(ctx, "nope!")
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, 3, out.HighScore)
	assert.False(t, out.NewHighScore)

	require.Len(t, rec.rounds, 4)
	last := rec.rounds[3]
	assert.Equal(t, g.SessionID(), last.SessionID)
	assert.Equal(t, "nope!", last.Input)
	assert.False(t, last.Correct)
	assert.Equal(t, 0, last.Streak)
	assert.Equal(t, int64(1781), last.DelayMs)
	assert.Equal(t, int64(1000), last.ResponseMs)
	assert.Equal(t, "en", last.Lang)
}

func TestSubmitComparesExactly(t *testing.T) {
	g := newTestGame(t, &fakeRecorder{}, 0)
	round, err := g.NewRound()
	require.NoError(t, err)
	out, err := g.Submit(context.Background(), round.Text+" ")
	require.NoError(t, err)
	assert.False(t, out.Correct)
}

func TestSubmitPersistenceFailureKeepsOutcome(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	g := newTestGame(t, rec, 0)
	round, err := g.NewRound()
	require.NoError(t, err)

	out, err := g.Submit(context.Background(), round.Text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save round")
	assert.Contains(t, err.Error(), "failed to save high score")
	assert.True(t, out.Correct)
	assert.Equal(t, 1, g.Score())
}

func TestResetHighScore(t *testing.T) {
	rec := &fakeRecorder{highScore: 9}
	g := newTestGame(t, rec, 9)
	require.NoError(t, g.ResetHighScore(context.Background()))
	assert.Equal(t, 0, g.HighScore())
	assert.Equal(t, 0, rec.highScore)
}

func TestApplySettingsNextRound(t *testing.T) {
	g := newTestGame(t, &fakeRecorder{}, 0)
	s := defaultSettings()
	s.Length = 8
	s.Caps = model.CapsAll
	s.Speed = model.SpeedExtreme
	require.NoError(t, g.ApplySettings(s))

	round, err := g.NewRound()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z]{8}$`, round.Text)
	want, err := generator.HideDelay(8, model.SpeedExtreme)
	require.NoError(t, err)
	assert.Equal(t, want, round.Delay)

	s.Lang = "zz"
	assert.Error(t, g.ApplySettings(s))
	assert.Equal(t, "en", g.Settings().Lang)
}

func TestSpecialSwitch(t *testing.T) {
	s := defaultSettings()
	s.Lang = "de"
	s.Length = MaxLength
	s.Special = false
	g, err := New(generator.New(), &fakeRecorder{}, charset.Builtin(), s, 0)
	require.NoError(t, err)
	assert.True(t, g.CharacterSet().HasSpecial())
	for i := 0; i < 200; i++ {
		round, err := g.NewRound()
		require.NoError(t, err)
		require.NotRegexp(t, `[äöü]`, round.Text)
	}
}
