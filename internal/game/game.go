// Package game implements the round state machine: show a string, hide it,
// compare the recalled input and keep the streak score.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/verte-zerg/glimpse/internal/charset"
	"github.com/verte-zerg/glimpse/internal/generator"
	"github.com/verte-zerg/glimpse/internal/model"
)

// Length bounds offered to the player.
const (
	MinLength = 3
	MaxLength = 10
)

var (
	ErrNotStarted    = errors.New("no round in progress")
	ErrInputRequired = errors.New("input required")
)

// Recorder persists round outcomes.
type Recorder interface {
	InsertRound(ctx context.Context, r model.RoundRecord) (int64, error)
	SetHighScore(ctx context.Context, score int) error
}

// Round describes a freshly generated string.
type Round struct {
	ID    int
	Text  string
	Delay time.Duration
}

// Outcome is the result of a submission.
type Outcome struct {
	Correct      bool
	Target       string
	Input        string
	Score        int
	HighScore    int
	NewHighScore bool
}

// Game holds the state of one play session.
type Game struct {
	gen       *generator.Generator
	rec       Recorder
	charsets  charset.Table
	settings  model.Settings
	cs        charset.CharacterSet
	sessionID string
	now       func() time.Time

	round   int
	target  string
	delay   time.Duration
	shownAt time.Time
	started bool
	visible bool

	score     int
	highScore int
}

// New constructs a game. highScore is the best streak restored from storage.
func New(gen *generator.Generator, rec Recorder, charsets charset.Table, settings model.Settings, highScore int) (*Game, error) {
	g := &Game{
		gen:       gen,
		rec:       rec,
		charsets:  charsets,
		sessionID: uuid.NewString(),
		now:       time.Now,
		highScore: highScore,
	}
	if err := g.ApplySettings(settings); err != nil {
		return nil, err
	}
	return g, nil
}

// ValidateSettings checks settings against the available character sets.
func ValidateSettings(charsets charset.Table, s model.Settings) error {
	if s.Length < MinLength || s.Length > MaxLength {
		return fmt.Errorf("length must be between %d and %d, got %d", MinLength, MaxLength, s.Length)
	}
	if !s.Caps.Valid() {
		return fmt.Errorf("%w: %v", generator.ErrInvalidMode, s.Caps)
	}
	if !s.Speed.Valid() {
		return fmt.Errorf("%w: %v", generator.ErrInvalidSpeed, s.Speed)
	}
	cs, err := charsets.Lookup(s.Lang)
	if err != nil {
		return err
	}
	return effective(cs, s.Special).Validate()
}

// ApplySettings replaces the settings; they take effect on the next round.
func (g *Game) ApplySettings(s model.Settings) error {
	if err := ValidateSettings(g.charsets, s); err != nil {
		return err
	}
	cs, err := g.charsets.Lookup(s.Lang)
	if err != nil {
		return err
	}
	g.settings = s
	g.cs = effective(cs, s.Special)
	return nil
}

func effective(cs charset.CharacterSet, special bool) charset.CharacterSet {
	if !special {
		return cs.WithoutSpecial()
	}
	return cs
}

// NewRound generates a new string and makes it visible.
func (g *Game) NewRound() (Round, error) {
	text, err := g.gen.Generate(g.settings.Length, g.settings.Caps, g.cs)
	if err != nil {
		return Round{}, fmt.Errorf("failed to generate text: %w", err)
	}
	delay, err := generator.HideDelay(g.settings.Length, g.settings.Speed)
	if err != nil {
		return Round{}, fmt.Errorf("failed to compute delay: %w", err)
	}
	g.round++
	g.target = text
	g.delay = delay
	g.shownAt = g.now()
	g.started = true
	g.visible = true
	return Round{ID: g.round, Text: text, Delay: delay}, nil
}

// Hide hides the text of round id. Stale ids are ignored.
func (g *Game) Hide(id int) bool {
	if id != g.round || !g.visible {
		return false
	}
	g.visible = false
	return true
}

// Typing hides the text as soon as the player edits the input.
func (g *Game) Typing() {
	g.visible = false
}

// Submit compares input with the current target and updates the streak.
// A non-nil error alongside a valid Outcome means only persistence failed.
func (g *Game) Submit(ctx context.Context, input string) (Outcome, error) {
	if !g.started {
		return Outcome{}, ErrNotStarted
	}
	if input == "" {
		return Outcome{}, ErrInputRequired
	}
	g.visible = false

	correct := input == g.target
	if correct {
		g.score++
	} else {
		g.score = 0
	}
	out := Outcome{
		Correct: correct,
		Target:  g.target,
		Input:   input,
		Score:   g.score,
	}

	var errs []error
	if g.score > g.highScore {
		g.highScore = g.score
		out.NewHighScore = true
		if err := g.rec.SetHighScore(ctx, g.highScore); err != nil {
			errs = append(errs, fmt.Errorf("failed to save high score: %w", err))
		}
	}
	out.HighScore = g.highScore

	now := g.now()
	record := model.RoundRecord{
		SessionID:  g.sessionID,
		PlayedAt:   now,
		Lang:       g.settings.Lang,
		Length:     utf8.RuneCountInString(g.target),
		Caps:       g.settings.Caps,
		Speed:      g.settings.Speed,
		Target:     g.target,
		Input:      input,
		Correct:    correct,
		Streak:     g.score,
		DelayMs:    g.delay.Milliseconds(),
		ResponseMs: now.Sub(g.shownAt).Milliseconds(),
	}
	if _, err := g.rec.InsertRound(ctx, record); err != nil {
		errs = append(errs, fmt.Errorf("failed to save round: %w", err))
	}
	return out, errors.Join(errs...)
}

// ResetHighScore clears the stored best streak.
func (g *Game) ResetHighScore(ctx context.Context) error {
	g.highScore = 0
	if err := g.rec.SetHighScore(ctx, 0); err != nil {
		return fmt.Errorf("failed to reset high score: %w", err)
	}
	return nil
}

// Settings returns the active settings.
func (g *Game) Settings() model.Settings { return g.settings }

// CharacterSet returns the locale's set as configured, ignoring the special switch.
func (g *Game) CharacterSet() charset.CharacterSet {
	cs, _ := g.charsets.Lookup(g.settings.Lang)
	return cs
}

// SessionID identifies this run in the round history.
func (g *Game) SessionID() string { return g.sessionID }

func (g *Game) Score() int     { return g.score }
func (g *Game) HighScore() int { return g.highScore }
func (g *Game) Started() bool  { return g.started }
func (g *Game) Visible() bool  { return g.visible }
func (g *Game) RoundID() int   { return g.round }
func (g *Game) Target() string { return g.target }

// Masked renders the hidden target as one "* " per character.
func (g *Game) Masked() string {
	return strings.TrimRight(strings.Repeat("* ", utf8.RuneCountInString(g.target)), " ")
}
