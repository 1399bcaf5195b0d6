package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/glimpse/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "glimpse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSettingsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	restored, err := st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load empty settings: %v", err)
	}
	if restored.Lang != nil || restored.Length != nil || restored.Special != nil {
		t.Fatalf("expected empty settings, got %+v", restored)
	}

	want := model.Settings{Lang: "fr", Length: 7, Caps: model.CapsMixed, Speed: model.SpeedFast, Special: false}
	if err := st.SaveSettings(ctx, want); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	want.Length = 8
	if err := st.SaveSettings(ctx, want); err != nil {
		t.Fatalf("overwrite settings: %v", err)
	}

	restored, err = st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	got := restored.Apply(model.Settings{})
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadSettingsIgnoresGarbage(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for key, value := range map[string]string{keyLength: "many", keyCaps: "LOUD", keySpeed: "medium"} {
		if _, err := st.db.ExecContext(ctx, upsertPreference, key, value); err != nil {
			t.Fatalf("seed preference: %v", err)
		}
	}
	restored, err := st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if restored.Length != nil || restored.Caps != nil {
		t.Fatalf("expected garbage values to be skipped, got %+v", restored)
	}
	if restored.Speed == nil || *restored.Speed != model.SpeedMedium {
		t.Fatalf("expected medium speed to be restored")
	}
}

func TestHighScore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	score, err := st.HighScore(ctx)
	if err != nil {
		t.Fatalf("high score: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected 0, got %d", score)
	}
	if err := st.SetHighScore(ctx, 12); err != nil {
		t.Fatalf("set high score: %v", err)
	}
	if err := st.SetHighScore(ctx, 4); err != nil {
		t.Fatalf("set high score: %v", err)
	}
	score, err = st.HighScore(ctx)
	if err != nil {
		t.Fatalf("high score: %v", err)
	}
	if score != 4 {
		t.Fatalf("expected 4, got %d", score)
	}
}

func TestRoundsFilterAndLimit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	langs := []string{"en", "de", "en", "en"}
	for i, lang := range langs {
		r := model.RoundRecord{
			SessionID:  "session",
			PlayedAt:   base.Add(time.Duration(i) * time.Minute),
			Lang:       lang,
			Length:     5,
			Caps:       model.CapsCapital,
			Speed:      model.SpeedSlow,
			Target:     "Abcde",
			Input:      "Abcde",
			Correct:    i%2 == 0,
			Streak:     i,
			DelayMs:    2850,
			ResponseMs: 4000,
		}
		if _, err := st.InsertRound(ctx, r); err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}

	all, err := st.ListRounds(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 rounds, got %d", len(all))
	}
	if all[0].Caps != model.CapsCapital || all[0].Speed != model.SpeedSlow || !all[0].Correct {
		t.Fatalf("unexpected first round: %+v", all[0])
	}
	if !all[3].PlayedAt.Equal(base.Add(3 * time.Minute)) {
		t.Fatalf("unexpected played at: %v", all[3].PlayedAt)
	}

	en, err := st.ListRounds(ctx, model.StatsConfig{Lang: "en", Last: 2})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(en) != 2 || en[0].Streak != 2 || en[1].Streak != 3 {
		t.Fatalf("unexpected filtered rounds: %+v", en)
	}

	since := base.Add(90 * time.Second)
	recent, err := st.ListRounds(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent rounds, got %d", len(recent))
	}

	removed, err := st.DeleteRounds(ctx)
	if err != nil {
		t.Fatalf("delete rounds: %v", err)
	}
	if removed != 4 {
		t.Fatalf("expected 4 removed, got %d", removed)
	}
}
