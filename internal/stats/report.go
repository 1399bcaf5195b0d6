package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/glimpse/internal/model"
	"github.com/verte-zerg/glimpse/internal/store"
)

const mostMissedCount = 5

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds    []model.RoundRecord
	Summary   Summary
	HighScore int
	Chars     []model.CharAggregate
	Lengths   []model.LengthAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	highScore, err := st.HighScore(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Rounds:    rounds,
		Summary:   Summarize(rounds),
		HighScore: highScore,
		Chars:     CharAggregates(rounds),
		Lengths:   LengthAggregates(rounds),
	}, nil
}

// RenderReport writes every report section to w.
func RenderReport(w io.Writer, report Report, window, width int) error {
	if err := RenderSummary(w, report.Summary, report.HighScore); err != nil {
		return err
	}
	if len(report.Rounds) == 0 {
		return nil
	}
	if missed := MostMissed(report.Chars, mostMissedCount); len(missed) > 0 {
		if _, err := fmt.Fprintf(w, "Most missed: %s\n\n", strings.Join(missed, " ")); err != nil {
			return err
		}
	}
	if err := RenderCurve(w, report.Rounds, window, width); err != nil {
		return err
	}
	if err := RenderLengthTable(w, report.Lengths); err != nil {
		return err
	}
	return RenderCharTable(w, report.Chars)
}
