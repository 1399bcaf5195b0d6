// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/glimpse/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of rounds.
type Summary struct {
	Rounds        int
	Correct       int
	Sessions      int
	BestStreak    int
	Accuracy      float64
	AvgResponseMs float64
}

// Summarize computes totals over rounds.
func Summarize(rounds []model.RoundRecord) Summary {
	var s Summary
	if len(rounds) == 0 {
		return s
	}
	sessions := map[string]struct{}{}
	var responseSum int64
	for _, r := range rounds {
		s.Rounds++
		if r.Correct {
			s.Correct++
		}
		if r.Streak > s.BestStreak {
			s.BestStreak = r.Streak
		}
		sessions[r.SessionID] = struct{}{}
		responseSum += r.ResponseMs
	}
	s.Sessions = len(sessions)
	s.Accuracy = float64(s.Correct) / float64(s.Rounds)
	s.AvgResponseMs = float64(responseSum) / float64(s.Rounds)
	return s
}

// CharAggregates compares each round's input with its target position by
// position and counts, per target character, how often it was recalled.
func CharAggregates(rounds []model.RoundRecord) []model.CharAggregate {
	byChar := map[rune]*model.CharAggregate{}
	for _, r := range rounds {
		target := []rune(r.Target)
		input := []rune(r.Input)
		for i, ch := range target {
			agg, ok := byChar[ch]
			if !ok {
				agg = &model.CharAggregate{Char: string(ch)}
				byChar[ch] = agg
			}
			if i < len(input) && input[i] == ch {
				agg.Hit++
			} else {
				agg.Missed++
			}
		}
	}
	out := make([]model.CharAggregate, 0, len(byChar))
	for _, agg := range byChar {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// LengthAggregates groups rounds by target length, shortest first.
func LengthAggregates(rounds []model.RoundRecord) []model.LengthAggregate {
	byLength := map[int]*model.LengthAggregate{}
	for _, r := range rounds {
		agg, ok := byLength[r.Length]
		if !ok {
			agg = &model.LengthAggregate{Length: r.Length}
			byLength[r.Length] = agg
		}
		agg.Rounds++
		if r.Correct {
			agg.Correct++
		}
	}
	out := make([]model.LengthAggregate, 0, len(byLength))
	for _, agg := range byLength {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for the rounds.
func RenderSummary(w io.Writer, s Summary, highScore int) error {
	if s.Rounds == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d (%d sessions)", s.Rounds, s.Sessions),
		fmt.Sprintf("Correct: %d", s.Correct),
		fmt.Sprintf("Accuracy: %.2f%%", s.Accuracy*100),
		fmt.Sprintf("Best streak: %d", s.BestStreak),
		fmt.Sprintf("High score: %d", highScore),
		fmt.Sprintf("Avg response: %.0f ms", s.AvgResponseMs),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLengthTable prints accuracy per target length.
func RenderLengthTable(w io.Writer, aggs []model.LengthAggregate) error {
	if len(aggs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Length"); err != nil {
		return err
	}
	table := newTextTable("Length", "Rounds", "Correct", "Accuracy").alignRight(0, 1, 2, 3)
	for _, agg := range aggs {
		table.addRow(
			fmt.Sprintf("%d", agg.Length),
			fmt.Sprintf("%d", agg.Rounds),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%.2f%%", ratio(agg.Correct, agg.Rounds)*100),
		)
	}
	return table.write(w)
}

// RenderCharTable prints per-character recall, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := make([]model.CharAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai := ratio(rows[i].Hit, rows[i].Hit+rows[i].Missed)
		aj := ratio(rows[j].Hit, rows[j].Hit+rows[j].Missed)
		if ai == aj {
			return rows[i].Char < rows[j].Char
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	table := newTextTable("Char", "Recall", "Hit", "Missed").alignRight(1, 2, 3)
	for _, r := range rows {
		table.addRow(
			r.Char,
			fmt.Sprintf("%.2f%%", ratio(r.Hit, r.Hit+r.Missed)*100),
			fmt.Sprintf("%d", r.Hit),
			fmt.Sprintf("%d", r.Missed),
		)
	}
	return table.write(w)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
