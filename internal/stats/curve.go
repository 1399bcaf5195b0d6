package stats

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/glimpse/internal/model"
)

const (
	curveLabel          = "Accuracy "
	minCurveWidth       = 10
	terminalWidthBackup = 80
)

// TerminalWidth returns the width of f when it is a terminal, or a fallback.
func TerminalWidth(f *os.File) int {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// AccuracySeries returns 100 for a correct round and 0 otherwise, smoothed over window.
func AccuracySeries(rounds []model.RoundRecord, window int) []float64 {
	values := make([]float64, len(rounds))
	for i, r := range rounds {
		if r.Correct {
			values[i] = 100
		}
	}
	return MovingAverage(values, window)
}

// RenderCurve prints the smoothed accuracy as a sparkline fitted to totalWidth.
func RenderCurve(w io.Writer, rounds []model.RoundRecord, window, totalWidth int) error {
	if len(rounds) == 0 {
		return nil
	}
	series := AccuracySeries(rounds, window)
	width := totalWidth - utf8.RuneCountInString(curveLabel) - 2
	if width < minCurveWidth {
		width = minCurveWidth
	}
	series = shrinkSeries(series, width)
	last := series[len(series)-1]
	if _, err := fmt.Fprintf(w, "Learning Curve (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s|%s|\n", curveLabel, Sparkline(series)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Latest: %.1f%%\n\n", last); err != nil {
		return err
	}
	return nil
}

// shrinkSeries averages values into at most width buckets.
func shrinkSeries(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
