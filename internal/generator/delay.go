package generator

import (
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/glimpse/internal/model"
)

const (
	baseDelayMs     = 1000
	perCharDelayMs  = 175
	quadDelayFactor = 20
	quadDelayCapMs  = 1750
)

// HideDelayMs returns how many milliseconds a string of the given length stays visible.
func HideDelayMs(length int, speed model.Speed) (int, error) {
	if length <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	if !speed.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	base := baseDelayMs + perCharDelayMs*length + min(quadDelayCapMs, quadDelayFactor*length*length)
	return int(math.Round(float64(base) * speed.Multiplier())), nil
}

// HideDelay is HideDelayMs as a Duration.
func HideDelay(length int, speed model.Speed) (time.Duration, error) {
	ms, err := HideDelayMs(length, speed)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}
