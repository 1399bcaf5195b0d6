package model

import (
	"fmt"
	"strings"
)

// Caps selects how generated characters are capitalized.
type Caps int

const (
	// CapsSmall uses lowercase only.
	CapsSmall Caps = iota
	// CapsCapital uppercases the first character only.
	CapsCapital
	// CapsMixed draws every position from upper and lower case alike.
	CapsMixed
	// CapsAll uses uppercase only.
	CapsAll
)

var capsNames = []string{"small", "capital", "mixed", "all"}

// CapsModes returns every capitalization mode in slider order.
func CapsModes() []Caps {
	return []Caps{CapsSmall, CapsCapital, CapsMixed, CapsAll}
}

// Valid reports whether c is a known mode.
func (c Caps) Valid() bool {
	return c >= CapsSmall && c <= CapsAll
}

func (c Caps) String() string {
	if !c.Valid() {
		return fmt.Sprintf("caps(%d)", int(c))
	}
	return capsNames[c]
}

// ParseCaps parses a capitalization mode name.
func ParseCaps(s string) (Caps, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range capsNames {
		if n == name {
			return Caps(i), nil
		}
	}
	return 0, fmt.Errorf("unknown caps mode %q (valid: %s)", s, strings.Join(capsNames, ", "))
}

// Speed controls how long generated text stays visible.
type Speed int

const (
	SpeedVerySlow Speed = iota
	SpeedSlow
	SpeedMedium
	SpeedFast
	SpeedExtreme
)

var (
	speedNames       = []string{"very-slow", "slow", "medium", "fast", "extreme"}
	speedMultipliers = []float64{2.0, 1.2, 0.75, 0.55, 0.15}
)

// Speeds returns every speed tier from slowest to fastest.
func Speeds() []Speed {
	return []Speed{SpeedVerySlow, SpeedSlow, SpeedMedium, SpeedFast, SpeedExtreme}
}

// Valid reports whether s is a known tier.
func (s Speed) Valid() bool {
	return s >= SpeedVerySlow && s <= SpeedExtreme
}

// Multiplier is the factor applied to the base visibility delay.
func (s Speed) Multiplier() float64 {
	if !s.Valid() {
		return 0
	}
	return speedMultipliers[s]
}

func (s Speed) String() string {
	if !s.Valid() {
		return fmt.Sprintf("speed(%d)", int(s))
	}
	return speedNames[s]
}

// ParseSpeed parses a speed tier name. Underscores are accepted in place of dashes.
func ParseSpeed(s string) (Speed, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, n := range speedNames {
		if n == name {
			return Speed(i), nil
		}
	}
	return 0, fmt.Errorf("unknown speed %q (valid: %s)", s, strings.Join(speedNames, ", "))
}
