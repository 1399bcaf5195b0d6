// Package model defines shared data structures.
package model

import "time"

// Settings defines the round parameters chosen by the player.
type Settings struct {
	Lang    string
	Length  int
	Caps    Caps
	Speed   Speed
	Special bool
}

// StoredSettings mirrors Settings for partial restore; nil means unset.
type StoredSettings struct {
	Lang    *string
	Length  *int
	Caps    *Caps
	Speed   *Speed
	Special *bool
}

// Apply overlays the set fields onto s.
func (ss StoredSettings) Apply(s Settings) Settings {
	if ss.Lang != nil {
		s.Lang = *ss.Lang
	}
	if ss.Length != nil {
		s.Length = *ss.Length
	}
	if ss.Caps != nil {
		s.Caps = *ss.Caps
	}
	if ss.Speed != nil {
		s.Speed = *ss.Speed
	}
	if ss.Special != nil {
		s.Special = *ss.Special
	}
	return s
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang   string
	Since  *time.Time
	Last   int
	Window int
}

// RoundRecord captures a submitted round.
type RoundRecord struct {
	ID         int64
	SessionID  string
	PlayedAt   time.Time
	Lang       string
	Length     int
	Caps       Caps
	Speed      Speed
	Target     string
	Input      string
	Correct    bool
	Streak     int
	DelayMs    int64
	ResponseMs int64
}

// CharAggregate aggregates per-character recall across rounds.
type CharAggregate struct {
	Char   string
	Hit    int
	Missed int
}

// LengthAggregate aggregates rounds sharing a target length.
type LengthAggregate struct {
	Length  int
	Rounds  int
	Correct int
}
