// Package charset defines per-locale character sets used by the generator.
package charset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownLang is returned when a locale has no character set.
var ErrUnknownLang = errors.New("unknown language")

// CharacterSet holds the character classes and tuning parameters for one locale.
type CharacterSet struct {
	SmallConsonants   string
	CapitalConsonants string
	SmallVowels       string
	CapitalVowels     string
	SmallSpecial      string
	CapitalSpecial    string

	MaxConsonantsInRow int
	MaxVowelsInRow     int
	MaxSpecialInRow    int
	// SpecialRatio is the probability that a position draws from the special pool.
	SpecialRatio float64
	// VowelRatio is the probability of a vowel when no run cap forces the choice.
	VowelRatio float64
}

// Table maps locale codes to character sets.
type Table map[string]CharacterSet

// Builtin returns a fresh copy of the builtin locale table.
func Builtin() Table {
	return Table{
		"en": {
			SmallConsonants:    "bcdfghjklmnpqrstvwxyz",
			CapitalConsonants:  "BCDFGHJKLMNPQRSTVWXYZ",
			SmallVowels:        "aeiou",
			CapitalVowels:      "AEIOU",
			MaxConsonantsInRow: 3,
			MaxVowelsInRow:     2,
			MaxSpecialInRow:    1,
			SpecialRatio:       0,
			VowelRatio:         0.3,
		},
		"es": {
			SmallConsonants:    "bcdfghjklmnpqrstvwxyz",
			CapitalConsonants:  "BCDFGHJKLMNPQRSTVWXYZ",
			SmallVowels:        "aeiou",
			CapitalVowels:      "AEIOU",
			SmallSpecial:       "áéíóúñü",
			CapitalSpecial:     "ÁÉÍÓÚÑ",
			MaxConsonantsInRow: 3,
			MaxVowelsInRow:     2,
			MaxSpecialInRow:    1,
			SpecialRatio:       0.1,
			VowelRatio:         0.2,
		},
		"fr": {
			SmallConsonants:    "bcdfghjklmnpqrstvwxyz",
			CapitalConsonants:  "BCDFGHJKLMNPQRSTVWXYZ",
			SmallVowels:        "aeiou",
			CapitalVowels:      "AEIOU",
			SmallSpecial:       "àâçéèêëîïôùûü",
			CapitalSpecial:     "ÀÂÇÉÈÊËÎÏÔÙÛÜ",
			MaxConsonantsInRow: 3,
			MaxVowelsInRow:     2,
			MaxSpecialInRow:    1,
			SpecialRatio:       0.1,
			VowelRatio:         0.2,
		},
		"de": {
			SmallConsonants:    "bcdfghjklmnpqrstvwxyzß",
			CapitalConsonants:  "BCDFGHJKLMNPQRSTVWXYZ",
			SmallVowels:        "aeiou",
			CapitalVowels:      "AEIOU",
			SmallSpecial:       "äöüß",
			CapitalSpecial:     "ÄÖÜ",
			MaxConsonantsInRow: 3,
			MaxVowelsInRow:     2,
			MaxSpecialInRow:    1,
			SpecialRatio:       0.05,
			VowelRatio:         0.3,
		},
	}
}

// Merge returns a new table with overrides layered over base.
func Merge(base, overrides Table) Table {
	out := make(Table, len(base)+len(overrides))
	for lang, cs := range base {
		out[lang] = cs
	}
	for lang, cs := range overrides {
		out[strings.ToLower(lang)] = cs
	}
	return out
}

// Langs returns the locale codes in sorted order.
func (t Table) Langs() []string {
	langs := make([]string, 0, len(t))
	for lang := range t {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Lookup returns the character set for lang.
func (t Table) Lookup(lang string) (CharacterSet, error) {
	cs, ok := t[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return CharacterSet{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownLang, lang, strings.Join(t.Langs(), ", "))
	}
	return cs, nil
}

// HasSpecial reports whether the set ever injects special characters.
func (cs CharacterSet) HasSpecial() bool {
	return cs.SpecialRatio > 0
}

// WithoutSpecial returns a copy that never draws special characters.
func (cs CharacterSet) WithoutSpecial() CharacterSet {
	cs.SpecialRatio = 0
	return cs
}

// Validate checks the set can serve every capitalization mode without an empty pool.
func (cs CharacterSet) Validate() error {
	if cs.SpecialRatio < 0 || cs.SpecialRatio > 1 {
		return fmt.Errorf("special ratio must be between 0 and 1, got %v", cs.SpecialRatio)
	}
	if cs.VowelRatio < 0 || cs.VowelRatio > 1 {
		return fmt.Errorf("vowel ratio must be between 0 and 1, got %v", cs.VowelRatio)
	}
	if cs.MaxConsonantsInRow < 1 || cs.MaxVowelsInRow < 1 || cs.MaxSpecialInRow < 1 {
		return fmt.Errorf("run limits must be >= 1")
	}
	pools := []struct {
		name  string
		value string
		need  bool
	}{
		{"small consonants", cs.SmallConsonants, true},
		{"capital consonants", cs.CapitalConsonants, true},
		{"small vowels", cs.SmallVowels, true},
		{"capital vowels", cs.CapitalVowels, true},
		{"small special", cs.SmallSpecial, cs.HasSpecial()},
		{"capital special", cs.CapitalSpecial, cs.HasSpecial()},
	}
	for _, p := range pools {
		if p.need && p.value == "" {
			return fmt.Errorf("%s must not be empty", p.name)
		}
	}
	return nil
}
