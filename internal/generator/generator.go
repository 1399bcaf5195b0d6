// Package generator builds the random strings shown each round and the
// time they stay visible.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
	"unicode"

	"github.com/verte-zerg/glimpse/internal/charset"
	"github.com/verte-zerg/glimpse/internal/model"
)

var (
	ErrInvalidLength = errors.New("length must be > 0")
	ErrInvalidMode   = errors.New("unknown capitalization mode")
	ErrInvalidSpeed  = errors.New("unknown speed")
	ErrEmptyPool     = errors.New("empty character pool")
)

// RNG abstracts the random source for deterministic testing.
type RNG interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// Intn returns a non-negative number in [0, n).
	Intn(n int) int
}

// Generator produces random strings from a character set.
// It is not safe for concurrent use; see the package-level Generate.
type Generator struct {
	rnd RNG
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithRNG returns a Generator drawing from rng.
func NewWithRNG(rng RNG) *Generator {
	return &Generator{rnd: rng}
}

type globalRNG struct{}

func (globalRNG) Float64() float64 { return rand.Float64() }
func (globalRNG) Intn(n int) int   { return rand.Intn(n) }

// Generate is safe for concurrent use; it draws from the shared math/rand source.
func Generate(length int, mode model.Caps, cs charset.CharacterSet) (string, error) {
	return NewWithRNG(globalRNG{}).Generate(length, mode, cs)
}

// Generate returns exactly length characters honoring the set's vowel ratio,
// run limits and special-character injection.
func (g *Generator) Generate(length int, mode model.Caps, cs charset.CharacterSet) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
	p := newPools(cs)
	smallVowels := runeSet(cs.SmallVowels)
	smallConsonants := runeSet(cs.SmallConsonants)

	var consonantRun, vowelRun, specialRun int
	var seenVowel, seenConsonant bool
	out := make([]rune, 0, length)
	for i := 0; i < length; i++ {
		useSpecial := g.rnd.Float64() < cs.SpecialRatio && specialRun < cs.MaxSpecialInRow
		vowels, consonants := p.forPosition(mode, i, useSpecial)
		last := i == length-1

		var pool []rune
		var class string
		switch {
		case consonantRun >= cs.MaxConsonantsInRow || (last && !seenVowel):
			pool, class = vowels, "vowel"
		case vowelRun >= cs.MaxVowelsInRow || (last && !seenConsonant):
			pool, class = consonants, "consonant"
		case g.rnd.Float64() < cs.VowelRatio:
			pool, class = vowels, "vowel"
		default:
			pool, class = consonants, "consonant"
		}
		if class == "vowel" {
			vowelRun++
			consonantRun = 0
		} else {
			consonantRun++
			vowelRun = 0
		}
		if useSpecial {
			specialRun++
		} else {
			specialRun = 0
		}

		if len(pool) == 0 {
			if useSpecial {
				class = "special"
			}
			return "", fmt.Errorf("%w: %s pool for %v at position %d", ErrEmptyPool, class, mode, i)
		}
		r := pool[g.rnd.Intn(len(pool))]

		// Membership of any earlier character, not a substring match.
		lower := unicode.ToLower(r)
		if _, ok := smallVowels[lower]; ok {
			seenVowel = true
		}
		if _, ok := smallConsonants[lower]; ok {
			seenConsonant = true
		}
		out = append(out, r)
	}
	return string(out), nil
}

type pools struct {
	smallVowels, capitalVowels, mixedVowels             []rune
	smallConsonants, capitalConsonants, mixedConsonants []rune
	smallSpecial, capitalSpecial, mixedSpecial          []rune
}

func newPools(cs charset.CharacterSet) pools {
	return pools{
		smallVowels:       []rune(cs.SmallVowels),
		capitalVowels:     []rune(cs.CapitalVowels),
		mixedVowels:       []rune(cs.CapitalVowels + cs.SmallVowels),
		smallConsonants:   []rune(cs.SmallConsonants),
		capitalConsonants: []rune(cs.CapitalConsonants),
		mixedConsonants:   []rune(cs.CapitalConsonants + cs.SmallConsonants),
		smallSpecial:      []rune(cs.SmallSpecial),
		capitalSpecial:    []rune(cs.CapitalSpecial),
		mixedSpecial:      []rune(cs.SmallSpecial + cs.CapitalSpecial),
	}
}

// forPosition returns the vowel and consonant pools for index i. A special
// draw replaces both with the special pool of the same case.
func (p pools) forPosition(mode model.Caps, i int, special bool) (vowels, consonants []rune) {
	switch {
	case mode == model.CapsMixed:
		if special {
			return p.mixedSpecial, p.mixedSpecial
		}
		return p.mixedVowels, p.mixedConsonants
	case mode == model.CapsAll, mode == model.CapsCapital && i == 0:
		if special {
			return p.capitalSpecial, p.capitalSpecial
		}
		return p.capitalVowels, p.capitalConsonants
	default:
		if special {
			return p.smallSpecial, p.smallSpecial
		}
		return p.smallVowels, p.smallConsonants
	}
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}
