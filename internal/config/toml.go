// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/glimpse/internal/charset"
	"github.com/verte-zerg/glimpse/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game     GameConfig               `toml:"game"`
	Charsets map[string]CharsetConfig `toml:"charsets"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	Lang    *string `toml:"lang"`
	Length  *int    `toml:"length"`
	Caps    *string `toml:"caps"`
	Speed   *string `toml:"speed"`
	Special *bool   `toml:"special"`
}

// CharsetConfig defines or adjusts a locale's character set. Unset fields
// are inherited from Base, or from the builtin set of the same name.
type CharsetConfig struct {
	Base              *string  `toml:"base"`
	SmallConsonants   *string  `toml:"small-consonants"`
	CapitalConsonants *string  `toml:"capital-consonants"`
	SmallVowels       *string  `toml:"small-vowels"`
	CapitalVowels     *string  `toml:"capital-vowels"`
	SmallSpecial      *string  `toml:"small-special"`
	CapitalSpecial    *string  `toml:"capital-special"`
	MaxConsonants     *int     `toml:"max-consonants"`
	MaxVowels         *int     `toml:"max-vowels"`
	MaxSpecial        *int     `toml:"max-special"`
	SpecialRatio      *float64 `toml:"special-ratio"`
	VowelRatio        *float64 `toml:"vowel-ratio"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Settings converts the [game] section to partial settings.
func (c GameConfig) Settings() (model.StoredSettings, error) {
	out := model.StoredSettings{Lang: c.Lang, Length: c.Length, Special: c.Special}
	if c.Caps != nil {
		caps, err := model.ParseCaps(*c.Caps)
		if err != nil {
			return model.StoredSettings{}, fmt.Errorf("invalid game.caps: %w", err)
		}
		out.Caps = &caps
	}
	if c.Speed != nil {
		speed, err := model.ParseSpeed(*c.Speed)
		if err != nil {
			return model.StoredSettings{}, fmt.Errorf("invalid game.speed: %w", err)
		}
		out.Speed = &speed
	}
	return out, nil
}

// CharacterSets merges the configured locales over the builtin table.
func (c FileConfig) CharacterSets() (charset.Table, error) {
	builtin := charset.Builtin()
	if len(c.Charsets) == 0 {
		return builtin, nil
	}
	names := make([]string, 0, len(c.Charsets))
	for name := range c.Charsets {
		names = append(names, name)
	}
	sort.Strings(names)

	overrides := charset.Table{}
	for _, name := range names {
		lang := strings.ToLower(name)
		cs, err := c.Charsets[name].resolve(lang, builtin)
		if err != nil {
			return nil, fmt.Errorf("invalid charsets.%s: %w", name, err)
		}
		overrides[lang] = cs
	}
	return charset.Merge(builtin, overrides), nil
}

func (cc CharsetConfig) resolve(lang string, builtin charset.Table) (charset.CharacterSet, error) {
	var cs charset.CharacterSet
	switch {
	case cc.Base != nil:
		base, err := builtin.Lookup(*cc.Base)
		if err != nil {
			return charset.CharacterSet{}, err
		}
		cs = base
	default:
		// Extending a builtin locale keeps its values; a new locale starts empty.
		cs = builtin[lang]
	}
	setString(&cs.SmallConsonants, cc.SmallConsonants)
	setString(&cs.CapitalConsonants, cc.CapitalConsonants)
	setString(&cs.SmallVowels, cc.SmallVowels)
	setString(&cs.CapitalVowels, cc.CapitalVowels)
	setString(&cs.SmallSpecial, cc.SmallSpecial)
	setString(&cs.CapitalSpecial, cc.CapitalSpecial)
	setInt(&cs.MaxConsonantsInRow, cc.MaxConsonants)
	setInt(&cs.MaxVowelsInRow, cc.MaxVowels)
	setInt(&cs.MaxSpecialInRow, cc.MaxSpecial)
	setFloat(&cs.SpecialRatio, cc.SpecialRatio)
	setFloat(&cs.VowelRatio, cc.VowelRatio)
	if err := cs.Validate(); err != nil {
		return charset.CharacterSet{}, err
	}
	return cs, nil
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}
