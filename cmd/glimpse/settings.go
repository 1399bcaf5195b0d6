package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/glimpse/internal/charset"
	"github.com/verte-zerg/glimpse/internal/config"
	"github.com/verte-zerg/glimpse/internal/model"
)

// resolveSettings layers defaults, the config file, remembered preferences
// and explicitly set flags, in that order.
func resolveSettings(cmd *cobra.Command, fileGame config.GameConfig, remembered model.StoredSettings, charsets charset.Table) (model.Settings, error) {
	caps, err := model.ParseCaps(playCaps)
	if err != nil {
		return model.Settings{}, fmt.Errorf("invalid --caps: %w", err)
	}
	speed, err := model.ParseSpeed(playSpeed)
	if err != nil {
		return model.Settings{}, fmt.Errorf("invalid --speed: %w", err)
	}
	fromFile, err := fileGame.Settings()
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}

	settings := model.Settings{
		Lang:    playLang,
		Length:  playLength,
		Caps:    caps,
		Speed:   speed,
		Special: playSpecial,
	}
	for _, layer := range []model.StoredSettings{fromFile, remembered} {
		applyConfig(cmd, "lang", &settings.Lang, layer.Lang)
		applyConfig(cmd, "length", &settings.Length, layer.Length)
		applyConfig(cmd, "caps", &settings.Caps, layer.Caps)
		applyConfig(cmd, "speed", &settings.Speed, layer.Speed)
		applyConfig(cmd, "special", &settings.Special, layer.Special)
	}

	settings.Lang = strings.ToLower(strings.TrimSpace(settings.Lang))
	if settings.Lang == "" {
		settings.Lang = detectLang(charsets, os.Getenv)
	}
	if _, err := charsets.Lookup(settings.Lang); err != nil {
		return model.Settings{}, err
	}
	if settings.Length <= 0 {
		return model.Settings{}, fmt.Errorf("--length must be > 0")
	}
	return settings, nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// detectLang picks the locale language when a character set exists for it.
func detectLang(charsets charset.Table, getenv func(string) string) string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		parts := strings.FieldsFunc(getenv(name), func(r rune) bool {
			return r == '_' || r == '.' || r == '@' || r == '-'
		})
		if len(parts) == 0 {
			continue
		}
		code := strings.ToLower(parts[0])
		if _, ok := charsets[code]; ok {
			return code
		}
		break
	}
	return fallbackLang
}
