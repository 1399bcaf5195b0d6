// Package main provides the CLI entrypoint for glimpse.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/glimpse/internal/charset"
	"github.com/verte-zerg/glimpse/internal/config"
	"github.com/verte-zerg/glimpse/internal/game"
	"github.com/verte-zerg/glimpse/internal/generator"
	"github.com/verte-zerg/glimpse/internal/model"
	"github.com/verte-zerg/glimpse/internal/stats"
	"github.com/verte-zerg/glimpse/internal/statsui"
	"github.com/verte-zerg/glimpse/internal/store"
	"github.com/verte-zerg/glimpse/internal/tui"
)

const (
	fallbackLang       = "de"
	defaultLength      = 5
	defaultCaps        = model.CapsSmall
	defaultSpeed       = model.SpeedMedium
	defaultSpecial     = true
	defaultCount       = 1
	defaultCurveWindow = 20
	debugEnv           = "GLIMPSE_DEBUG"
)

var (
	playLang    string
	playLength  int
	playCaps    string
	playSpeed   string
	playSpecial bool

	generateCount int

	statsLang   string
	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool

	resetHistory bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "glimpse",
		Short:         "Memorize a string at a glance, then type it back",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	addSettingsFlags(rootCmd)

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&playLang, "lang", "", "language code (default: from $LANG, else de)")
	cmd.Flags().IntVar(&playLength, "length", defaultLength, "characters per string")
	cmd.Flags().StringVar(&playCaps, "caps", defaultCaps.String(), "capitalization: small, capital, mixed, all")
	cmd.Flags().StringVar(&playSpeed, "speed", defaultSpeed.String(), "speed: very-slow, slow, medium, fast, extreme")
	cmd.Flags().BoolVar(&playSpecial, "special", defaultSpecial, "allow language-specific special characters")
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, charsets, err := loadCharsets()
	if err != nil {
		return err
	}

	return withStore(func(st *store.Store) error {
		return play(cmd, st, fileCfg.Game, charsets)
	})
}

func play(cmd *cobra.Command, st *store.Store, fileGame config.GameConfig, charsets charset.Table) error {
	ctx := context.Background()
	remembered, err := st.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	settings, err := resolveSettings(cmd, fileGame, remembered, charsets)
	if err != nil {
		return err
	}
	if err := game.ValidateSettings(charsets, settings); err != nil {
		return err
	}
	if err := st.SaveSettings(ctx, settings); err != nil {
		logErrf("failed to save preferences: %v\n", err)
	}
	highScore, err := st.HighScore(ctx)
	if err != nil {
		return fmt.Errorf("failed to load high score: %w", err)
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	g, err := game.New(generator.New(), st, charsets, settings, highScore)
	if err != nil {
		return err
	}
	log.Printf("session %s: %+v", g.SessionID(), settings)
	program := tea.NewProgram(tui.NewModel(g, st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// setupLogging sends the standard logger to the debug log file when
// GLIMPSE_DEBUG is set; otherwise log output is discarded.
func setupLogging() (func(), error) {
	if os.Getenv(debugEnv) == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "glimpse")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}, nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print random strings with their hide delay",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	addSettingsFlags(cmd)
	cmd.Flags().IntVar(&generateCount, "count", defaultCount, "number of strings")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, charsets, err := loadCharsets()
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cmd, fileCfg.Game, model.StoredSettings{}, charsets)
	if err != nil {
		return err
	}
	if generateCount <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	return writeGenerated(cmd.OutOrStdout(), generator.New(), charsets, settings, generateCount)
}

func writeGenerated(w io.Writer, gen *generator.Generator, charsets charset.Table, settings model.Settings, count int) error {
	cs, err := charsets.Lookup(settings.Lang)
	if err != nil {
		return err
	}
	if !settings.Special {
		cs = cs.WithoutSpecial()
	}
	delay, err := generator.HideDelayMs(settings.Length, settings.Speed)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		text, err := gen.Generate(settings.Length, settings.Caps, cs)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\t%d ms\n", text, delay); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	_, charsets, err := loadCharsets()
	if err != nil {
		return err
	}
	return writeLangs(cmd.OutOrStdout(), charsets)
}

func writeLangs(w io.Writer, charsets charset.Table) error {
	for _, lang := range charsets.Langs() {
		cs := charsets[lang]
		special := "-"
		if cs.HasSpecial() {
			special = cs.SmallSpecial + cs.CapitalSpecial
		}
		line := fmt.Sprintf("%-4s vowels %3.0f%%  special %3.0f%%  runs %d/%d/%d  %s",
			lang, cs.VowelRatio*100, cs.SpecialRatio*100,
			cs.MaxConsonantsInRow, cs.MaxVowelsInRow, cs.MaxSpecialInRow, special)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsFilter(statsLang, statsSince, statsLast, statsWindow)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		return showStats(cmd, st, cfg)
	})
}

func showStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return stats.RenderReport(cmd.OutOrStdout(), report, cfg.Window, stats.TerminalWidth(os.Stdout))
	}

	load := func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(load, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

// statsFilter validates the stats flags.
func statsFilter(lang, since string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Lang:   strings.ToLower(strings.TrimSpace(lang)),
		Last:   last,
		Window: window,
	}
	if since != "" {
		day, err := time.ParseInLocation(time.DateOnly, since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &day
	}
	switch {
	case last < 0:
		return cfg, errors.New("--last must be >= 0")
	case window < 1:
		return cfg, errors.New("--window must be >= 1")
	}
	return cfg, nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the high score",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetHistory, "history", false, "also delete the round history")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		return reset(context.Background(), cmd.OutOrStdout(), st, resetHistory)
	})
}

func reset(ctx context.Context, out io.Writer, st *store.Store, history bool) error {
	if err := st.SetHighScore(ctx, 0); err != nil {
		return fmt.Errorf("failed to reset high score: %w", err)
	}
	if _, err := fmt.Fprintln(out, "High score reset."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !history {
		return nil
	}
	n, err := st.DeleteRounds(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Deleted %d rounds.\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	cmd := editorCommand(os.Getenv("EDITOR"), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// editorCommand opens path in $EDITOR, which may carry arguments, or vi.
func editorCommand(editor, path string) *exec.Cmd {
	args := strings.Fields(editor)
	if len(args) == 0 {
		args = []string{"vi"}
	}
	return exec.Command(args[0], append(args[1:], path)...)
}

// loadCharsets reads the config file and merges its charsets over the
// builtin ones.
func loadCharsets() (config.FileConfig, charset.Table, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	charsets, err := fileCfg.CharacterSets()
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("invalid charsets in config: %w", err)
	}
	return fileCfg, charsets, nil
}

// withStore opens the default database for the duration of fn.
func withStore(fn func(st *store.Store) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(st)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# glimpse configuration
# Uncomment a value to enable it. Settings changed in the game are
# remembered and win over this file; CLI flags win over both.

[game]
# lang = %q              # Language code (default: from $LANG, else %q)
# length = %d              # Characters per string (%d-%d)
# caps = %q          # small, capital, mixed, all
# speed = %q        # very-slow, slow, medium, fast, extreme
# special = %t          # Allow language-specific special characters

# Custom or adjusted languages. Missing keys are taken from "base" or from
# the builtin language of the same name.
# [charsets.it]
# base = "en"
# small-vowels = "aeiou"
# capital-vowels = "AEIOU"
# small-special = "àèéìòù"
# capital-special = "ÀÈÉÌÒÙ"
# special-ratio = 0.1
`,
		fallbackLang,
		fallbackLang,
		defaultLength,
		game.MinLength,
		game.MaxLength,
		defaultCaps.String(),
		defaultSpeed.String(),
		defaultSpecial,
	)
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
