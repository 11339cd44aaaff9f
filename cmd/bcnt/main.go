package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Europe/Madrid must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/bcntransit/bcnt-cli/internal/api"
	"github.com/bcntransit/bcnt-cli/internal/config"
	"github.com/bcntransit/bcnt-cli/internal/countdown"
	"github.com/bcntransit/bcnt-cli/internal/locale"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/output"
	"github.com/bcntransit/bcnt-cli/internal/prefs"
)

var version = "0.3.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bcnt",
	Short: "Barcelona public transport arrivals in the terminal",
	Long: `bcnt shows live arrival countdowns for Barcelona public transport
from the BCN Transit backend.

Features:
  - Live countdowns for metro, bus, tram, Rodalies and FGC stations
  - Lines, stations, connections and accesses of every network
  - Service alerts in Spanish, Catalan or English
  - Bicing availability
  - Favorites and alert subscriptions synced with the mobile app
  - JSON output for scripting
  - Response caching for static data

Quick Start:
  1. Launch TUI:               bcnt (or bcnt tui)
  2. Search for a station:     bcnt search Catalunya
  3. Show arrivals:            bcnt arrivals metro 127
  4. Follow a board live:      bcnt arrivals metro 127 --watch
  5. List the lines:           bcnt lines metro
  6. Check service alerts:     bcnt alerts metro --line L1`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, launch TUI
		if len(args) == 0 {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

// Global flags
var (
	flagJSON    bool
	flagRawJSON bool
	flagColor   string
	flagNoCache bool
	flagLang    string
	flagConfig  string
	flagVerbose bool
)

// Loaded by setup before any command runs
var (
	cfg    *config.Config
	logger *log.Logger
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagRawJSON, "raw-json", false, "Output raw API response")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Disable response caching")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Language: es, ca, en (default: stored preference)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/bcnt/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log requests and cache hits to stderr")
}

// newLogger returns the stderr logger, at debug level when verbose.
func newLogger(verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bcnt",
	})
	l.SetLevel(log.WarnLevel)
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// setup loads the configuration, applies the flags and validates the result.
func setup(cmd *cobra.Command, args []string) error {
	logger = newLogger(flagVerbose)

	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLang != "" {
		c.Language = strings.ToLower(strings.TrimSpace(flagLang))
	}
	if flagNoCache {
		c.NoCache = true
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// resolveLanguage picks the UI language: flag or config first, then the
// stored preference, then Spanish.
func resolveLanguage() string {
	if cfg.Language != "" {
		return cfg.Language
	}
	path := cfg.ResolvedPrefsPath()
	if _, err := os.Stat(path); err != nil {
		return locale.Default
	}
	store, err := prefs.Open(path)
	if err != nil {
		logger.Debug("prefs unavailable", "err", err)
		return locale.Default
	}
	defer func() { _ = store.Close() }()

	lang, err := store.Language()
	if err != nil {
		logger.Debug("reading language failed", "err", err)
	}
	return lang
}

// createClient creates an API client from the configuration
func createClient() (*api.Client, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []api.ClientOption{
		api.WithBaseURL(cfg.BaseURL),
		api.WithAPIKey(cfg.APIKey),
		api.WithStaticToken(cfg.Token),
		api.WithTimeout(cfg.Timeout),
		api.WithTimezone(loc),
		api.WithLanguage(resolveLanguage()),
		api.WithLogger(logger),
	}

	// Enable caching unless disabled
	if !cfg.NoCache {
		opts = append(opts, api.WithDefaultCache(cfg.CacheTTL))
	}

	client, err := api.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// openPrefs opens the local preferences database
func openPrefs() (*prefs.Store, error) {
	return prefs.Open(cfg.ResolvedPrefsPath())
}

// getColors returns the colors selected by the --color flag
func getColors() *output.Colors {
	return output.NewColors(output.ParseColorMode(flagColor))
}

// tableOptions returns the render options for the client's language and
// timezone.
func tableOptions(client *api.Client) output.TableOptions {
	return output.TableOptions{
		Colors:    getColors(),
		Formatter: countdown.NewFormatter(locale.For(client.Language()), client.Timezone()),
	}
}

// parseType parses a transport type argument, rejecting bike-share where
// lines are required.
func parseType(s string, needLines bool) (models.TransportType, error) {
	tt, err := models.ParseTransportType(s)
	if err != nil {
		return "", err
	}
	if needLines && !tt.HasLines() {
		return "", fmt.Errorf("%s has no lines; use 'bcnt bicing <station>'", tt)
	}
	return tt, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPrettyJSON(data []byte) error {
	var prettyJSON interface{}
	if err := json.Unmarshal(data, &prettyJSON); err != nil {
		// If we can't parse it, just print raw
		fmt.Println(string(data))
		return err
	}
	return printJSON(prettyJSON)
}

// userError adds a hint to auth failures and empty searches.
func userError(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%w (set %s or %s)", err, config.EnvAPIKey, config.EnvToken)
	case errors.Is(err, api.ErrNoResults):
		return fmt.Errorf("%w; try a shorter name or check the spelling", err)
	}
	return err
}
