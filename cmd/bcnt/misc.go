package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bcntransit/bcnt-cli/internal/cache"
	"github.com/bcntransit/bcnt-cli/internal/config"
	"github.com/bcntransit/bcnt-cli/internal/countdown"
	"github.com/bcntransit/bcnt-cli/internal/docs"
	"github.com/bcntransit/bcnt-cli/internal/locale"
	"github.com/bcntransit/bcnt-cli/internal/output"
	"github.com/bcntransit/bcnt-cli/internal/prefs"
	"github.com/bcntransit/bcnt-cli/internal/tui"
)

var flagForce bool

func init() {
	rootCmd.AddCommand(countdownCmd)
	rootCmd.AddCommand(tuiCmd)

	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")

	for _, page := range docs.Pages() {
		rootCmd.AddCommand(docCommand(page))
	}
}

var countdownCmd = &cobra.Command{
	Use:   "countdown <epoch|duration>",
	Short: "Show a live countdown to an instant",
	Long: `Show a live countdown label in the terminal, as the arrival boards do.

The target is either epoch seconds or a duration from now.

Examples:
  bcnt countdown 1710072090
  bcnt countdown 90s
  bcnt countdown 1h2m --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: runCountdown,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive full-screen TUI",
	Long: `Launch an interactive full-screen terminal UI for browsing
lines, stations and live arrival countdowns.

Keyboard:
  Tab            Cycle focus between panels
  j/k or arrows  Navigate lists
  h/l            Move between networks
  Enter          Select / confirm
  f              Toggle favorite
  v              Show favorites
  r              Refresh arrivals
  Esc            Go back
  /              Jump to search
  q              Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or empty the response cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := openCache()
		if err != nil {
			return err
		}
		return fc.Clear()
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cached responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := openCache()
		if err != nil {
			return err
		}
		return fc.Cleanup()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	// The --config target of init may not exist yet
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath()); err == nil {
			return setup(cmd, args)
		}
		target := flagConfig
		flagConfig = ""
		defer func() { flagConfig = target }()
		return setup(cmd, args)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to the configuration file",
	Long: `Write the effective settings (defaults, environment and flags) to
the configuration file given by --config, or the default location.

Examples:
  bcnt config init
  bcnt config init --lang ca --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := writeConfig(configPath(), flagForce)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(configPath())
	},
}

// configPath is the --config file, or the default location.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultPath()
}

// writeConfig saves cfg to path, refusing to replace a file unless force.
func writeConfig(path string, force bool) (string, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := cfg.Save(path); err != nil {
		return "", err
	}
	logger.Debug("config written", "path", path)
	return path, nil
}

// docCommand returns the command that renders one static page.
func docCommand(page string) *cobra.Command {
	return &cobra.Command{
		Use:   page,
		Short: fmt.Sprintf("Show the %s page", page),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := resolveLanguage()
			if flagRawJSON || flagJSON {
				src, err := docs.Source(page, lang)
				if err != nil {
					return err
				}
				return printJSON(map[string]string{"page": page, "language": lang, "markdown": src})
			}

			out, err := docs.Render(page, lang, version, docStyle(), 80)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
}

// docStyle maps the stored theme onto a glamour style.
func docStyle() string {
	if !output.IsTerminal() || output.ParseColorMode(flagColor) == output.ColorNever {
		return docs.StyleNoTTY
	}
	path := cfg.ResolvedPrefsPath()
	if _, err := os.Stat(path); err != nil {
		return docs.StyleDark
	}
	store, err := prefs.Open(path)
	if err != nil {
		return docs.StyleDark
	}
	defer func() { _ = store.Close() }()

	if mode, err := store.ThemeMode(); err == nil && mode == prefs.ThemeLight {
		return docs.StyleLight
	}
	return docs.StyleDark
}

// parseTarget reads epoch seconds or a duration relative to now.
func parseTarget(s string, now time.Time) (int64, error) {
	s = strings.TrimSpace(s)
	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
		return epoch, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid target %q: expected epoch seconds or a duration like 90s", s)
	}
	return now.Add(d).Unix(), nil
}

func runCountdown(cmd *cobra.Command, args []string) error {
	target, err := parseTarget(args[0], time.Now())
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	f := countdown.NewFormatter(locale.For(resolveLanguage()), loc)

	if flagJSON {
		return printJSON(f.Format(target, time.Now().Unix()))
	}

	ctx, stop := output.SignalContext(context.Background())
	defer stop()

	colors := getColors()
	output.HideCursor(os.Stdout)
	defer output.ShowCursor(os.Stdout)

	arrived := make(chan struct{})
	var once sync.Once
	h := countdown.NewTicker(f, nil).Start(ctx, target, func(d countdown.Display) {
		label := colors.Countdown("%s", d.Text)
		switch {
		case d.Urgent:
			label = colors.Urgent("%s", d.Text)
		case d.ShowExactTime:
			label = colors.Time("%s", d.Text)
		}
		_, _ = fmt.Fprintf(os.Stdout, "\r\033[K%s", label)
		if d.Remaining == 0 {
			once.Do(func() { close(arrived) })
		}
	})

	select {
	case <-arrived:
	case <-ctx.Done():
	}
	h.Cancel()
	fmt.Println()
	return nil
}

func openCache() (*cache.FileCache, error) {
	return cache.NewFileCache(cache.DefaultCacheDir(), cfg.CacheTTL)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	fc, err := openCache()
	if err != nil {
		return err
	}
	stats, err := fc.Stats()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(stats)
	}

	c := getColors()
	fmt.Printf("%-10s %s\n", "Directory", stats.Dir)
	fmt.Printf("%-10s %d (%d expired)\n", "Entries", stats.Entries, stats.Expired)
	fmt.Printf("%-10s %s\n", "Size", c.Muted("%.1f KiB", float64(stats.Bytes)/1024))
	fmt.Printf("%-10s %s\n", "TTL", fc.TTL())
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := []tui.Option{tui.WithLogger(logger)}

	store, err := openPrefs()
	if err != nil {
		logger.Warn("preferences unavailable", "err", err)
	} else {
		defer func() { _ = store.Close() }()
		maybeOnboard(store)
		opts = append(opts, tui.WithPrefs(store))
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	model := tui.New(client, opts...)
	defer func() { _ = model.Close() }()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// maybeOnboard shows the first-run form once, on interactive terminals.
func maybeOnboard(store *prefs.Store) {
	done, err := store.OnboardingCompleted()
	if err != nil || done || !output.IsTerminal() {
		return
	}

	ctx, stop := output.SignalContext(context.Background())
	defer stop()

	if _, err := startOnboarding(ctx); err != nil && !errors.Is(err, huh.ErrUserAborted) {
		logger.Warn("onboarding failed", "err", err)
	}
}
