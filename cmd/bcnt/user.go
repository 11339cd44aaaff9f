package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bcntransit/bcnt-cli/internal/countdown"
	"github.com/bcntransit/bcnt-cli/internal/favorites"
	"github.com/bcntransit/bcnt-cli/internal/locale"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/onboarding"
	"github.com/bcntransit/bcnt-cli/internal/output"
)

// Favorites add flags
var (
	flagFavName string
	flagFavLine string
)

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesCheckCmd)
	rootCmd.AddCommand(favoritesCmd)

	notificationsCmd.AddCommand(notificationsStatusCmd)
	notificationsCmd.AddCommand(notificationsOnCmd)
	notificationsCmd.AddCommand(notificationsOffCmd)
	rootCmd.AddCommand(notificationsCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(onboardingCmd)

	favoritesAddCmd.Flags().StringVar(&flagFavName, "name", "", "Station name shown in the list")
	favoritesAddCmd.Flags().StringVar(&flagFavLine, "line", "", "Line code of the station")
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite stations",
	Long: `Manage the favorite stations stored on the backend. Favorites are
shared with the mobile app for the same account.`,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites grouped by network",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <type> <station>",
	Short: "Add a station to favorites",
	Long: `Add a station to favorites.

Example:
  bcnt favorites add metro 127 --name Catalunya --line 1`,
	Args: cobra.ExactArgs(2),
	RunE: runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <type> <station>",
	Aliases: []string{"rm"},
	Short:   "Remove a station from favorites",
	Args:    cobra.ExactArgs(2),
	RunE:    runFavoritesRemove,
}

var favoritesCheckCmd = &cobra.Command{
	Use:   "check <type> <station>",
	Short: "Tell whether a station is a favorite",
	Args:  cobra.ExactArgs(2),
	RunE:  runFavoritesCheck,
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Manage service alert notifications",
}

var notificationsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether alert notifications are enabled",
	Args:  cobra.NoArgs,
	RunE:  runNotificationsStatus,
}

var notificationsOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable alert notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotificationsSet(true)
	},
}

var notificationsOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable alert notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotificationsSet(false)
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change local preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show local preferences",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a local preference",
	Long: `Change a local preference. A running TUI picks up language and
theme changes immediately.

Keys:
  language     es, ca or en
  theme        light, dark or system
  onboarding   true or false

Examples:
  bcnt settings set language ca
  bcnt settings set theme dark`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register this device with the backend",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Choose language, theme and notifications",
	Args:  cobra.NoArgs,
	RunE:  runOnboarding,
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		raw, err := client.GetFavoritesRaw(ctx)
		if err != nil {
			return userError(err)
		}
		return printPrettyJSON(raw)
	}

	favs, err := client.GetFavorites(ctx)
	if err != nil {
		return userError(err)
	}

	if flagJSON {
		return printJSON(favs)
	}

	output.RenderFavorites(os.Stdout, favorites.GroupByType(favs), tableOptions(client))
	return nil
}

// favoriteArg builds the favorite payload from the type and station args.
func favoriteArg(typeArg, code string) (models.Favorite, error) {
	tt, err := models.ParseTransportType(typeArg)
	if err != nil {
		return models.Favorite{}, err
	}
	st := models.Station{
		Code:          code,
		Name:          flagFavName,
		TransportType: tt,
		LineCode:      flagFavLine,
	}
	if st.Name == "" {
		st.Name = code
	}
	return st.ToFavorite(), nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	return setFavorite(args, true)
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	return setFavorite(args, false)
}

// setFavorite adds or removes a favorite and reports the resulting state.
func setFavorite(args []string, want bool) error {
	ctx := context.Background()

	fav, err := favoriteArg(args[0], args[1])
	if err != nil {
		return err
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	state, err := favorites.Toggle(ctx, client, fav, !want)
	if err != nil {
		return userError(err)
	}

	if flagJSON {
		return printJSON(map[string]interface{}{"key": fav.Key(), "favorite": state})
	}

	s := locale.For(client.Language())
	msg := s.FavoriteDeleted
	if state {
		msg = s.FavoriteAdded
	}
	fmt.Println(getColors().Header(msg))
	return nil
}

func runFavoritesCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fav, err := favoriteArg(args[0], args[1])
	if err != nil {
		return err
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	exists, err := client.HasFavorite(ctx, fav.Type, fav.StationCode)
	if err != nil {
		return userError(err)
	}

	if flagJSON {
		return printJSON(map[string]interface{}{"key": fav.Key(), "favorite": exists})
	}

	if exists {
		fmt.Println("yes")
	} else {
		fmt.Println("no")
	}
	return nil
}

func runNotificationsStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		raw, err := client.GetNotificationsConfigurationRaw(ctx)
		if err != nil {
			return userError(err)
		}
		return printPrettyJSON(raw)
	}

	enabled, err := client.GetNotificationsConfiguration(ctx)
	if err != nil {
		return userError(err)
	}

	if flagJSON {
		return printJSON(map[string]bool{"enabled": enabled})
	}

	output.RenderNotifications(os.Stdout, enabled, tableOptions(client))
	return nil
}

func runNotificationsSet(want bool) error {
	ctx := context.Background()

	client, err := createClient()
	if err != nil {
		return err
	}

	enabled, err := favorites.ToggleNotifications(ctx, client, !want)
	if err != nil {
		return userError(err)
	}

	if flagJSON {
		return printJSON(map[string]bool{"enabled": enabled})
	}

	output.RenderNotifications(os.Stdout, enabled, tableOptions(client))
	return nil
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p, err := store.Snapshot()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(p)
	}

	lang := cfg.Language
	if lang == "" {
		lang = p.Language
	}
	output.RenderSettings(os.Stdout, p, output.TableOptions{
		Colors:    getColors(),
		Formatter: countdown.NewFormatter(locale.For(lang), nil),
	})
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SetByName(args[0], args[1]); err != nil {
		return err
	}
	logger.Debug("setting stored", "key", args[0], "value", args[1])
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := openPrefs()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.DeviceID()
	if err != nil {
		return err
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	ok, err := client.RegisterUser(ctx, models.RegisterRequest{FCMToken: id})
	if err != nil {
		return userError(err)
	}
	if !ok {
		return fmt.Errorf("registration %w", favorites.ErrRejected)
	}

	if flagJSON {
		return printJSON(map[string]string{"deviceId": id})
	}
	fmt.Printf("Registered device %s\n", id)
	return nil
}

func runOnboarding(cmd *cobra.Command, args []string) error {
	ctx, stop := output.SignalContext(context.Background())
	defer stop()

	a, err := startOnboarding(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s · %s\n", locale.Name(a.Language), a.Theme)
	return nil
}

// startOnboarding runs the first-run form against the stored preferences
// and registers the device.
func startOnboarding(ctx context.Context) (onboarding.Answers, error) {
	store, err := openPrefs()
	if err != nil {
		return onboarding.Answers{}, err
	}
	defer func() { _ = store.Close() }()

	current, err := store.Snapshot()
	if err != nil {
		return onboarding.Answers{}, err
	}

	client, err := createClient()
	if err != nil {
		return onboarding.Answers{}, err
	}

	return onboarding.Run(ctx, store, client, current, logger)
}
