// Package onboarding runs the first-run form.
package onboarding

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/bcntransit/bcnt-cli/internal/locale"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/prefs"
)

// Answers holds the choices made in the form.
type Answers struct {
	Language      string
	Theme         prefs.ThemeMode
	Notifications bool
}

// Store is the subset of the preferences store written by onboarding.
type Store interface {
	SetLanguage(lang string) error
	SetThemeMode(m prefs.ThemeMode) error
	SetOnboardingCompleted(done bool) error
	DeviceID() (string, error)
}

// Backend is the subset of the API client used to register the device.
type Backend interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (bool, error)
	ToggleNotifications(ctx context.Context, enabled bool) (bool, error)
}

// Defaults seeds the form from stored preferences.
func Defaults(p prefs.Prefs) Answers {
	lang := p.Language
	if lang == "" {
		lang = locale.Default
	}
	theme := p.ThemeMode
	if theme == "" {
		theme = prefs.ThemeSystem
	}
	return Answers{Language: lang, Theme: theme, Notifications: true}
}

// Form builds the huh form bound to a.
func Form(a *Answers) *huh.Form {
	langOpts := make([]huh.Option[string], 0, len(locale.Supported()))
	for _, code := range locale.Supported() {
		langOpts = append(langOpts, huh.NewOption(locale.Name(code), code))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("bcnt").
				Description("Barcelona transit arrivals in your terminal"),
			huh.NewSelect[string]().
				Title("Language").
				Options(langOpts...).
				Value(&a.Language),
			huh.NewSelect[prefs.ThemeMode]().
				Title("Theme").
				Options(
					huh.NewOption("System", prefs.ThemeSystem),
					huh.NewOption("Dark", prefs.ThemeDark),
					huh.NewOption("Light", prefs.ThemeLight),
				).
				Value(&a.Theme),
			huh.NewConfirm().
				Title("Service alerts").
				Description("Receive notifications about incidents on your lines").
				Affirmative("Yes").
				Negative("No").
				Value(&a.Notifications),
		),
	)
}

// Apply stores the answers, registers the device and marks onboarding as
// completed. Registration failures are logged and do not block completion;
// the device registers again on the next run of onboarding.
func Apply(ctx context.Context, store Store, backend Backend, a Answers, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := store.SetLanguage(a.Language); err != nil {
		return err
	}
	if err := store.SetThemeMode(a.Theme); err != nil {
		return err
	}

	id, err := store.DeviceID()
	if err != nil {
		return fmt.Errorf("device id: %w", err)
	}

	if backend != nil {
		if _, err := backend.RegisterUser(ctx, models.RegisterRequest{FCMToken: id}); err != nil {
			logger.Warn("device registration failed", "err", err)
		} else if _, err := backend.ToggleNotifications(ctx, a.Notifications); err != nil {
			logger.Warn("notification preference not saved", "err", err)
		}
	}

	return store.SetOnboardingCompleted(true)
}

// Run shows the form seeded from current and applies the answers.
func Run(ctx context.Context, store Store, backend Backend, current prefs.Prefs, logger *log.Logger) (Answers, error) {
	a := Defaults(current)
	if err := Form(&a).RunWithContext(ctx); err != nil {
		return a, err
	}
	return a, Apply(ctx, store, backend, a, logger)
}
