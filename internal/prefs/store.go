// Package prefs stores local user preferences in SQLite.
package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bcntransit/bcnt-cli/internal/locale"
)

// Setting keys
const (
	KeyLanguage   = "language"
	KeyThemeMode  = "theme_mode"
	KeyOnboarding = "onboarding_completed"
	KeyDeviceID   = "device_id"
)

// ThemeMode selects the color palette
type ThemeMode string

const (
	ThemeLight  ThemeMode = "LIGHT"
	ThemeDark   ThemeMode = "DARK"
	ThemeSystem ThemeMode = "SYSTEM"
)

// ParseThemeMode parses a theme name (case-insensitive)
func ParseThemeMode(s string) (ThemeMode, error) {
	switch m := ThemeMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ThemeLight, ThemeDark, ThemeSystem:
		return m, nil
	}
	return "", fmt.Errorf("unknown theme %q (expected light, dark or system)", s)
}

// Prefs is a snapshot of all preferences
type Prefs struct {
	Language            string    `json:"language"`
	ThemeMode           ThemeMode `json:"themeMode"`
	OnboardingCompleted bool      `json:"onboardingCompleted"`
	DeviceID            string    `json:"deviceId"`
}

// Store wraps the preferences database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the preferences database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create prefs directory: %w", err)
	}

	// Busy timeout covers a CLI writing while the TUI reads
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate prefs: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns a setting, or "" when unset.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// Set stores a setting.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// Language returns the UI language, falling back to Spanish.
func (s *Store) Language() (string, error) {
	v, err := s.Get(KeyLanguage)
	if err != nil {
		return locale.Default, err
	}
	return locale.Normalize(v), nil
}

// SetLanguage stores a supported language code.
func (s *Store) SetLanguage(lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !locale.IsSupported(lang) {
		return fmt.Errorf("unsupported language %q (expected one of: %s)", lang, strings.Join(locale.Supported(), ", "))
	}
	return s.Set(KeyLanguage, lang)
}

// ThemeMode returns the stored theme, SYSTEM when unset.
func (s *Store) ThemeMode() (ThemeMode, error) {
	v, err := s.Get(KeyThemeMode)
	if err != nil || v == "" {
		return ThemeSystem, err
	}
	m, perr := ParseThemeMode(v)
	if perr != nil {
		return ThemeSystem, nil
	}
	return m, nil
}

// SetThemeMode stores the theme.
func (s *Store) SetThemeMode(m ThemeMode) error {
	if _, err := ParseThemeMode(string(m)); err != nil {
		return err
	}
	return s.Set(KeyThemeMode, string(m))
}

// OnboardingCompleted reports whether the first-run form was completed.
func (s *Store) OnboardingCompleted() (bool, error) {
	v, err := s.Get(KeyOnboarding)
	if err != nil || v == "" {
		return false, err
	}
	done, _ := strconv.ParseBool(v)
	return done, nil
}

// SetOnboardingCompleted records the first-run form state.
func (s *Store) SetOnboardingCompleted(done bool) error {
	return s.Set(KeyOnboarding, strconv.FormatBool(done))
}

// DeviceID returns the identifier of this installation, creating it on
// first use.
func (s *Store) DeviceID() (string, error) {
	v, err := s.Get(KeyDeviceID)
	if err != nil {
		return "", err
	}
	if v != "" {
		return v, nil
	}

	id := uuid.NewString()
	// A concurrent first run may have won; keep whichever id landed first
	if _, err := s.db.Exec("INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("store device id: %w", err)
	}
	return s.Get(KeyDeviceID)
}

// Snapshot reads every preference.
func (s *Store) Snapshot() (Prefs, error) {
	var p Prefs
	var err error
	if p.Language, err = s.Language(); err != nil {
		return p, err
	}
	if p.ThemeMode, err = s.ThemeMode(); err != nil {
		return p, err
	}
	if p.OnboardingCompleted, err = s.OnboardingCompleted(); err != nil {
		return p, err
	}
	if p.DeviceID, err = s.DeviceID(); err != nil {
		return p, err
	}
	return p, nil
}

// SetByName applies a user-facing setting name, as used by the CLI.
func (s *Store) SetByName(name, value string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "language", "lang":
		return s.SetLanguage(value)
	case "theme", "theme_mode":
		m, err := ParseThemeMode(value)
		if err != nil {
			return err
		}
		return s.SetThemeMode(m)
	case "onboarding", "onboarding_completed":
		done, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		return s.SetOnboardingCompleted(done)
	}
	return fmt.Errorf("unknown setting %q (expected language, theme or onboarding)", name)
}
