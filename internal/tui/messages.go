package tui

import (
	"time"

	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/prefs"
)

// refreshTickMsg is sent every 30 seconds to reload the board.
type refreshTickMsg time.Time

// countdownTickMsg redraws countdown labels. seq is used for stale-tick
// detection.
type countdownTickMsg struct {
	seq int
}

// linesResultMsg carries the lines of a network.
type linesResultMsg struct {
	seq   int
	tt    models.TransportType
	lines []models.Line
	err   error
}

// stationsResultMsg carries line stations or search results.
// seq is used for stale-result detection.
type stationsResultMsg struct {
	seq      int
	stations []models.Station
	err      error
}

// routesResultMsg carries the board of one station.
type routesResultMsg struct {
	tt          models.TransportType
	stationCode string
	routes      []models.Route
	err         error
	fetched     time.Time
}

// favoritesResultMsg carries the user's favorites.
type favoritesResultMsg struct {
	favorites []models.Favorite
	err       error
}

// favoriteToggledMsg carries the reconciled state of a favorite toggle.
type favoriteToggledMsg struct {
	fav        models.Favorite
	isFavorite bool
	err        error
}

// prefsChangedMsg is sent when the preferences database changes on disk.
type prefsChangedMsg struct {
	language string
	theme    prefs.ThemeMode
	err      error
}
