package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bcntransit/bcnt-cli/internal/api"
	"github.com/bcntransit/bcnt-cli/internal/countdown"
	"github.com/bcntransit/bcnt-cli/internal/favorites"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/prefs"
)

const (
	apiTimeout      = 5 * time.Second
	refreshInterval = 30 * time.Second
)

// refreshTick returns a tea.Cmd that sends a tick after the refresh interval.
func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// countdownTick returns a tea.Cmd that sends a redraw tick after d.
func countdownTick(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return countdownTickMsg{seq: seq}
	})
}

// nextRedraw returns the shortest countdown.NextInterval over the trips
// shown on the board. ok is false when no trip is shown.
func nextRedraw(routes []models.Route, now int64) (d time.Duration, ok bool) {
	for _, r := range routes {
		trips := r.Upcoming(now, 0)
		if len(trips) > boardTrips {
			trips = trips[:boardTrips]
		}
		for _, t := range trips {
			next := countdown.NextInterval(t.Arrival, now)
			if !ok || next < d {
				d, ok = next, true
			}
		}
	}
	return d, ok
}

// fetchLines returns a tea.Cmd that loads the lines of a network.
func fetchLines(client *api.Client, tt models.TransportType, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		lines, err := client.GetLines(ctx, tt)
		return linesResultMsg{seq: seq, tt: tt, lines: lines, err: err}
	}
}

// fetchStations returns a tea.Cmd that loads the stations of a line.
func fetchStations(client *api.Client, tt models.TransportType, lineCode string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		stations, err := client.GetStationsByLine(ctx, tt, lineCode)
		return stationsResultMsg{seq: seq, stations: stations, err: err}
	}
}

// searchStations returns a tea.Cmd that searches for stations.
func searchStations(client *api.Client, query string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		stations, err := client.SearchStations(ctx, query)
		if errors.Is(err, api.ErrNoResults) {
			// Shown as the empty list, not as a failure
			err = nil
		}
		return stationsResultMsg{seq: seq, stations: stations, err: err}
	}
}

// fetchRoutes returns a tea.Cmd that loads the board of a station.
func fetchRoutes(client *api.Client, station models.Station) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		routes, err := client.GetStationRoutes(ctx, station.TransportType, station.Code)
		return routesResultMsg{
			tt:          station.TransportType,
			stationCode: station.Code,
			routes:      routes,
			err:         err,
			fetched:     time.Now(),
		}
	}
}

// fetchFavorites returns a tea.Cmd that loads the user's favorites.
func fetchFavorites(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		favs, err := client.GetFavorites(ctx)
		return favoritesResultMsg{favorites: favs, err: err}
	}
}

// toggleFavorite returns a tea.Cmd that sends a favorite toggle and reports
// the reconciled state.
func toggleFavorite(svc favorites.Service, fav models.Favorite, current bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		state, err := favorites.Toggle(ctx, svc, fav, current)
		return favoriteToggledMsg{fav: fav, isFavorite: state, err: err}
	}
}

// waitForPrefsChange blocks until the preferences database changes and
// reports the stored language and theme.
func waitForPrefsChange(w *prefs.Watcher, store *prefs.Store) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		lang, err := store.Language()
		if err != nil {
			return prefsChangedMsg{err: err}
		}
		theme, err := store.ThemeMode()
		return prefsChangedMsg{language: lang, theme: theme, err: err}
	}
}
