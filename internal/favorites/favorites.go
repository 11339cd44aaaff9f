// Package favorites reconciles optimistic favorite and notification toggles
// with the backend.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/bcntransit/bcnt-cli/internal/models"
)

// ErrRejected is returned when the backend answers a toggle with false.
var ErrRejected = errors.New("rejected by server")

// Service is the subset of the API client used for favorites.
type Service interface {
	AddFavorite(ctx context.Context, fav models.Favorite) (bool, error)
	DeleteFavorite(ctx context.Context, tt, itemID string) (bool, error)
}

// NotificationService is the subset of the API client used for alerts
// subscription.
type NotificationService interface {
	ToggleNotifications(ctx context.Context, enabled bool) (bool, error)
}

// Toggle flips the favorite state of fav. current is the state shown to the
// user before the flip. On success the new state is returned; on failure
// the original state is returned with an error so the caller can revert
// its optimistic update.
func Toggle(ctx context.Context, svc Service, fav models.Favorite, current bool) (bool, error) {
	var (
		ok  bool
		err error
	)
	if current {
		ok, err = svc.DeleteFavorite(ctx, fav.Type, fav.StationCode)
	} else {
		ok, err = svc.AddFavorite(ctx, fav)
	}

	if err != nil {
		return current, fmt.Errorf("toggle favorite %s: %w", fav.Key(), err)
	}
	if !ok {
		return current, fmt.Errorf("toggle favorite %s: %w", fav.Key(), ErrRejected)
	}
	return !current, nil
}

// ToggleNotifications flips the alerts subscription with the same revert
// rule as Toggle.
func ToggleNotifications(ctx context.Context, svc NotificationService, current bool) (bool, error) {
	ok, err := svc.ToggleNotifications(ctx, !current)
	if err != nil {
		return current, fmt.Errorf("toggle notifications: %w", err)
	}
	if !ok {
		return current, fmt.Errorf("toggle notifications: %w", ErrRejected)
	}
	return !current, nil
}

// Group is the favorites of one network.
type Group struct {
	Type      models.TransportType
	Favorites []models.Favorite
}

// GroupByType groups favorites by transport type. Groups keep the order in
// which their type first appears, and favorites keep their relative order.
func GroupByType(favs []models.Favorite) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, f := range favs {
		i, ok := index[f.Type]
		if !ok {
			i = len(groups)
			index[f.Type] = i
			groups = append(groups, Group{Type: models.TransportType(f.Type)})
		}
		groups[i].Favorites = append(groups[i].Favorites, f)
	}
	return groups
}

// Set tracks favorite keys for quick membership checks.
type Set map[string]bool

// NewSet builds a set from favorites.
func NewSet(favs []models.Favorite) Set {
	s := make(Set, len(favs))
	for _, f := range favs {
		s[f.Key()] = true
	}
	return s
}

// Has reports whether the station of network tt is a favorite.
func (s Set) Has(tt models.TransportType, stationCode string) bool {
	return s[models.Favorite{Type: string(tt), StationCode: stationCode}.Key()]
}

// Apply records a favorite's new state.
func (s Set) Apply(fav models.Favorite, isFavorite bool) {
	if isFavorite {
		s[fav.Key()] = true
	} else {
		delete(s, fav.Key())
	}
}
