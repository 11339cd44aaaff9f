package models

import (
	"sort"
	"strings"
	"time"
)

// Route is one direction of a line serving a station, with its upcoming
// trips ordered by arrival.
type Route struct {
	ID            string        `json:"id"`
	LineCode      string        `json:"lineCode"`
	LineName      string        `json:"lineName"`
	Color         string        `json:"color,omitempty"`
	Destination   string        `json:"destination"`
	TransportType TransportType `json:"transportType"`
	NextTrips     []NextTrip    `json:"nextTrips"`
}

// NextTrip is a predicted arrival at a station.
type NextTrip struct {
	ID           string `json:"id"`
	Arrival      int64  `json:"arrival"` // epoch seconds, delay included
	DelayMinutes int    `json:"delayMinutes"`
	Platform     string `json:"platform,omitempty"`
}

// RouteResponse represents the raw JSON for a route
type RouteResponse struct {
	RouteID       string `json:"route_id"`
	LineCode      string `json:"line_code"`
	LineName      string `json:"line_name"`
	LineColor     string `json:"color"`
	Destination   string `json:"destination"`
	TransportType string `json:"transport_type"`
	NextTrips     []struct {
		ID             string `json:"id"`
		ArrivalTime    int64  `json:"arrival_time"`
		DelayInMinutes int    `json:"delay_in_minutes"`
		Platform       string `json:"platform"`
	} `json:"next_trips"`
}

// ToRoute converts the raw response to a Route. Trips without an arrival
// time are dropped and the rest are sorted soonest first.
func (r *RouteResponse) ToRoute() *Route {
	route := &Route{
		ID:            r.RouteID,
		LineCode:      r.LineCode,
		LineName:      r.LineName,
		Color:         normalizeColor(r.LineColor),
		Destination:   r.Destination,
		TransportType: TransportType(strings.ToLower(r.TransportType)),
	}

	for _, t := range r.NextTrips {
		if t.ArrivalTime <= 0 {
			continue
		}
		route.NextTrips = append(route.NextTrips, NextTrip{
			ID:           t.ID,
			Arrival:      t.ArrivalTime,
			DelayMinutes: t.DelayInMinutes,
			Platform:     t.Platform,
		})
	}
	sort.SliceStable(route.NextTrips, func(i, j int) bool {
		return route.NextTrips[i].Arrival < route.NextTrips[j].Arrival
	})

	return route
}

// SoonestTrip returns the first upcoming trip, or nil if there is none.
func (r *Route) SoonestTrip() *NextTrip {
	if len(r.NextTrips) == 0 {
		return nil
	}
	return &r.NextTrips[0]
}

// Upcoming returns the trips that have not arrived more than grace seconds
// before now.
func (r *Route) Upcoming(now, grace int64) []NextTrip {
	out := make([]NextTrip, 0, len(r.NextTrips))
	for _, t := range r.NextTrips {
		if t.Arrival >= now-grace {
			out = append(out, t)
		}
	}
	return out
}

// ArrivalTime returns the predicted arrival as a time.Time in loc.
func (t NextTrip) ArrivalTime(loc *time.Location) time.Time {
	return time.Unix(t.Arrival, 0).In(loc)
}

// PlannedTime returns the scheduled arrival in epoch seconds.
func (t NextTrip) PlannedTime() int64 {
	return t.Arrival - int64(t.DelayMinutes)*60
}

// IsDelayed reports whether the prediction differs from the schedule.
func (t NextTrip) IsDelayed() bool {
	return t.DelayMinutes != 0
}

// SortRoutes orders routes by their soonest trip; routes with no trips go
// last, keeping their relative order.
func SortRoutes(routes []Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i].SoonestTrip(), routes[j].SoonestTrip()
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Arrival < b.Arrival
	})
}
