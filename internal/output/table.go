package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bcntransit/bcnt-cli/internal/countdown"
	"github.com/bcntransit/bcnt-cli/internal/favorites"
	"github.com/bcntransit/bcnt-cli/internal/locale"
	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/prefs"
)

// DepartedGrace keeps a trip on the board for this many seconds after its
// predicted arrival, showing the arriving label.
const DepartedGrace int64 = 60

// TableOptions configures the table output
type TableOptions struct {
	Colors    *Colors
	Formatter *countdown.Formatter
	// Now is the reference instant in epoch seconds; zero means the
	// current time.
	Now int64
	// MaxTrips limits the trips shown per route; zero shows all.
	MaxTrips int
}

func (o TableOptions) colors() *Colors {
	if o.Colors == nil {
		return NewColors(ColorNever)
	}
	return o.Colors
}

func (o TableOptions) formatter() *countdown.Formatter {
	if o.Formatter == nil {
		return countdown.NewFormatter(locale.For(locale.Default), nil)
	}
	return o.Formatter
}

func (o TableOptions) now() int64 {
	if o.Now == 0 {
		return time.Now().Unix()
	}
	return o.Now
}

// RenderLines renders the lines of a network
func RenderLines(w io.Writer, lines []models.Line, opts TableOptions) {
	c := opts.colors()
	s := opts.formatter().Strings()

	if len(lines) == 0 {
		_, _ = fmt.Fprintln(w, s.NoResults)
		return
	}

	_, _ = fmt.Fprintln(w, c.Header("%s (%s)", s.Lines, lines[0].TransportType.Label()))
	_, _ = fmt.Fprintln(w)

	for _, l := range lines {
		name := l.Name
		if name == "" {
			name = l.Code
		}
		alert := ""
		if l.HasAlerts {
			alert = " " + c.Alert("⚠")
		}
		_, _ = fmt.Fprintf(w, "  %s %s%s\n", c.Line("%-8s", name), l.Description, alert)
		if l.Code != name {
			_, _ = fmt.Fprintf(w, "  %s %s\n", strings.Repeat(" ", 8), c.Muted("code %s", l.Code))
		}
	}
}

// RenderStations renders stations of a line or search results. Results
// from several networks show their network and line.
func RenderStations(w io.Writer, stations []models.Station, opts TableOptions) {
	c := opts.colors()
	s := opts.formatter().Strings()

	if len(stations) == 0 {
		_, _ = fmt.Fprintln(w, s.NoResults)
		return
	}

	_, _ = fmt.Fprintln(w, c.Header(s.Stations))
	_, _ = fmt.Fprintln(w)

	for _, st := range stations {
		alert := ""
		if st.HasAlerts {
			alert = " " + c.Alert("⚠")
		}
		_, _ = fmt.Fprintf(w, "  %s %s%s\n", c.Muted("%-8s", st.Code), c.Dest(st.Name), alert)

		var meta []string
		if st.TransportType != "" {
			meta = append(meta, st.TransportType.Label())
		}
		if st.LineName != "" {
			meta = append(meta, st.LineName)
		}
		if len(meta) > 0 {
			_, _ = fmt.Fprintf(w, "  %s %s\n", strings.Repeat(" ", 8), c.Muted(strings.Join(meta, " · ")))
		}
	}
}

// RenderRoutes renders the next trips of each route with countdown labels.
// The soonest trip of a route is highlighted when it is about to arrive.
func RenderRoutes(w io.Writer, routes []models.Route, opts TableOptions) {
	c := opts.colors()
	f := opts.formatter()
	s := f.Strings()
	now := opts.now()

	if len(routes) == 0 {
		_, _ = fmt.Fprintln(w, s.NoNextTrips)
		return
	}

	for i, r := range routes {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s → %s\n", c.Line(r.LineName), c.Dest(r.Destination))

		trips := r.Upcoming(now, DepartedGrace)
		if len(trips) == 0 {
			_, _ = fmt.Fprintf(w, "    %s\n", c.Muted(s.NoNextTrips))
			continue
		}
		if opts.MaxTrips > 0 && len(trips) > opts.MaxTrips {
			trips = trips[:opts.MaxTrips]
		}

		for j, trip := range trips {
			_, _ = fmt.Fprintf(w, "    %s\n", formatTrip(c, f, trip, now, j == 0))
		}
	}
}

func formatTrip(c *Colors, f *countdown.Formatter, trip models.NextTrip, now int64, first bool) string {
	d := f.Format(trip.Arrival, now)

	var label string
	switch {
	case first && d.Urgent:
		label = c.Urgent("%-12s", d.Text)
	case d.ShowExactTime:
		label = c.Time("%-12s", d.Text)
	default:
		label = c.Countdown("%-12s", d.Text)
	}

	parts := []string{label}
	if trip.IsDelayed() {
		planned := clock(trip.PlannedTime(), f.Location())
		actual := clock(trip.Arrival, f.Location())
		parts = append(parts, fmt.Sprintf("%s → %s %s", c.Muted(planned), c.Time(actual), c.FormatDelay(trip.DelayMinutes)))
	}
	if trip.Platform != "" {
		parts = append(parts, c.Platform("%s %s", f.Strings().Platform, trip.Platform))
	}
	return strings.Join(parts, "  ")
}

func clock(epoch int64, loc *time.Location) string {
	return time.Unix(epoch, 0).In(loc).Format("15:04")
}

// RenderStationDetail renders the connections and street accesses of a
// station. station may be nil when only the code is known.
func RenderStationDetail(w io.Writer, station *models.Station, conns []models.Connection, accesses []models.Access, opts TableOptions) {
	c := opts.colors()
	s := opts.formatter().Strings()

	if station != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n", c.Header(station.Name), c.Muted("(%s)", station.Code))
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, c.Header(s.Connections))
	if len(conns) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", c.Muted(s.NoResults))
	}
	for _, conn := range conns {
		desc := conn.Description
		if conn.TransportType != "" {
			desc = strings.TrimSpace(conn.TransportType.Label() + " " + desc)
		}
		_, _ = fmt.Fprintf(w, "  %s %s\n", c.Line("%-8s", conn.LineName), desc)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, c.Header(s.Accesses))
	if len(accesses) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", c.Muted(s.NoResults))
	}
	for _, a := range accesses {
		elevator := ""
		if a.HasElevator() {
			elevator = "  " + c.OnTime("♿ %s", s.Elevator)
		}
		_, _ = fmt.Fprintf(w, "  %s%s\n", a.Name, elevator)
	}
}

// RenderAlerts renders service alerts in the formatter language. No alerts
// renders the normal service card.
func RenderAlerts(w io.Writer, alerts []models.Alert, opts TableOptions) {
	c := opts.colors()
	f := opts.formatter()
	s := f.Strings()

	_, _ = fmt.Fprintln(w, c.Header(s.ServiceStatus))
	_, _ = fmt.Fprintln(w)

	if len(alerts) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", c.OnTime("✓ %s", s.NormalService))
		_, _ = fmt.Fprintf(w, "  %s\n", c.Muted(s.NoIncidents))
		return
	}

	for i, a := range alerts {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		header := a.Header(s.Lang)
		if header == "" {
			header = a.Cause
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", c.Alert("⚠"), c.Alert(header))

		if body := a.Body(s.Lang); body != "" {
			for _, line := range strings.Split(body, "\n") {
				_, _ = fmt.Fprintf(w, "  %s\n", line)
			}
		}
		if a.Cause != "" && a.Cause != header {
			_, _ = fmt.Fprintf(w, "  %s\n", c.Muted(a.Cause))
		}
		if stations := a.AffectedStations(); len(stations) > 0 {
			_, _ = fmt.Fprintf(w, "  %s\n", c.Muted(strings.Join(stations, ", ")))
		}
		if window := alertWindow(a, f.Location()); window != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", c.Muted(window))
		}
	}
}

func alertWindow(a models.Alert, loc *time.Location) string {
	const layout = "02/01 15:04"
	switch {
	case a.Begin.IsZero() && a.End.IsZero():
		return ""
	case a.End.IsZero():
		return a.Begin.In(loc).Format(layout) + " →"
	case a.Begin.IsZero():
		return "→ " + a.End.In(loc).Format(layout)
	}
	return a.Begin.In(loc).Format(layout) + " → " + a.End.In(loc).Format(layout)
}

// RenderBicing renders the availability of a bike-share dock
func RenderBicing(w io.Writer, b *models.BicingStation, opts TableOptions) {
	c := opts.colors()
	s := opts.formatter().Strings()

	if b == nil {
		_, _ = fmt.Fprintln(w, s.NoResults)
		return
	}

	_, _ = fmt.Fprintf(w, "%s %s\n", c.Header(b.Street), c.Muted("(%s)", b.ID))
	if !b.InService() {
		_, _ = fmt.Fprintf(w, "  %s\n", c.Alert(s.OutOfService))
		return
	}

	_, _ = fmt.Fprintf(w, "  %-16s %s\n", s.Bikes, c.Countdown("%d", b.Bikes()))
	_, _ = fmt.Fprintf(w, "  %-16s %d\n", "  "+s.Electric, b.ElectricalBikes)
	_, _ = fmt.Fprintf(w, "  %-16s %d\n", s.FreeSlots, b.Slots)
}

// RenderFavorites renders favorites grouped by network
func RenderFavorites(w io.Writer, groups []favorites.Group, opts TableOptions) {
	c := opts.colors()
	s := opts.formatter().Strings()

	if len(groups) == 0 {
		_, _ = fmt.Fprintln(w, s.FavoritesEmpty)
		return
	}

	_, _ = fmt.Fprintln(w, c.Header(s.Favorites))
	for _, g := range groups {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, c.Header(g.Type.Label()))
		for _, fav := range g.Favorites {
			_, _ = fmt.Fprintf(w, "  ★ %s %s %s\n",
				c.Dest(fav.StationName),
				c.Line(fav.DisplayLine()),
				c.Muted("(%s)", fav.StationCode),
			)
		}
	}
}

// RenderSearchHistory renders recent search terms, newest first
func RenderSearchHistory(w io.Writer, entries []string, opts TableOptions) {
	c := opts.colors()
	s := opts.formatter().Strings()

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, s.NoResults)
		return
	}

	_, _ = fmt.Fprintln(w, c.Header(s.History))
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "  %s\n", e)
	}
}

// RenderNotifications renders the alert subscription state
func RenderNotifications(w io.Writer, enabled bool, opts TableOptions) {
	c := opts.colors()
	s := opts.formatter().Strings()

	if enabled {
		_, _ = fmt.Fprintln(w, c.OnTime("🔔 %s", s.NotificationsOn))
		return
	}
	_, _ = fmt.Fprintln(w, c.Muted("🔕 %s", s.NotificationsOff))
}

// RenderSettings renders local preferences as a key/value list
func RenderSettings(w io.Writer, p prefs.Prefs, opts TableOptions) {
	c := opts.colors()

	onboarding := "pending"
	if p.OnboardingCompleted {
		onboarding = "completed"
	}

	rows := [][2]string{
		{"language", fmt.Sprintf("%s (%s)", p.Language, locale.Name(p.Language))},
		{"theme", strings.ToLower(string(p.ThemeMode))},
		{"onboarding", onboarding},
		{"device id", p.DeviceID},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s %s\n", c.Muted("%-12s", r[0]), r[1])
	}
}
