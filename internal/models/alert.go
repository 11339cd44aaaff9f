package models

import (
	"strings"
	"time"

	"github.com/bcntransit/bcnt-cli/internal/locale"
)

// Alert is a service incident published for a network
type Alert struct {
	ID           string           `json:"id"`
	Begin        time.Time        `json:"begin,omitempty"`
	End          time.Time        `json:"end,omitempty"`
	Status       string           `json:"status,omitempty"`
	Cause        string           `json:"cause,omitempty"`
	Publications []Publication    `json:"publications"`
	Affected     []AffectedEntity `json:"affected"`
}

// Publication holds the localized texts of an alert
type Publication struct {
	HeaderES string `json:"header_es"`
	HeaderCA string `json:"header_ca"`
	HeaderEN string `json:"header_en"`
	TextES   string `json:"text_es"`
	TextCA   string `json:"text_ca"`
	TextEN   string `json:"text_en"`
}

// AffectedEntity is a line or station hit by an alert
type AffectedEntity struct {
	LineCode    string `json:"line_code,omitempty"`
	LineName    string `json:"line_name,omitempty"`
	StationCode string `json:"station_code,omitempty"`
	StationName string `json:"station_name,omitempty"`
	Direction   string `json:"direction,omitempty"`
}

// AlertResponse represents the raw JSON for an alert
type AlertResponse struct {
	ID               string           `json:"id"`
	BeginDate        string           `json:"begin_date"`
	EndDate          string           `json:"end_date"`
	Status           string           `json:"status"`
	Cause            string           `json:"cause"`
	Publications     []Publication    `json:"publications"`
	AffectedEntities []AffectedEntity `json:"affected_entities"`
}

// ToAlert converts the raw response to an Alert. Naive dates are read in
// loc; unparsable dates are left zero.
func (r *AlertResponse) ToAlert(loc *time.Location) *Alert {
	if loc == nil {
		loc = time.Local
	}
	a := &Alert{
		ID:           r.ID,
		Status:       r.Status,
		Cause:        r.Cause,
		Publications: r.Publications,
		Affected:     r.AffectedEntities,
	}
	if r.BeginDate != "" {
		if t, err := parseTime(r.BeginDate, loc); err == nil {
			a.Begin = t
		}
	}
	if r.EndDate != "" {
		if t, err := parseTime(r.EndDate, loc); err == nil {
			a.End = t
		}
	}
	return a
}

// Header returns the first publication's header in lang, falling back to
// Spanish.
func (a *Alert) Header(lang string) string {
	if len(a.Publications) == 0 {
		return ""
	}
	p := a.Publications[0]
	return pick(lang, p.HeaderES, p.HeaderCA, p.HeaderEN)
}

// Body returns the first publication's text in lang, falling back to
// Spanish.
func (a *Alert) Body(lang string) string {
	if len(a.Publications) == 0 {
		return ""
	}
	p := a.Publications[0]
	return pick(lang, p.TextES, p.TextCA, p.TextEN)
}

func pick(lang, es, ca, en string) string {
	var s string
	switch locale.Normalize(lang) {
	case "ca":
		s = ca
	case "en":
		s = en
	default:
		s = es
	}
	if strings.TrimSpace(s) == "" {
		return strings.TrimSpace(es)
	}
	return strings.TrimSpace(s)
}

// Affects reports whether the alert names the given line, matching code or
// name case-insensitively.
func (a *Alert) Affects(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, e := range a.Affected {
		if strings.EqualFold(e.LineCode, line) || strings.EqualFold(e.LineName, line) {
			return true
		}
	}
	return false
}

// AffectedStations returns the distinct non-empty station names in order.
func (a *Alert) AffectedStations() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range a.Affected {
		if e.StationName == "" || seen[e.StationName] {
			continue
		}
		seen[e.StationName] = true
		names = append(names, e.StationName)
	}
	return names
}

// IsActive reports whether now falls inside the alert window. Open ends
// count as unbounded.
func (a *Alert) IsActive(now time.Time) bool {
	if !a.Begin.IsZero() && now.Before(a.Begin) {
		return false
	}
	if !a.End.IsZero() && now.After(a.End) {
		return false
	}
	return true
}

// ActiveAlerts keeps the alerts whose window contains now, dropping
// expired and not yet started ones.
func ActiveAlerts(alerts []Alert, now time.Time) []Alert {
	var out []Alert
	for i := range alerts {
		if alerts[i].IsActive(now) {
			out = append(out, alerts[i])
		}
	}
	return out
}

// FilterAlerts keeps the alerts affecting line; an empty line keeps all.
func FilterAlerts(alerts []Alert, line string) []Alert {
	if strings.TrimSpace(line) == "" {
		return alerts
	}
	var out []Alert
	for _, a := range alerts {
		if a.Affects(line) {
			out = append(out, a)
		}
	}
	return out
}
