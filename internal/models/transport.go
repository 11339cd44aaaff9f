package models

import (
	"fmt"
	"strings"
	"time"
)

// TransportType identifies one of the transit networks served by the API.
type TransportType string

const (
	Metro    TransportType = "metro"
	Bus      TransportType = "bus"
	Tram     TransportType = "tram"
	Rodalies TransportType = "rodalies"
	FGC      TransportType = "fgc"
	Bicing   TransportType = "bicing"
)

// TransportTypes lists all networks in menu order.
var TransportTypes = []TransportType{Metro, Bus, Tram, Rodalies, FGC, Bicing}

// ParseTransportType parses a transport type name (case-insensitive).
func ParseTransportType(s string) (TransportType, error) {
	t := TransportType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range TransportTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transport type %q (expected one of: %s)", s, transportTypeList())
}

// HasLines reports whether the network is organized in lines. Bike-share
// stations are not.
func (t TransportType) HasLines() bool {
	return t != Bicing && t != ""
}

// Label returns the short display label of the network.
func (t TransportType) Label() string {
	switch t {
	case Metro:
		return "Metro"
	case Bus:
		return "Bus"
	case Tram:
		return "Tram"
	case Rodalies:
		return "Rodalies"
	case FGC:
		return "FGC"
	case Bicing:
		return "Bicing"
	}
	return string(t)
}

func transportTypeList() string {
	names := make([]string, len(TransportTypes))
	for i, t := range TransportTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// parseTime parses the timestamps used by the API. Values carrying an
// offset are honored; naive values are read in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	if idx := strings.IndexByte(s, '.'); idx > 0 {
		s = s[:idx]
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
