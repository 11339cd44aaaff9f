package models

import (
	"strings"
	"testing"
	"time"
)

func TestParseTransportType(t *testing.T) {
	tests := []struct {
		input   string
		want    TransportType
		wantErr bool
	}{
		{"metro", Metro, false},
		{"BUS", Bus, false},
		{" Rodalies ", Rodalies, false},
		{"fgc", FGC, false},
		{"bicing", Bicing, false},
		{"ferry", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransportType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTransportType(%q) expected error", tt.input)
				}
				if !strings.Contains(err.Error(), "metro, bus") {
					t.Errorf("error should list valid types, got %q", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportType_HasLines(t *testing.T) {
	for _, tt := range TransportTypes {
		want := tt != Bicing
		if got := tt.HasLines(); got != want {
			t.Errorf("%s.HasLines() = %v, want %v", tt, got, want)
		}
	}
	if TransportType("").HasLines() {
		t.Error("empty type should not have lines")
	}
}

func TestTransportType_Label(t *testing.T) {
	if got := FGC.Label(); got != "FGC" {
		t.Errorf("FGC.Label() = %q", got)
	}
	if got := TransportType("ferry").Label(); got != "ferry" {
		t.Errorf("unknown label = %q", got)
	}
}

func TestParseTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("Failed to load timezone: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"naive", "2025-01-15T10:00:00", time.Date(2025, 1, 15, 10, 0, 0, 0, loc)},
		{"space separated", "2025-01-15 10:00:00", time.Date(2025, 1, 15, 10, 0, 0, 0, loc)},
		{"fractional", "2025-01-15T10:00:00.123456", time.Date(2025, 1, 15, 10, 0, 0, 0, loc)},
		{"date only", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, loc)},
		{"with offset", "2025-01-15T09:00:00Z", time.Date(2025, 1, 15, 10, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input, loc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := parseTime("yesterday", loc); err == nil {
		t.Error("expected error for garbage input")
	}
}
