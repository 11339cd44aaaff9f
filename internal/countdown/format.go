// Package countdown turns predicted arrival instants into the labels shown
// next to each upcoming trip, and keeps those labels fresh while they are
// on screen.
//
// A label is one of three things depending on how far away the arrival is:
// the wall-clock time when it is more than an hour away, the fixed
// "arriving" text when it is 40 seconds away or less, and a
// minutes/seconds countdown in between.
package countdown

import (
	"fmt"
	"math"
	"time"

	"github.com/bcntransit/bcnt-cli/internal/locale"
)

// Thresholds in seconds.
const (
	ExactTimeThreshold int64 = 3600
	ArrivingThreshold  int64 = 40
	UrgentThreshold    int64 = 60
)

// Display is the formatted state of one countdown.
type Display struct {
	Text          string `json:"text"`
	ShowExactTime bool   `json:"showExactTime"`
	Urgent        bool   `json:"urgent"`
	Remaining     int64  `json:"remaining"` // seconds, never negative
}

// Formatter formats arrival instants for one language and display timezone.
type Formatter struct {
	strings locale.Strings
	loc     *time.Location
}

// NewFormatter creates a formatter. A nil location means time.Local.
func NewFormatter(s locale.Strings, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{strings: s, loc: loc}
}

var defaultFormatter = NewFormatter(locale.For(locale.Default), nil)

// Format formats target relative to now with the default language and
// the local timezone.
func Format(target, now int64) Display {
	return defaultFormatter.Format(target, now)
}

// Format returns the label for an arrival at target (epoch seconds) as
// seen at now (epoch seconds). Targets in the past are treated as zero
// seconds away.
func (f *Formatter) Format(target, now int64) Display {
	diff := secondsUntil(target, now)
	if diff < 0 {
		diff = 0
	}

	d := Display{
		Remaining: diff,
		Urgent:    diff < UrgentThreshold,
	}

	switch {
	case diff > ExactTimeThreshold:
		d.Text = f.exactTime(target, now)
		d.ShowExactTime = true
	case diff <= ArrivingThreshold:
		d.Text = f.strings.Arriving
	default:
		minutes, seconds := diff/60, diff%60
		if minutes > 0 {
			d.Text = fmt.Sprintf("%d min %ds", minutes, seconds)
		} else {
			d.Text = fmt.Sprintf("%ds", seconds)
		}
	}

	return d
}

// secondsUntil returns target - now, saturated at the int64 limits.
func secondsUntil(target, now int64) int64 {
	switch {
	case now < 0 && target > math.MaxInt64+now:
		return math.MaxInt64
	case now > 0 && target < math.MinInt64+now:
		return math.MinInt64
	}
	return target - now
}

// exactTime renders target as a time of day, with the date in front when
// it falls on a different calendar day than now.
func (f *Formatter) exactTime(target, now int64) string {
	t := time.Unix(target, 0).In(f.loc)
	n := time.Unix(now, 0).In(f.loc)

	layout := "15:04"
	if t.Year() != n.Year() || t.YearDay() != n.YearDay() {
		layout = "02/01 15:04"
	}
	return t.Format(layout) + f.strings.HourSuffix
}

// Location returns the display timezone.
func (f *Formatter) Location() *time.Location {
	return f.loc
}

// Strings returns the localized strings the formatter uses.
func (f *Formatter) Strings() locale.Strings {
	return f.strings
}
