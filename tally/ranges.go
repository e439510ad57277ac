// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"fmt"
	"time"

	"github.com/danielhkuo/ledger-ballot/apperr"
)

// Preset names a date range for the hourly histogram.
type Preset string

const (
	Today      Preset = "today"
	Yesterday  Preset = "yesterday"
	Last7Days  Preset = "last7days"
	Last30Days Preset = "last30days"
)

// ParsePreset accepts the known presets; an empty filter means today.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case Today, Yesterday, Last7Days, Last30Days:
		return p, nil
	case "":
		return Today, nil
	}
	return "", apperr.New(apperr.Validation,
		fmt.Sprintf("Unknown filter %q (want today, yesterday, last7days or last30days)", s))
}

// Range is an inclusive time interval.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// RangeFor resolves a preset to whole calendar days in loc, ending today for
// every preset except yesterday.
func RangeFor(p Preset, now time.Time, loc *time.Location) Range {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	first, last := today, today
	switch p {
	case Yesterday:
		first = today.AddDate(0, 0, -1)
		last = first
	case Last7Days:
		first = today.AddDate(0, 0, -6)
	case Last30Days:
		first = today.AddDate(0, 0, -29)
	}

	return Range{Start: first, End: last.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}
