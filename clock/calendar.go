// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package clock

import (
	"fmt"
	"time"
)

// daysPerYear is the 365.25-day year used throughout the calendar
// conversion.
const daysPerYear = 365.25

// nowFunc is overridable so tests can pin "today" without depending on
// the wall clock (Engine.Today pins it for a single Engine; this is
// the fallback when Engine.Today is left unset).
var nowFunc = time.Now

// numericDate converts a calendar time into a decimal year, e.g.
// 2020-07-02 -> ~2020.5.
func numericDate(t time.Time) float64 {
	year := t.Year()
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)
	frac := t.Sub(start).Hours() / next.Sub(start).Hours()
	return float64(year) + frac
}

// dateString renders a decimal year as a calendar date string using a
// proleptic Gregorian calendar and 365.25-day years. If the
// year falls outside Go's representable time.Time range, it degrades
// to an approximate "YYYY-M-D" string built from an 1900-anchored
// offset.
func dateString(numdate float64) string {
	year := int(numdate)
	days := daysPerYear * (numdate - float64(year))

	if t, ok := safeDate(year, days); ok {
		return t.Format("2006-01-02")
	}

	approx := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(days * float64(24*time.Hour)))
	return fmt.Sprintf("%d-%d-%d", year, int(approx.Month()), approx.Day())
}

func safeDate(year int, days float64) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	if year < 1 || year > 9999 {
		return time.Time{}, false
	}
	base := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(days * float64(24*time.Hour))), true
}
