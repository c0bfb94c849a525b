// Package timeutil holds small UTC-centric time helpers shared by services
// built on the toolkit.
package timeutil

import "time"

// DefaultLayout is the layout used when none is given.
const DefaultLayout = "2006-01-02 15:04:05"

// UTCNow returns the current time in UTC.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// ToUTC converts t to the UTC location.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// DayStart returns midnight of t's calendar day, in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Format renders t with the given layout; an empty layout means
// DefaultLayout.
func Format(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultLayout
	}
	return t.Format(layout)
}

// Parse reads a time with the given layout; an empty layout means
// DefaultLayout.
func Parse(value, layout string) (time.Time, error) {
	if layout == "" {
		layout = DefaultLayout
	}
	return time.Parse(layout, value)
}

// FromUnix converts a unix timestamp in seconds to a UTC time.
func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// ToUnix returns t as a unix timestamp in seconds.
func ToUnix(t time.Time) int64 {
	return t.Unix()
}
