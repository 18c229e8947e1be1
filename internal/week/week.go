// Package week maps calendar instants to the Monday-based week that keys a
// ground's weekly schedule.
package week

import (
	"time"

	"github.com/dimitrije/wicket-api/internal/models"
)

// Start returns Monday 00:00 of the week containing t, in loc.
func Start(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -int(DayOf(t, loc)))
}

// End returns Sunday 23:59:59.999 of the week containing t, in loc.
func End(t time.Time, loc *time.Location) time.Time {
	sunday := Start(t, loc).AddDate(0, 0, 6)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// DayOf returns the Monday-based weekday of t in loc.
func DayOf(t time.Time, loc *time.Location) models.Day {
	return models.Day((int(t.In(loc).Weekday()) + 6) % 7)
}

// Date returns midnight of t's calendar day in loc.
func Date(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Next returns the Monday starting the week after the one containing t.
func Next(t time.Time, loc *time.Location) time.Time {
	return Start(t, loc).AddDate(0, 0, 7)
}

// IsStart reports whether t is exactly a week start in loc.
func IsStart(t time.Time, loc *time.Location) bool {
	return Start(t, loc).Equal(t)
}
