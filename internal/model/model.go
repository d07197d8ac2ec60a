package model

import (
	"fmt"
	"time"
)

// CalendarDate is a validated proleptic Gregorian year/month/day triple.
// Values are only produced by a successful parse and are never mutated.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// Time returns the date at midnight UTC.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week the date falls on.
func (d CalendarDate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Result is the outcome of a single successful conversion, as handed to
// the output renderers.
type Result struct {
	// Input is the raw string as received on the command line.
	Input string

	Date    CalendarDate
	Weekday string

	// SameWeekdayYears lists following years in which Date's month/day
	// falls on the same weekday. Empty unless requested.
	SameWeekdayYears []int
}
