// Package ics reads and writes single-date iCalendar documents.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"weekday/internal/model"
)

const productID = "-//weekday//weekday CLI//EN"

// Export builds an iCalendar document with one all-day VEVENT on r.Date
// whose summary is the weekday name. stamp is used for DTSTAMP.
func Export(r model.Result, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	ev := cal.AddEvent(r.Date.String() + "@weekday")
	ev.SetDtStampTime(stamp.UTC())
	ev.SetAllDayStartAt(r.Date.Time())
	ev.SetAllDayEndAt(r.Date.Time().AddDate(0, 0, 1))
	ev.SetSummary(r.Weekday)

	desc := fmt.Sprintf("%s is a %s", r.Date, r.Weekday)
	if len(r.SameWeekdayYears) > 0 {
		years := make([]string, len(r.SameWeekdayYears))
		for i, y := range r.SameWeekdayYears {
			years[i] = fmt.Sprint(y)
		}
		desc += ". Same weekday again in " + strings.Join(years, ", ")
	}
	ev.SetDescription(desc)

	return cal.Serialize()
}

// FirstDate returns the DTSTART date of the first VEVENT in body formatted
// as YYYY-MM-DD. The returned string still needs to be validated.
func FirstDate(body []byte) (string, error) {
	if len(body) == 0 {
		return "", errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse ics: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return "", errors.New("ics contains no VEVENT")
	}

	prop := events[0].GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil || prop.Value == "" {
		return "", errors.New("first VEVENT has no DTSTART")
	}
	return dateFromICSValue(prop.Value)
}

// dateFromICSValue converts the date part of a DATE or DATE-TIME value
// (20250101, 20250101T090000, 20250101T090000Z) to 2025-01-01. The wall
// date is kept as written; no timezone conversion is applied.
func dateFromICSValue(v string) (string, error) {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		v = v[:i]
	}
	if len(v) != 8 {
		return "", fmt.Errorf("unsupported DTSTART value %q", v)
	}
	return v[0:4] + "-" + v[4:6] + "-" + v[6:8], nil
}
