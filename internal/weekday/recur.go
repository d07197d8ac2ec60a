package weekday

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"weekday/internal/model"
)

// MaxSameWeekdayYears caps how many years SameWeekdayYears will look up.
const MaxSameWeekdayYears = 100

// lastYear is the last year that can be written as YYYY.
const lastYear = 9999

// rrule.Weekday values indexed by time.Weekday.
var rruleWeekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// SameWeekdayYears returns the next n years after d.Year in which d's
// month and day fall on the same weekday as d. For 29 February only leap
// years are considered. Only years up to 9999 are searched; if fewer than
// n matches exist in that range an error is returned.
func SameWeekdayYears(d model.CalendarDate, n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	if n > MaxSameWeekdayYears {
		return nil, errors.New("same-weekday lookup: count exceeds limit")
	}

	if d.Year >= lastYear {
		return nil, fmt.Errorf("same-weekday lookup: no years after %d", lastYear)
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.YEARLY,
		Dtstart:    time.Date(d.Year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
		Bymonth:    []int{int(d.Month)},
		Bymonthday: []int{d.Day},
		Byweekday:  []rrule.Weekday{rruleWeekdays[d.Weekday()]},
		Count:      n,
		Until:      time.Date(lastYear, time.December, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return nil, err
	}

	occ := r.All()
	if len(occ) < n {
		return nil, fmt.Errorf("same-weekday lookup: only %d of %d matches before year %d", len(occ), n, lastYear+1)
	}
	years := make([]int, 0, len(occ))
	for _, t := range occ {
		years = append(years, t.Year())
	}
	return years, nil
}
