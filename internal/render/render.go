// Package render prints a conversion result in one of the supported
// output formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"weekday/internal/ics"
	"weekday/internal/model"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatICS  = "ics"
)

type jsonResult struct {
	Input            string `json:"input"`
	Date             string `json:"date"`
	Weekday          string `json:"weekday"`
	SameWeekdayYears []int  `json:"same_weekday_years,omitempty"`
}

// Write renders r to w. now is only used by the ics format.
func Write(w io.Writer, format string, r model.Result, now time.Time) error {
	switch format {
	case FormatText, "":
		return writeText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult{
			Input:            r.Input,
			Date:             r.Date.String(),
			Weekday:          r.Weekday,
			SameWeekdayYears: r.SameWeekdayYears,
		})
	case FormatICS:
		_, err := io.WriteString(w, ics.Export(r, now))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, r model.Result) error {
	if _, err := fmt.Fprintf(w, "The day of the week for %s is %s.\n", r.Input, r.Weekday); err != nil {
		return err
	}
	if len(r.SameWeekdayYears) == 0 {
		return nil
	}
	years := make([]string, len(r.SameWeekdayYears))
	for i, y := range r.SameWeekdayYears {
		years[i] = fmt.Sprint(y)
	}
	_, err := fmt.Fprintf(w, "%s %d is also a %s in: %s\n",
		r.Date.Month, r.Date.Day, r.Weekday, strings.Join(years, ", "))
	return err
}
