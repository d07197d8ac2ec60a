// Package weekday validates YYYY-MM-DD date strings and derives the day of
// the week they fall on.
package weekday

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"cloudeng.io/datetime"

	"weekday/internal/model"
)

// Layout is the only accepted input shape.
const Layout = "YYYY-MM-DD"

var datePattern = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})$`)

// Sink receives diagnostic events. Convert never closes it.
type Sink interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, err error, kv ...any)
}

// Parse checks the shape of input and that it names a real proleptic
// Gregorian date. It returns a *ConversionError of kind MalformedInput or
// InvalidCalendarDate on failure.
func Parse(input string) (model.CalendarDate, error) {
	m := datePattern.FindStringSubmatch(input)
	if m == nil {
		return model.CalendarDate{}, &ConversionError{Kind: MalformedInput, Input: input}
	}

	// The pattern guarantees fixed-width digit groups, so Atoi cannot fail.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	invalid := func(field string, value int, reason string) (model.CalendarDate, error) {
		return model.CalendarDate{}, &ConversionError{
			Kind:  InvalidCalendarDate,
			Input: input,
			Field: field,
			Value: value,
			Err:   errors.New(reason),
		}
	}

	if year < 1 {
		return invalid("year", year, "year must be between 0001 and 9999")
	}
	if month < 1 || month > 12 {
		return invalid("month", month, "month must be between 01 and 12")
	}
	maxDay := int(datetime.DaysInMonth(year, datetime.Month(month)))
	if day < 1 || day > maxDay {
		return invalid("day", day, fmt.Sprintf("%s %04d has %d days", time.Month(month), year, maxDay))
	}

	return model.CalendarDate{Year: year, Month: time.Month(month), Day: day}, nil
}

// Convert maps input to the English name of its weekday, e.g. "Sunday".
// Every outcome is reported to sink before returning. Failures are returned
// as *ConversionError; a panic during conversion is recovered and reported
// as UnexpectedFailure.
func Convert(input string, sink Sink) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			name = ""
			err = &ConversionError{Kind: UnexpectedFailure, Input: input, Err: fmt.Errorf("panic: %v", r)}
			sink.Error("unexpected error while converting date", err, "input", input)
		}
	}()

	sink.Info("received date input", "input", input)

	date, err := Parse(input)
	if err != nil {
		switch KindOf(err) {
		case MalformedInput:
			sink.Error("invalid format: input does not match "+Layout, err,
				"input", input,
				"expected", "4-digit year, 2-digit month, 2-digit day (e.g. 2023-10-01)",
			)
		default:
			ce := err.(*ConversionError)
			sink.Error("date parsing failed: not a valid calendar date", err,
				"input", input,
				ce.Field, ce.Value,
			)
		}
		return "", err
	}

	name = date.Weekday().String()
	sink.Info("converted date to day of week", "input", input, "weekday", name)
	return name, nil
}
