// Package dateparser parses the age cutoff accepted by --older-than: an ISO
// date, an ISO date-time or a duration counted back from now.
package dateparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateParseErrorType represents the type of date parsing error.
type DateParseErrorType string

const (
	InvalidFormat   DateParseErrorType = "INVALID_FORMAT"
	InvalidDate     DateParseErrorType = "INVALID_DATE"
	InvalidDuration DateParseErrorType = "INVALID_DURATION"
)

// DateParseError represents an error that occurred during cutoff parsing.
type DateParseError struct {
	Type   DateParseErrorType
	Value  string
	Reason string
}

func (e *DateParseError) Error() string {
	switch e.Type {
	case InvalidFormat:
		return fmt.Sprintf("invalid cutoff %q: expected a duration (e.g. 30d, 1y6M), YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS", e.Value)
	case InvalidDate:
		return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
	case InvalidDuration:
		return fmt.Sprintf("invalid duration %q: %s", e.Value, e.Reason)
	default:
		return fmt.Sprintf("cutoff parse error: %s", e.Reason)
	}
}

const (
	dateTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

var (
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseCutoff turns value into an absolute cutoff instant in UTC. Dates and
// date-times without a zone are read in loc; date-only values mean midnight.
// Durations are subtracted from now.
func ParseCutoff(value string, now time.Time, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}

	switch {
	case dateTimePattern.MatchString(value):
		t, err := time.ParseInLocation(dateTimeLayout, value, loc)
		if err != nil {
			return time.Time{}, &DateParseError{Type: InvalidDate, Value: value, Reason: reason(err)}
		}
		return t.UTC(), nil
	case datePattern.MatchString(value):
		t, err := time.ParseInLocation(dateLayout, value, loc)
		if err != nil {
			return time.Time{}, &DateParseError{Type: InvalidDate, Value: value, Reason: reason(err)}
		}
		return t.UTC(), nil
	}

	d, err := ParseDuration(value)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d).UTC(), nil
}

// reason strips the layout noise from a time.Parse error.
func reason(err error) string {
	if pe, ok := err.(*time.ParseError); ok && pe.Message != "" {
		return strings.TrimPrefix(pe.Message, ": ")
	}
	return err.Error()
}

// Unit lengths. Months and years use the mean Gregorian lengths.
const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = time.Duration(30.44 * float64(day))
	year  = time.Duration(365.25 * float64(day))
)

var units = map[string]time.Duration{
	"nsec": time.Nanosecond, "ns": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond,
	"msec": time.Millisecond, "ms": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": week, "week": week, "w": week,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

// ParseDuration parses a sequence of <number><unit> terms such as "30d",
// "1y6M" or "2w 3h". Units are case sensitive: "m" is minutes, "M" months.
func ParseDuration(value string) (time.Duration, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, &DateParseError{Type: InvalidFormat, Value: value}
	}

	var total time.Duration
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, &DateParseError{Type: InvalidFormat, Value: value}
		}
		n, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return 0, &DateParseError{Type: InvalidDuration, Value: value, Reason: "number is too large"}
		}
		s = s[i:]

		j := 0
		for j < len(s) && unicode.IsLetter(rune(s[j])) {
			j++
		}
		if j == 0 {
			return 0, &DateParseError{Type: InvalidDuration, Value: value, Reason: "missing unit after " + strconv.FormatInt(n, 10)}
		}
		unit, ok := units[s[:j]]
		if !ok {
			return 0, &DateParseError{Type: InvalidDuration, Value: value, Reason: fmt.Sprintf("unknown unit %q", s[:j])}
		}
		s = strings.TrimLeft(s[j:], " ")

		if n > int64(maxDuration/unit) {
			return 0, &DateParseError{Type: InvalidDuration, Value: value, Reason: "duration is too long"}
		}
		term := time.Duration(n) * unit
		if total > maxDuration-term {
			return 0, &DateParseError{Type: InvalidDuration, Value: value, Reason: "duration is too long"}
		}
		total += term
	}
	return total, nil
}

const maxDuration = time.Duration(1<<63 - 1)
