package dateparser

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	now   = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	paris = time.FixedZone("CEST", 2*60*60)
)

func TestParseCutoffAbsolute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		loc   *time.Location
		want  time.Time
	}{
		{"date in UTC", "2025-01-01", time.UTC, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"date is local midnight", "2025-01-01", paris, time.Date(2024, 12, 31, 22, 0, 0, 0, time.UTC)},
		{"date-time in UTC", "2024-03-15T08:30:00", time.UTC, time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)},
		{"date-time is local", "2024-03-15T08:30:00", paris, time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)},
		{"surrounding whitespace", "  2025-01-01 ", time.UTC, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"leap day", "2024-02-29", time.UTC, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCutoff(tt.input, now, tt.loc)
			if err != nil {
				t.Fatalf("ParseCutoff(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCutoff(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseCutoff(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

func TestParseCutoffRelative(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"30d", now.Add(-30 * 24 * time.Hour)},
		{"2w", now.Add(-14 * 24 * time.Hour)},
		{"2w 3h", now.Add(-(14*24 + 3) * time.Hour)},
		{"90min", now.Add(-90 * time.Minute)},
		{"1y6M", now.Add(-(year + 6*month))},
		{"1year", now.Add(-year)},
		{"0s", now},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCutoff(tt.input, now, time.UTC)
			if err != nil {
				t.Fatalf("ParseCutoff(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCutoff(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCutoffInvalid(t *testing.T) {
	tests := []struct {
		input    string
		wantType DateParseErrorType
	}{
		{"", InvalidFormat},
		{"abc", InvalidFormat},
		{"yesterday", InvalidFormat},
		{"2025-13-01", InvalidDate},
		{"2025-02-30", InvalidDate},
		{"2025-01-01T25:00:00", InvalidDate},
		{"30", InvalidDuration},
		{"30x", InvalidDuration},
		{"30D", InvalidDuration},
		{"99999999999999999999d", InvalidDuration},
		{"400y", InvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCutoff(tt.input, now, time.UTC)
			var pe *DateParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ParseCutoff(%q) error = %v, want *DateParseError", tt.input, err)
			}
			if pe.Type != tt.wantType {
				t.Errorf("ParseCutoff(%q) type = %s, want %s", tt.input, pe.Type, tt.wantType)
			}
		})
	}
}

func TestDateParseErrorMessages(t *testing.T) {
	_, err := ParseCutoff("soon", now, time.UTC)
	if err == nil || !strings.Contains(err.Error(), "YYYY-MM-DD") {
		t.Errorf("format error should describe accepted forms, got %v", err)
	}

	_, err = ParseCutoff("3fortnights", now, time.UTC)
	if err == nil || !strings.Contains(err.Error(), `unknown unit "fortnights"`) {
		t.Errorf("unexpected unit error: %v", err)
	}
}

func TestParseDurationUnitsAreCaseSensitive(t *testing.T) {
	m, err := ParseDuration("1m")
	if err != nil {
		t.Fatal(err)
	}
	M, err := ParseDuration("1M")
	if err != nil {
		t.Fatal(err)
	}
	if m != time.Minute || M != month {
		t.Errorf("1m = %v, 1M = %v", m, M)
	}
}

func TestParseDurationSumsTermsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("concatenated terms add up", prop.ForAll(
		func(days, hours, minutes int, spaced bool) bool {
			sep := ""
			if spaced {
				sep = " "
			}
			input := fmt.Sprintf("%dd%s%dh%s%dmin", days, sep, hours, sep, minutes)
			got, err := ParseDuration(input)
			if err != nil {
				return false
			}
			want := time.Duration(days)*day + time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
			return got == want
		},
		gen.IntRange(0, 3650),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.Bool(),
	))

	properties.Property("relative cutoffs are never after now", prop.ForAll(
		func(n int, unit string) bool {
			got, err := ParseCutoff(fmt.Sprintf("%d%s", n, unit), now, time.UTC)
			return err == nil && !got.After(now)
		},
		gen.IntRange(0, 100),
		gen.OneConstOf("s", "m", "h", "d", "w", "M", "y"),
	))

	properties.Property("dates round-trip through the layout", prop.ForAll(
		func(offsetDays int) bool {
			d := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offsetDays)
			got, err := ParseCutoff(d.Format(dateLayout), now, time.UTC)
			return err == nil && got.Equal(d)
		},
		gen.IntRange(0, 20000),
	))

	properties.TestingRun(t)
}
