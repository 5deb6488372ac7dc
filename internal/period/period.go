package period

import (
	"fmt"
	"strings"
	"time"
)

// Granularity names a calendar period size used for grouping.
type Granularity string

const (
	// None means files are not grouped into period folders.
	None         Granularity = ""
	Week         Granularity = "week"
	Biweekly     Granularity = "biweekly"
	Month        Granularity = "month"
	Trimester    Granularity = "trimester"
	Quadrimester Granularity = "quadrimester"
	Semester     Granularity = "semester"
	Year         Granularity = "year"
)

// All lists every grouping granularity, finest first.
var All = []Granularity{Week, Biweekly, Month, Trimester, Quadrimester, Semester, Year}

// ID identifies one period of a granularity. Index is 0 for Year.
type ID struct {
	Year  int
	Index int
}

// Less reports whether id comes strictly before other.
func (id ID) Less(other ID) bool {
	if id.Year != other.Year {
		return id.Year < other.Year
	}
	return id.Index < other.Index
}

// strategy is what a granularity contributes: how to extract its ID and
// how to render that ID as a folder name.
type strategy struct {
	identify func(t time.Time) ID
	format   func(id ID) string
}

var strategies = map[Granularity]strategy{
	Week: {
		identify: func(t time.Time) ID {
			year, week := t.ISOWeek()
			return ID{Year: year, Index: week}
		},
		format: func(id ID) string { return fmt.Sprintf("%d-W%02d", id.Year, id.Index) },
	},
	Biweekly: {
		identify: func(t time.Time) ID {
			year, week := t.ISOWeek()
			return ID{Year: year, Index: BiweeklyOf(week)}
		},
		format: func(id ID) string { return fmt.Sprintf("%d-BW%02d", id.Year, id.Index) },
	},
	Month: {
		identify: func(t time.Time) ID { return ID{Year: t.Year(), Index: int(t.Month())} },
		format:   func(id ID) string { return fmt.Sprintf("%d-%02d", id.Year, id.Index) },
	},
	Trimester: {
		identify: func(t time.Time) ID { return ID{Year: t.Year(), Index: TrimesterOf(int(t.Month()))} },
		format:   func(id ID) string { return fmt.Sprintf("%d-Q%d", id.Year, id.Index) },
	},
	Quadrimester: {
		identify: func(t time.Time) ID { return ID{Year: t.Year(), Index: QuadrimesterOf(int(t.Month()))} },
		format:   func(id ID) string { return fmt.Sprintf("%d-QD%d", id.Year, id.Index) },
	},
	Semester: {
		identify: func(t time.Time) ID { return ID{Year: t.Year(), Index: SemesterOf(int(t.Month()))} },
		format:   func(id ID) string { return fmt.Sprintf("%d-H%d", id.Year, id.Index) },
	},
	Year: {
		identify: func(t time.Time) ID { return ID{Year: t.Year()} },
		format:   func(id ID) string { return fmt.Sprintf("%d", id.Year) },
	},
}

func lookup(g Granularity) strategy {
	s, ok := strategies[g]
	if !ok {
		panic(fmt.Sprintf("period: unknown granularity %q", string(g)))
	}
	return s
}

// Identify returns the period of granularity g containing t, evaluated in UTC.
// Week and Biweekly use the ISO week-year, all others the calendar year.
func Identify(g Granularity, t time.Time) ID {
	return lookup(g).identify(t.UTC())
}

// IsBeforeCurrent reports whether t falls in a period strictly before the
// period containing now.
func IsBeforeCurrent(g Granularity, t, now time.Time) bool {
	return Identify(g, t).Less(Identify(g, now))
}

// FolderName renders the period containing t as a directory name,
// e.g. "2025-W02", "2025-BW01", "2025-06", "2025-Q2", "2025-QD2", "2025-H1" or "2025".
func FolderName(g Granularity, t time.Time) string {
	s := lookup(g)
	return s.format(s.identify(t.UTC()))
}

// ParseGranularity parses a granularity name case-insensitively.
// An empty string yields None.
func ParseGranularity(s string) (Granularity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "none" {
		return None, nil
	}
	g := Granularity(name)
	if _, ok := strategies[g]; !ok {
		names := make([]string, len(All))
		for i, a := range All {
			names[i] = string(a)
		}
		return None, fmt.Errorf("unsupported grouping %q, use one of: %s", s, strings.Join(names, ", "))
	}
	return g, nil
}

// String returns the granularity name, or "none".
func (g Granularity) String() string {
	if g == None {
		return "none"
	}
	return string(g)
}
