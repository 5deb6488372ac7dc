package period

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s: expected panic, got none", name)
		}
	}()
	fn()
}

func TestSemester(t *testing.T) {
	tests := []struct {
		month int
		want  int
	}{
		{1, 1}, {2, 1}, {3, 1}, {4, 1}, {5, 1}, {6, 1},
		{7, 2}, {8, 2}, {9, 2}, {10, 2}, {11, 2}, {12, 2},
	}
	for _, tt := range tests {
		if got := SemesterOf(tt.month); got != tt.want {
			t.Errorf("SemesterOf(%d) = %d, want %d", tt.month, got, tt.want)
		}
	}
}

func TestTrimester(t *testing.T) {
	tests := []struct {
		month int
		want  int
	}{
		{1, 1}, {2, 1}, {3, 1},
		{4, 2}, {5, 2}, {6, 2},
		{7, 3}, {8, 3}, {9, 3},
		{10, 4}, {11, 4}, {12, 4},
	}
	for _, tt := range tests {
		if got := TrimesterOf(tt.month); got != tt.want {
			t.Errorf("TrimesterOf(%d) = %d, want %d", tt.month, got, tt.want)
		}
	}
}

func TestQuadrimester(t *testing.T) {
	tests := []struct {
		month int
		want  int
	}{
		{1, 1}, {2, 1}, {3, 1}, {4, 1},
		{5, 2}, {6, 2}, {7, 2}, {8, 2},
		{9, 3}, {10, 3}, {11, 3}, {12, 3},
	}
	for _, tt := range tests {
		if got := QuadrimesterOf(tt.month); got != tt.want {
			t.Errorf("QuadrimesterOf(%d) = %d, want %d", tt.month, got, tt.want)
		}
	}
}

func TestBiweekly(t *testing.T) {
	tests := []struct {
		week int
		want int
	}{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3},
		{10, 5}, {25, 13}, {49, 25}, {50, 25},
		{51, 26}, {52, 26}, {53, 26},
	}
	for _, tt := range tests {
		if got := BiweeklyOf(tt.week); got != tt.want {
			t.Errorf("BiweeklyOf(%d) = %d, want %d", tt.week, got, tt.want)
		}
	}
}

func TestArithmeticRejectsOutOfRangeInput(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		m := month
		assertPanics(t, "SemesterOf", func() { SemesterOf(m) })
		assertPanics(t, "TrimesterOf", func() { TrimesterOf(m) })
		assertPanics(t, "QuadrimesterOf", func() { QuadrimesterOf(m) })
	}
	for _, week := range []int{0, 54} {
		w := week
		assertPanics(t, "BiweeklyOf", func() { BiweeklyOf(w) })
	}
}

func TestMonthArithmeticRanges(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("month-derived indexes stay within their ranges", prop.ForAll(
		func(month int) bool {
			s, tr, q := SemesterOf(month), TrimesterOf(month), QuadrimesterOf(month)
			return s >= 1 && s <= 2 && tr >= 1 && tr <= 4 && q >= 1 && q <= 3
		},
		gen.IntRange(1, 12),
	))

	properties.Property("month-derived indexes never decrease as the month advances", prop.ForAll(
		func(month int) bool {
			if month == 12 {
				return true
			}
			next := month + 1
			return SemesterOf(month) <= SemesterOf(next) &&
				TrimesterOf(month) <= TrimesterOf(next) &&
				QuadrimesterOf(month) <= QuadrimesterOf(next)
		},
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}

func TestBiweeklyFormula(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("weeks 1-50 pair up as (w-1)/2+1", prop.ForAll(
		func(week int) bool {
			return BiweeklyOf(week) == (week-1)/2+1
		},
		gen.IntRange(1, 50),
	))

	properties.Property("weeks 51-53 collapse into the last bucket", prop.ForAll(
		func(week int) bool {
			return BiweeklyOf(week) == 26
		},
		gen.IntRange(51, 53),
	))

	properties.TestingRun(t)
}
