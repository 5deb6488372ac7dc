// Package period maps timestamps onto calendar periods and orders them.
package period

import "fmt"

// lastBiweekly is the final biweekly bucket of a year. ISO weeks 51-53 all
// land in it so the bucket never holds a single week.
const lastBiweekly = 26

// SemesterOf returns 1 for January-June and 2 for July-December.
func SemesterOf(month int) int {
	validateMonth(month)
	if month <= 6 {
		return 1
	}
	return 2
}

// TrimesterOf returns the 3-month quarter (1-4) containing month.
func TrimesterOf(month int) int {
	validateMonth(month)
	return (month-1)/3 + 1
}

// QuadrimesterOf returns the 4-month block (1-3) containing month.
func QuadrimesterOf(month int) int {
	validateMonth(month)
	return (month-1)/4 + 1
}

// BiweeklyOf returns the two-week bucket (1-26) for an ISO week number.
func BiweeklyOf(isoWeek int) int {
	if isoWeek < 1 || isoWeek > 53 {
		panic(fmt.Sprintf("period: iso week must be between 1 and 53, got %d", isoWeek))
	}
	if isoWeek >= 51 {
		return lastBiweekly
	}
	return (isoWeek-1)/2 + 1
}

func validateMonth(month int) {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("period: month must be between 1 and 12, got %d", month))
	}
}
