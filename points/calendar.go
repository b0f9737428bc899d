package points

import "time"

// MonthGridResult is the geometry of a Monday-first calendar month.
type MonthGridResult struct {
	DaysInMonth   int `json:"days_in_month"`
	LeadingBlanks int `json:"leading_blanks"`
}

// MonthGrid returns the day count and leading blank cells for a month.
// monthIndex is zero-based (0 = January). LeadingBlanks aligns the 1st under
// the correct column of a Monday-first week: (weekday+6) mod 7 where weekday
// uses the native 0=Sunday..6=Saturday numbering.
func MonthGrid(year, monthIndex int) MonthGridResult {
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the next month is the last day of this one
	last := time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC)
	return MonthGridResult{
		DaysInMonth:   last.Day(),
		LeadingBlanks: (int(first.Weekday()) + 6) % 7,
	}
}
