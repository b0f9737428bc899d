package points

import "testing"

func TestMonthGrid(t *testing.T) {
	cases := []struct {
		year, month int // month zero-based
		days        int
		blanks      int
	}{
		{2025, 0, 31, 2},  // Jan 2025 starts Wednesday -> (3+6)%7 = 2
		{2025, 5, 30, 6},  // Jun 2025 starts Sunday -> (0+6)%7 = 6
		{2025, 8, 30, 0},  // Sep 2025 starts Monday
		{2024, 1, 29, 3},  // Feb 2024, leap year, starts Thursday
		{2025, 1, 28, 5},  // Feb 2025 starts Saturday
		{2100, 1, 28, 0},  // 2100 is not a leap year; Feb 1st is a Monday
	}
	for _, c := range cases {
		res := MonthGrid(c.year, c.month)
		if res.DaysInMonth != c.days || res.LeadingBlanks != c.blanks {
			t.Errorf("MonthGrid(%d, %d) = %+v, want days=%d blanks=%d",
				c.year, c.month, res, c.days, c.blanks)
		}
	}
}
