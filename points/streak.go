// Package points holds the pure gamification math: streak evaluation,
// level/XP progress and calendar grid geometry. Nothing here performs I/O;
// every handler that needs one of these numbers calls the same function
// instead of carrying its own copy of the arithmetic.
package points

import "sort"

// RewardTier is a configured streak-length threshold that unlocks a bonus.
type RewardTier struct {
	DayThreshold int    `json:"day_threshold"`
	Label        string `json:"label"`
	BonusPoints  int    `json:"bonus_points"`
	Reached      bool   `json:"reached"`
}

// DefaultRewardTiers is the tier table shown on the check-in page.
// Order matters: ascending by threshold.
func DefaultRewardTiers() []RewardTier {
	return []RewardTier{
		{DayThreshold: 3, Label: "3 Days", BonusPoints: 20},
		{DayThreshold: 7, Label: "7 Days", BonusPoints: 50},
		{DayThreshold: 14, Label: "14 Days", BonusPoints: 120},
		{DayThreshold: 30, Label: "30 Days", BonusPoints: 300},
	}
}

// StreakResult is the outcome of evaluating a month of check-ins.
type StreakResult struct {
	Streak          int          `json:"streak"`
	IsTodayChecked  bool         `json:"is_today_checked"`
	Tiers           []RewardTier `json:"tiers"`
	NextTier        *RewardTier  `json:"next_tier,omitempty"`
	ProgressPercent int          `json:"progress_percent"`
}

// EvaluateStreak computes the current streak from a set of checked day numbers.
//
// The walk is anchored at the latest recorded day and moves backward, stopping
// at the first gap: a missing day anywhere truncates the streak nearest "today".
// checkedDays may be unsorted and may contain duplicates; today is the real
// day-of-month and isCurrentPeriod reports whether the evaluated month/year is
// the real current one (a historical month can never have "today" checked).
func EvaluateStreak(checkedDays []int, today int, isCurrentPeriod bool) StreakResult {
	days := make([]int, 0, len(checkedDays))
	seen := make(map[int]bool, len(checkedDays))
	for _, d := range checkedDays {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)

	streak := 0
	if len(days) > 0 {
		streak = 1
		for i := len(days) - 2; i >= 0; i-- {
			if days[i] != days[i+1]-1 {
				break
			}
			streak++
		}
	}

	res := StreakResult{
		Streak:         streak,
		IsTodayChecked: isCurrentPeriod && seen[today],
		Tiers:          DefaultRewardTiers(),
	}

	for i := range res.Tiers {
		res.Tiers[i].Reached = streak >= res.Tiers[i].DayThreshold
	}
	for i := range res.Tiers {
		if !res.Tiers[i].Reached {
			next := res.Tiers[i]
			res.NextTier = &next
			break
		}
	}

	if res.NextTier == nil {
		res.ProgressPercent = 100
	} else {
		pct := streak * 100 / res.NextTier.DayThreshold
		if pct > 100 {
			pct = 100
		}
		res.ProgressPercent = pct
	}
	return res
}

// TierBonusAt returns the bonus granted when a streak reaches exactly the
// given length, or 0 when the length is not a tier threshold. Used by the
// check-in transaction to credit each tier once, at the crossing day.
func TierBonusAt(streak int) int {
	for _, t := range DefaultRewardTiers() {
		if t.DayThreshold == streak {
			return t.BonusPoints
		}
	}
	return 0
}
