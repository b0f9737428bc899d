package points

import "testing"

func TestEvaluateStreakEmpty(t *testing.T) {
	res := EvaluateStreak(nil, 15, true)
	if res.Streak != 0 {
		t.Fatalf("streak = %d, want 0", res.Streak)
	}
	if res.IsTodayChecked {
		t.Fatal("IsTodayChecked = true for empty ledger")
	}
	for _, tier := range res.Tiers {
		if tier.Reached {
			t.Fatalf("tier %d marked reached with no check-ins", tier.DayThreshold)
		}
	}
	if res.NextTier == nil || res.NextTier.DayThreshold != 3 {
		t.Fatalf("NextTier = %+v, want first tier (3 days)", res.NextTier)
	}
	if res.ProgressPercent != 0 {
		t.Fatalf("ProgressPercent = %d, want 0", res.ProgressPercent)
	}
}

func TestEvaluateStreakContinuous(t *testing.T) {
	res := EvaluateStreak([]int{5, 6, 7, 8}, 8, true)
	if res.Streak != 4 {
		t.Fatalf("streak = %d, want 4", res.Streak)
	}
	if !res.IsTodayChecked {
		t.Fatal("IsTodayChecked = false, want true")
	}
}

func TestEvaluateStreakResetOnGap(t *testing.T) {
	// Day 4 is missing, so the streak anchored at day 5 is exactly 1 even
	// though days 1-3 form a longer run earlier in the month.
	res := EvaluateStreak([]int{1, 2, 3, 5}, 5, true)
	if res.Streak != 1 {
		t.Fatalf("streak = %d, want 1", res.Streak)
	}
}

func TestEvaluateStreakMonotonicity(t *testing.T) {
	// Adding today's check-in on top of yesterday's extends the streak by one.
	for _, base := range [][]int{{9}, {7, 8, 9}, {2, 3, 5, 8, 9}} {
		before := EvaluateStreak(base, 10, true)
		after := EvaluateStreak(append(append([]int{}, base...), 10), 10, true)
		if after.Streak != before.Streak+1 {
			t.Errorf("days %v: streak %d -> %d, want +1", base, before.Streak, after.Streak)
		}
	}
}

func TestEvaluateStreakUnsortedAndDuplicates(t *testing.T) {
	res := EvaluateStreak([]int{8, 6, 7, 5, 7}, 8, true)
	if res.Streak != 4 {
		t.Fatalf("streak = %d, want 4", res.Streak)
	}
}

func TestEvaluateStreakHistoricalMonth(t *testing.T) {
	// Viewing a past month: "today" can never be checked there.
	res := EvaluateStreak([]int{14, 15}, 15, false)
	if res.IsTodayChecked {
		t.Fatal("IsTodayChecked = true for a non-current period")
	}
	if res.Streak != 2 {
		t.Fatalf("streak = %d, want 2", res.Streak)
	}
}

func TestEvaluateStreakTierProgression(t *testing.T) {
	days := make([]int, 0, 7)
	for d := 2; d <= 8; d++ {
		days = append(days, d)
	}
	res := EvaluateStreak(days, 8, true)
	if res.Streak != 7 {
		t.Fatalf("streak = %d, want 7", res.Streak)
	}
	wantReached := map[int]bool{3: true, 7: true, 14: false, 30: false}
	for _, tier := range res.Tiers {
		if tier.Reached != wantReached[tier.DayThreshold] {
			t.Errorf("tier %d reached = %v, want %v", tier.DayThreshold, tier.Reached, wantReached[tier.DayThreshold])
		}
	}
	if res.NextTier == nil || res.NextTier.DayThreshold != 14 {
		t.Fatalf("NextTier = %+v, want 14-day tier", res.NextTier)
	}
	if res.ProgressPercent != 50 {
		t.Fatalf("ProgressPercent = %d, want 50 (7/14)", res.ProgressPercent)
	}
}

func TestEvaluateStreakAllTiersReached(t *testing.T) {
	days := make([]int, 0, 30)
	for d := 1; d <= 30; d++ {
		days = append(days, d)
	}
	res := EvaluateStreak(days, 30, true)
	if res.Streak != 30 {
		t.Fatalf("streak = %d, want 30", res.Streak)
	}
	if res.NextTier != nil {
		t.Fatalf("NextTier = %+v, want nil at max", res.NextTier)
	}
	if res.ProgressPercent != 100 {
		t.Fatalf("ProgressPercent = %d, want 100", res.ProgressPercent)
	}
}

func TestTierBonusAt(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{1, 0}, {2, 0}, {3, 20}, {4, 0}, {7, 50}, {14, 120}, {29, 0}, {30, 300}, {31, 0},
	}
	for _, c := range cases {
		if got := TierBonusAt(c.streak); got != c.want {
			t.Errorf("TierBonusAt(%d) = %d, want %d", c.streak, got, c.want)
		}
	}
}
