package controllers

import "testing"

func TestReferralBonusForCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 100},
		{4, 100},
		{5, 150},
		{9, 150},
		{10, 200},
		{25, 200},
	}
	for _, tt := range tests {
		if got := referralBonusForCount(tt.n); got != tt.want {
			t.Errorf("referralBonusForCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestReferralTierForCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, referralTierBronze},
		{4, referralTierBronze},
		{5, referralTierSilver},
		{9, referralTierSilver},
		{10, referralTierGold},
		{100, referralTierGold},
	}
	for _, tt := range tests {
		if got := referralTierForCount(tt.n); got != tt.want {
			t.Errorf("referralTierForCount(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestTierAndBonusAgree(t *testing.T) {
	// The bonus schedule and the tier labels share thresholds; a drift between
	// the two tables would misreport earnings on the referral page.
	for n := 1; n <= 30; n++ {
		bonus := referralBonusForCount(n)
		tier := referralTierForCount(n)
		switch tier {
		case referralTierBronze:
			if bonus != 100 {
				t.Errorf("count %d: bronze should pay 100, got %d", n, bonus)
			}
		case referralTierSilver:
			if bonus != 150 {
				t.Errorf("count %d: silver should pay 150, got %d", n, bonus)
			}
		case referralTierGold:
			if bonus != 200 {
				t.Errorf("count %d: gold should pay 200, got %d", n, bonus)
			}
		}
	}
}
