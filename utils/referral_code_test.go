package utils

import (
	"regexp"
	"testing"
)

func TestNewReferralCode(t *testing.T) {
	format := regexp.MustCompile(`^[0-9A-F]{8}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewReferralCode()
		if !format.MatchString(code) {
			t.Fatalf("code %q does not match expected 8-char uppercase hex format", code)
		}
		seen[code] = true
	}
	// 100 draws from a 32-bit space colliding would point at a broken generator.
	if len(seen) < 100 {
		t.Errorf("expected 100 distinct codes, got %d", len(seen))
	}
}
