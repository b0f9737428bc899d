package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReferralCode derives a short uppercase share code from a random UUID.
// Eight hex chars give ~4 billion combinations, plenty at this user scale;
// the unique index on the column catches the rare collision and callers retry.
func NewReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
