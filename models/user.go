package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a Maris Coin dashboard account. Passwords are stored as bcrypt hashes only.
// Level is never stored: it is always derived from TotalPoints (see the points package).
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email         string         `gorm:"size:255" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Provider      string         `gorm:"size:32" json:"provider"`
	ProviderID    string         `gorm:"size:255" json:"provider_id"`
	RegisterIP    string         `gorm:"size:45" json:"register_ip"`
	AvatarURL     string         `gorm:"size:512" json:"avatar_url"`
	Bio           string         `gorm:"size:255" json:"bio"`
	WalletAddress string         `gorm:"size:64" json:"wallet_address"`
	ReferralCode  string         `gorm:"size:16;uniqueIndex" json:"referral_code"`
	ReferredBy    uint           `gorm:"index;default:0" json:"referred_by"`
	TotalPoints   int            `gorm:"default:0" json:"total_points"`
	// Streak bookkeeping kept on the user row for cheap display; the check-in
	// ledger remains the source of truth and these are recomputed on every check-in.
	ConsecutiveDays int        `gorm:"default:0" json:"consecutive_days"`
	LastCheckinAt   *time.Time `json:"last_checkin_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
