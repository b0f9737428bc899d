package models

import "time"

// Referral statuses.
const (
	ReferralStatusPending = "pending"
	ReferralStatusActive  = "active"
)

// Referral records one successful sign-up attributed to an inviting user.
// BonusPoints stores the amount credited to the referrer at attribution time,
// which depends on the referrer's tier when the referral landed.
type Referral struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReferrerID  uint      `gorm:"index;not null" json:"referrer_id"`
	ReferredID  uint      `gorm:"uniqueIndex;not null" json:"referred_id"`
	Code        string    `gorm:"size:16;not null" json:"code"`
	BonusPoints int       `gorm:"not null" json:"bonus_points"`
	Status      string    `gorm:"size:16;default:'active'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
