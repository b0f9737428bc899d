package models

import "time"

// Preorder stores an NFT pre-order form submission. UserID is zero for guest
// submissions; the confirmation email is best-effort and tracked in EmailSent.
type Preorder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;default:0" json:"user_id"`
	NFTName   string    `gorm:"size:128;not null" json:"nft_name"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	EmailSent bool      `gorm:"default:false" json:"email_sent"`
	CreatedAt time.Time `json:"created_at"`
}
