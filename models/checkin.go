package models

import "time"

// Checkin is one entry of the append-only daily check-in ledger.
// Month is zero-based (0 = January) to match the client calendar convention.
// The composite unique index makes the write idempotent at the storage layer:
// two racing check-ins for the same day collapse into one row plus a duplicate
// key error, so no client-side existence check is needed.
type Checkin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_checkin_user_day;not null" json:"user_id"`
	Year      int       `gorm:"uniqueIndex:idx_checkin_user_day;not null" json:"year"`
	Month     int       `gorm:"uniqueIndex:idx_checkin_user_day;not null" json:"month"`
	Day       int       `gorm:"uniqueIndex:idx_checkin_user_day;not null" json:"day"`
	Source    string    `gorm:"size:16;default:'web'" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
