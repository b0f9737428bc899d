package models

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Task types. Daily and weekly tasks can be completed once per period,
// everything else exactly once.
const (
	TaskTypeDaily   = "daily"
	TaskTypeWeekly  = "weekly"
	TaskTypeSocial  = "social"
	TaskTypeQuiz    = "quiz"
	TaskTypeOneTime = "one-time"
)

// Task is an entry of the seeded task catalog.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:512" json:"description"`
	Points      int       `gorm:"not null" json:"points"`
	Type        string    `gorm:"size:16;not null;index" json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCompletion marks a task as completed by a user for a given period.
// PeriodKey is "" for one-time/social/quiz tasks, the date (2006-01-02) for
// daily tasks and the ISO year-week for weekly ones. The unique index gives
// the same storage-level idempotency as the check-in ledger.
type TaskCompletion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_task_user_period;not null" json:"user_id"`
	TaskID    uint      `gorm:"uniqueIndex:idx_task_user_period;not null" json:"task_id"`
	PeriodKey string    `gorm:"size:16;uniqueIndex:idx_task_user_period" json:"period_key"`
	Points    int       `gorm:"not null" json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// SeedTasks inserts the task catalog when missing. Existing rows are left untouched.
func SeedTasks(db *gorm.DB) {
	tasks := []Task{
		{Slug: "daily-checkin", Title: "Daily Check-in", Description: "Log in daily to earn bonus points", Points: 10, Type: TaskTypeDaily},
		{Slug: "follow-twitter", Title: "Follow on X", Description: "Follow Maris Coin on X (Twitter)", Points: 25, Type: TaskTypeSocial},
		{Slug: "join-telegram", Title: "Join Telegram", Description: "Join the official Telegram community", Points: 30, Type: TaskTypeSocial},
		{Slug: "share-post", Title: "Share Announcement", Description: "Share the weekly announcement post", Points: 50, Type: TaskTypeWeekly},
		{Slug: "connect-wallet", Title: "Connect Wallet", Description: "Link an EVM wallet to your profile", Points: 500, Type: TaskTypeOneTime},
		{Slug: "crypto-quiz", Title: "Crypto Basics Quiz", Description: "Score 80% or higher on the crypto basics quiz", Points: 75, Type: TaskTypeQuiz},
		{Slug: "maris-quiz", Title: "Maris Coin Quiz", Description: "Complete the Maris Coin whitepaper quiz", Points: 100, Type: TaskTypeQuiz},
	}
	for _, t := range tasks {
		var count int64
		if err := db.Model(&Task{}).Where("slug = ?", t.Slug).Count(&count).Error; err != nil {
			log.Printf("task seed check failed for %s: %v", t.Slug, err)
			continue
		}
		if count == 0 {
			if err := db.Create(&t).Error; err != nil {
				log.Printf("task seed insert failed for %s: %v", t.Slug, err)
			}
		}
	}
}
