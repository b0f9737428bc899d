package models

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Achievement criteria kinds, evaluated against user stats.
const (
	AchievementCriteriaPoints    = "points"    // total points >= threshold
	AchievementCriteriaReferrals = "referrals" // referral count >= threshold
	AchievementCriteriaStreak    = "streak"    // consecutive days >= threshold
	AchievementCriteriaTasks     = "tasks"     // completed tasks >= threshold
	AchievementCriteriaManual    = "manual"    // granted by operators only
)

// Achievement is a seeded badge definition. Criteria plus Threshold form the
// unlock predicate; Points is the one-time bonus granted on unlock.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"size:512" json:"description"`
	Icon        string    `gorm:"size:64" json:"icon"`
	Points      int       `gorm:"not null" json:"points"`
	Criteria    string    `gorm:"size:16;not null" json:"criteria"`
	Threshold   int       `gorm:"not null" json:"threshold"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAchievement records an unlocked badge. The unique index guarantees the
// unlock bonus is credited at most once.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;uniqueIndex:idx_achievement_user;not null" json:"user_id"`
	AchievementID uint      `gorm:"uniqueIndex:idx_achievement_user;not null" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// SeedAchievements inserts the badge catalog when missing.
func SeedAchievements(db *gorm.DB) {
	achievements := []Achievement{
		{Slug: "early-adopter", Title: "Early Adopter", Description: "Join during the launch campaign", Icon: "rocket", Points: 100, Criteria: AchievementCriteriaManual},
		{Slug: "social-butterfly", Title: "Social Butterfly", Description: "Complete 3 social tasks", Icon: "users", Points: 150, Criteria: AchievementCriteriaTasks, Threshold: 3},
		{Slug: "point-collector", Title: "Point Collector", Description: "Accumulate 1000 total points", Icon: "coins", Points: 200, Criteria: AchievementCriteriaPoints, Threshold: 1000},
		{Slug: "referral-master", Title: "Referral Master", Description: "Invite 10 friends to Maris Coin", Icon: "share", Points: 500, Criteria: AchievementCriteriaReferrals, Threshold: 10},
		{Slug: "quiz-champion", Title: "Quiz Champion", Description: "Complete every quiz task", Icon: "brain", Points: 300, Criteria: AchievementCriteriaTasks, Threshold: 5},
		{Slug: "streak-master", Title: "Streak Master", Description: "Check in 30 days in a row", Icon: "flame", Points: 250, Criteria: AchievementCriteriaStreak, Threshold: 30},
		{Slug: "community-leader", Title: "Community Leader", Description: "Accumulate 10000 total points", Icon: "crown", Points: 750, Criteria: AchievementCriteriaPoints, Threshold: 10000},
		{Slug: "beta-tester", Title: "Beta Tester", Description: "Participate in the beta program", Icon: "flask", Points: 100, Criteria: AchievementCriteriaManual},
	}
	for _, a := range achievements {
		var count int64
		if err := db.Model(&Achievement{}).Where("slug = ?", a.Slug).Count(&count).Error; err != nil {
			log.Printf("achievement seed check failed for %s: %v", a.Slug, err)
			continue
		}
		if count == 0 {
			if err := db.Create(&a).Error; err != nil {
				log.Printf("achievement seed insert failed for %s: %v", a.Slug, err)
			}
		}
	}
}
