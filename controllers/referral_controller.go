package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/utils"
)

// Referral tier table: the per-referral bonus grows with the referrer's
// lifetime referral count.
const (
	referralTierBronze = "Bronze"
	referralTierSilver = "Silver"
	referralTierGold   = "Gold"
)

// referralBonusForCount returns the bonus for the Nth referral (1-based).
func referralBonusForCount(n int) int {
	switch {
	case n >= 10:
		return 200
	case n >= 5:
		return 150
	default:
		return 100
	}
}

// referralTierForCount maps a lifetime referral count to its tier name.
func referralTierForCount(n int) string {
	switch {
	case n >= 10:
		return referralTierGold
	case n >= 5:
		return referralTierSilver
	default:
		return referralTierBronze
	}
}

// ReferralController exposes the caller's referral state and history.
type ReferralController struct {
	DB *gorm.DB
}

func NewReferralController(db *gorm.DB) *ReferralController {
	return &ReferralController{DB: db}
}

type referralSummary struct {
	Code          string `json:"code"`
	ShareURL      string `json:"share_url"`
	TotalReferred int    `json:"total_referred"`
	ActiveCount   int    `json:"active_count"`
	TotalEarned   int    `json:"total_earned"`
	EarnedMonth   int    `json:"earned_this_month"`
	Tier          string `json:"tier"`
	NextBonus     int    `json:"next_bonus"`
}

// Summary returns the caller's share code, tier and lifetime earnings.
func (rc *ReferralController) Summary(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var user models.User
	if err := rc.DB.First(&user, userID).Error; err != nil {
		utils.Error(c, 404, 40410, "user not found")
		return
	}

	var total int64
	if err := rc.DB.Model(&models.Referral{}).Where("referrer_id = ?", userID).Count(&total).Error; err != nil {
		utils.Sugar.Errorf("referral count failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50040, "failed to load referrals")
		return
	}
	var active int64
	if err := rc.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND status = ?", userID, models.ReferralStatusActive).
		Count(&active).Error; err != nil {
		utils.Error(c, 500, 50040, "failed to load referrals")
		return
	}
	var earned int64
	if err := rc.DB.Model(&models.Referral{}).Where("referrer_id = ?", userID).
		Select("COALESCE(SUM(bonus_points),0)").Scan(&earned).Error; err != nil {
		utils.Error(c, 500, 50040, "failed to load referrals")
		return
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var earnedMonth int64
	if err := rc.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND created_at >= ?", userID, monthStart).
		Select("COALESCE(SUM(bonus_points),0)").Scan(&earnedMonth).Error; err != nil {
		utils.Error(c, 500, 50040, "failed to load referrals")
		return
	}

	utils.Success(c, referralSummary{
		Code:          user.ReferralCode,
		ShareURL:      config.Get().PublicBaseURL + "/register?ref=" + user.ReferralCode,
		TotalReferred: int(total),
		ActiveCount:   int(active),
		TotalEarned:   int(earned),
		EarnedMonth:   int(earnedMonth),
		Tier:          referralTierForCount(int(total)),
		NextBonus:     referralBonusForCount(int(total) + 1),
	})
}

type referralEntry struct {
	Username    string `json:"username"`
	BonusPoints int    `json:"bonus_points"`
	Status      string `json:"status"`
	JoinedAt    string `json:"joined_at"`
}

// History lists who the caller referred, newest first.
func (rc *ReferralController) History(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var rows []struct {
		models.Referral
		Username string
	}
	err := rc.DB.Model(&models.Referral{}).
		Select("referrals.*, users.username").
		Joins("JOIN users ON users.id = referrals.referred_id").
		Where("referrals.referrer_id = ?", userID).
		Order("referrals.created_at desc").
		Limit(100).
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("referral history failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50041, "failed to load referral history")
		return
	}

	entries := make([]referralEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, referralEntry{
			Username:    r.Username,
			BonusPoints: r.BonusPoints,
			Status:      r.Status,
			JoinedAt:    r.CreatedAt.Format("2006-01-02"),
		})
	}
	utils.Success(c, gin.H{"referrals": entries})
}
