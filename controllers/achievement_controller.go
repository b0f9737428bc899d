package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/utils"
)

// AchievementController lists badges and lazily evaluates unlock criteria.
type AchievementController struct {
	DB *gorm.DB
}

func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{DB: db}
}

type achievementView struct {
	models.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// List returns every badge with the caller's unlock state, evaluating
// criteria-based unlocks on the way so badges appear without a write path of
// their own. Each unlock credits its bonus exactly once via the unique index.
func (ac *AchievementController) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	newlyUnlocked, err := ac.evaluate(userID)
	if err != nil {
		utils.Sugar.Errorf("achievement evaluation failed user=%d err=%v", userID, err)
		// evaluation failure should not hide the list; fall through
	}

	var all []models.Achievement
	if err := ac.DB.Order("id asc").Find(&all).Error; err != nil {
		utils.Error(c, 500, 50060, "failed to load achievements")
		return
	}
	var unlocked []models.UserAchievement
	if err := ac.DB.Where("user_id = ?", userID).Find(&unlocked).Error; err != nil {
		utils.Error(c, 500, 50060, "failed to load achievements")
		return
	}
	unlockedAt := make(map[uint]time.Time, len(unlocked))
	for _, ua := range unlocked {
		unlockedAt[ua.AchievementID] = ua.UnlockedAt
	}

	views := make([]achievementView, 0, len(all))
	for _, a := range all {
		v := achievementView{Achievement: a}
		if at, ok := unlockedAt[a.ID]; ok {
			v.Unlocked = true
			t := at
			v.UnlockedAt = &t
		}
		views = append(views, v)
	}

	if len(newlyUnlocked) > 0 {
		utils.InvalidateByPrefix("leaderboard:")
	}
	utils.Success(c, gin.H{"achievements": views, "newly_unlocked": newlyUnlocked})
}

// evaluate checks every criteria-based badge against the user's current
// stats and unlocks those whose threshold is met. Returns slugs unlocked now.
func (ac *AchievementController) evaluate(userID uint) ([]string, error) {
	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var referralCount int64
	if err := ac.DB.Model(&models.Referral{}).Where("referrer_id = ?", userID).Count(&referralCount).Error; err != nil {
		return nil, err
	}
	var taskCount int64
	if err := ac.DB.Model(&models.TaskCompletion{}).Where("user_id = ?", userID).Count(&taskCount).Error; err != nil {
		return nil, err
	}

	var candidates []models.Achievement
	if err := ac.DB.Where("criteria <> ?", models.AchievementCriteriaManual).Find(&candidates).Error; err != nil {
		return nil, err
	}

	var newly []string
	for _, a := range candidates {
		met := false
		switch a.Criteria {
		case models.AchievementCriteriaPoints:
			met = user.TotalPoints >= a.Threshold
		case models.AchievementCriteriaReferrals:
			met = int(referralCount) >= a.Threshold
		case models.AchievementCriteriaStreak:
			met = user.ConsecutiveDays >= a.Threshold
		case models.AchievementCriteriaTasks:
			met = int(taskCount) >= a.Threshold
		}
		if !met {
			continue
		}

		badge := a
		err := ac.DB.Transaction(func(tx *gorm.DB) error {
			ua := models.UserAchievement{UserID: userID, AchievementID: badge.ID, UnlockedAt: time.Now()}
			if err := tx.Create(&ua).Error; err != nil {
				if isDuplicateKey(err) {
					return nil // already unlocked
				}
				return err
			}
			newly = append(newly, badge.Slug)
			return tx.Model(&models.User{}).Where("id = ?", userID).
				Update("total_points", gorm.Expr("total_points + ?", badge.Points)).Error
		})
		if err != nil {
			return newly, err
		}
	}
	return newly, nil
}

// Grant unlocks a manual badge for a user, restricted to admin callers.
func (ac *AchievementController) Grant(c *gin.Context) {
	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Slug   string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, 40060, "user_id and slug are required")
		return
	}

	var badge models.Achievement
	if err := ac.DB.Where("slug = ?", req.Slug).First(&badge).Error; err != nil {
		utils.Error(c, 404, 40460, "achievement not found")
		return
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		ua := models.UserAchievement{UserID: req.UserID, AchievementID: badge.ID, UnlockedAt: time.Now()}
		if err := tx.Create(&ua).Error; err != nil {
			if isDuplicateKey(err) {
				return errAlreadyUnlocked
			}
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", req.UserID).
			Update("total_points", gorm.Expr("total_points + ?", badge.Points)).Error
	})
	if err != nil {
		if err == errAlreadyUnlocked {
			utils.Error(c, 409, 40960, "achievement already unlocked")
			return
		}
		utils.Sugar.Errorf("achievement grant failed user=%d slug=%s err=%v", req.UserID, req.Slug, err)
		utils.Error(c, 500, 50061, "failed to grant achievement")
		return
	}
	utils.InvalidateByPrefix("leaderboard:")
	utils.Success(c, gin.H{"granted": req.Slug, "user_id": req.UserID})
}

var errAlreadyUnlocked = errors.New("achievement already unlocked")
