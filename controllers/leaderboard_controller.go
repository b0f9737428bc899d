package controllers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/points"
	"github.com/KayaErtug/bolt-app/utils"
)

const (
	leaderboardTTL  = 5 * time.Minute
	leaderboardSize = 100
)

// LeaderboardController serves the points ranking, cached in Redis because
// the top list changes slowly relative to how often the page is opened.
type LeaderboardController struct {
	DB *gorm.DB
}

func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{DB: db}
}

type leaderboardRow struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url"`
	TotalPoints int    `json:"total_points"`
	Level       int    `json:"level"`
}

// Top returns the highest-scoring users.
func (lc *LeaderboardController) Top(c *gin.Context) {
	limit := queryInt(c, "limit", leaderboardSize)
	if limit < 1 || limit > leaderboardSize {
		limit = leaderboardSize
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached []leaderboardRow
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(c, gin.H{"leaderboard": cached, "cached": true})
			return
		}
	}

	var users []models.User
	err := lc.DB.Order("total_points desc, id asc").Limit(limit).Find(&users).Error
	if err != nil {
		utils.Sugar.Errorf("leaderboard query failed: %v", err)
		utils.Error(c, 500, 50070, "failed to load leaderboard")
		return
	}

	rows := make([]leaderboardRow, 0, len(users))
	for i, u := range users {
		rows = append(rows, leaderboardRow{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			AvatarURL:   u.AvatarURL,
			TotalPoints: u.TotalPoints,
			Level:       points.LevelProgress(u.TotalPoints).Level,
		})
	}

	utils.CacheSetJSON(cacheKey, rows, leaderboardTTL)
	utils.Success(c, gin.H{"leaderboard": rows, "cached": false})
}

// MyRank returns the caller's position. Ties resolve in favor of the earlier
// account, matching the ordering of Top.
func (lc *LeaderboardController) MyRank(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var user models.User
	if err := lc.DB.First(&user, userID).Error; err != nil {
		utils.Error(c, 404, 40410, "user not found")
		return
	}

	var ahead int64
	err := lc.DB.Model(&models.User{}).
		Where("total_points > ? OR (total_points = ? AND id < ?)", user.TotalPoints, user.TotalPoints, user.ID).
		Count(&ahead).Error
	if err != nil {
		utils.Sugar.Errorf("rank query failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50071, "failed to compute rank")
		return
	}

	utils.Success(c, gin.H{
		"rank":         ahead + 1,
		"total_points": user.TotalPoints,
		"level":        points.LevelProgress(user.TotalPoints),
	})
}
