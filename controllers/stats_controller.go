package controllers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/utils"
)

const statsCacheTTL = time.Minute

// StatsController serves aggregate campaign numbers for the public landing page.
type StatsController struct {
	DB *gorm.DB
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{DB: db}
}

type statsResponse struct {
	TotalUsers        int64 `json:"total_users"`
	CheckinsToday     int64 `json:"checkins_today"`
	PointsDistributed int64 `json:"points_distributed"`
	TotalPreorders    int64 `json:"total_preorders"`
	ActiveToday       int64 `json:"active_today"`
}

// Overview returns campaign-wide counters, cached briefly since every visitor hits it.
func (sc *StatsController) Overview(c *gin.Context) {
	const cacheKey = "stats:overview"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached statsResponse
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(c, cached)
			return
		}
	}

	now := time.Now()
	var resp statsResponse

	if err := sc.DB.Model(&models.User{}).Count(&resp.TotalUsers).Error; err != nil {
		utils.Sugar.Errorf("stats user count failed: %v", err)
		utils.Error(c, 500, 50090, "failed to load stats")
		return
	}
	if err := sc.DB.Model(&models.Checkin{}).
		Where("year = ? AND month = ? AND day = ?", now.Year(), int(now.Month())-1, now.Day()).
		Count(&resp.CheckinsToday).Error; err != nil {
		utils.Error(c, 500, 50090, "failed to load stats")
		return
	}
	if err := sc.DB.Model(&models.User{}).
		Select("COALESCE(SUM(total_points),0)").Scan(&resp.PointsDistributed).Error; err != nil {
		utils.Error(c, 500, 50090, "failed to load stats")
		return
	}
	if err := sc.DB.Model(&models.Preorder{}).Count(&resp.TotalPreorders).Error; err != nil {
		utils.Error(c, 500, 50090, "failed to load stats")
		return
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := sc.DB.Model(&models.PageView{}).
		Where("date = ?", day).
		Select("COALESCE(SUM(count),0)").Scan(&resp.ActiveToday).Error; err != nil {
		utils.Error(c, 500, 50090, "failed to load stats")
		return
	}

	utils.CacheSetJSON(cacheKey, resp, statsCacheTTL)
	utils.Success(c, resp)
}
