package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/points"
	"github.com/KayaErtug/bolt-app/utils"
)

// CheckinController handles the daily check-in ledger and the month view.
type CheckinController struct {
	DB *gorm.DB
}

func NewCheckinController(db *gorm.DB) *CheckinController {
	return &CheckinController{DB: db}
}

type checkinResponse struct {
	Year          int                 `json:"year"`
	Month         int                 `json:"month"`
	Day           int                 `json:"day"`
	PointsEarned  int                 `json:"points_earned"`
	TierBonus     int                 `json:"tier_bonus"`
	TotalPoints   int                 `json:"total_points"`
	Streak        points.StreakResult `json:"streak"`
	Level         points.LevelResult  `json:"level"`
}

// Checkin records today's check-in for the caller. The ledger's unique index
// is the idempotency barrier: a duplicate insert, racing or repeated, maps to
// the already-checked-in error without crediting points twice.
func (cc *CheckinController) Checkin(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Error(c, 401, 40101, "authentication required")
		return
	}

	now := time.Now()
	year, monthIdx, day := now.Year(), int(now.Month())-1, now.Day()
	reward := config.Get().CheckinRewardPoints

	var resp checkinResponse
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}

		entry := models.Checkin{UserID: userID, Year: year, Month: monthIdx, Day: day, Source: "web"}
		if err := tx.Create(&entry).Error; err != nil {
			if isDuplicateKey(err) {
				return errAlreadyCheckedIn
			}
			return err
		}

		streak, err := cc.streakAcrossMonths(tx, userID, year, monthIdx, day)
		if err != nil {
			return err
		}

		bonus := points.TierBonusAt(streak.Streak)
		user.TotalPoints += reward + bonus
		user.ConsecutiveDays = streak.Streak
		user.LastCheckinAt = &now
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"total_points":     user.TotalPoints,
			"consecutive_days": user.ConsecutiveDays,
			"last_checkin_at":  now,
		}).Error; err != nil {
			return err
		}

		resp = checkinResponse{
			Year:         year,
			Month:        monthIdx,
			Day:          day,
			PointsEarned: reward,
			TierBonus:    bonus,
			TotalPoints:  user.TotalPoints,
			Streak:       streak,
			Level:        points.LevelProgress(user.TotalPoints),
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errAlreadyCheckedIn) {
			utils.Error(c, 409, 40030, "already checked in today")
			return
		}
		utils.Sugar.Errorf("check-in failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50030, "check-in failed")
		return
	}

	utils.InvalidateByPrefix("leaderboard:")
	utils.Success(c, resp)
}

type monthViewResponse struct {
	Year        int                    `json:"year"`
	Month       int                    `json:"month"`
	CheckedDays []int                  `json:"checked_days"`
	MonthPoints int                    `json:"month_points"`
	Grid        points.MonthGridResult `json:"grid"`
	Streak      points.StreakResult    `json:"streak"`
}

// MonthView returns the calendar grid, checked days and streak state for a
// month. Month is zero-based; defaults to the current month.
func (cc *CheckinController) MonthView(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.Error(c, 401, 40101, "authentication required")
		return
	}

	now := time.Now()
	year := queryInt(c, "year", now.Year())
	monthIdx := queryInt(c, "month", int(now.Month())-1)
	if monthIdx < 0 || monthIdx > 11 || year < 2000 || year > 2200 {
		utils.Error(c, 400, 40031, "invalid year or month")
		return
	}

	days, err := cc.checkedDays(cc.DB, userID, year, monthIdx)
	if err != nil {
		utils.Sugar.Errorf("month view failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50031, "failed to load check-ins")
		return
	}

	isCurrent := year == now.Year() && monthIdx == int(now.Month())-1
	utils.Success(c, monthViewResponse{
		Year:        year,
		Month:       monthIdx,
		CheckedDays: days,
		MonthPoints: len(days) * config.Get().CheckinRewardPoints,
		Grid:        points.MonthGrid(year, monthIdx),
		Streak:      points.EvaluateStreak(days, now.Day(), isCurrent),
	})
}

var errAlreadyCheckedIn = errors.New("already checked in")

func (cc *CheckinController) checkedDays(tx *gorm.DB, userID uint, year, monthIdx int) ([]int, error) {
	var days []int
	err := tx.Model(&models.Checkin{}).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, monthIdx).
		Order("day asc").
		Pluck("day", &days).Error
	if err != nil {
		return nil, err
	}
	return utils.UniqueInts(days), nil
}

// streakAcrossMonths evaluates the streak ending today. When the run covers
// the whole month back to day 1, it keeps walking through the previous
// month's trailing days so a streak crossing a month boundary is not cut.
func (cc *CheckinController) streakAcrossMonths(tx *gorm.DB, userID uint, year, monthIdx, today int) (points.StreakResult, error) {
	days, err := cc.checkedDays(tx, userID, year, monthIdx)
	if err != nil {
		return points.StreakResult{}, err
	}
	res := points.EvaluateStreak(days, today, true)

	// Streak reaches day 1 of this month: extend into the previous month.
	if res.Streak > 0 && res.Streak == today {
		prevYear, prevMonth := year, monthIdx-1
		if prevMonth < 0 {
			prevMonth = 11
			prevYear--
		}
		prevDays, err := cc.checkedDays(tx, userID, prevYear, prevMonth)
		if err != nil {
			return points.StreakResult{}, err
		}
		lastDay := points.MonthGrid(prevYear, prevMonth).DaysInMonth
		set := make(map[int]bool, len(prevDays))
		for _, d := range prevDays {
			set[d] = true
		}
		for d := lastDay; d >= 1 && set[d]; d-- {
			res.Streak++
		}
		// re-derive tier state with the extended length
		extended := res.Streak
		res = points.EvaluateStreak(days, today, true)
		res.Streak = extended
		for i := range res.Tiers {
			res.Tiers[i].Reached = extended >= res.Tiers[i].DayThreshold
		}
		res.NextTier = nil
		for i := range res.Tiers {
			if !res.Tiers[i].Reached {
				next := res.Tiers[i]
				res.NextTier = &next
				break
			}
		}
		if res.NextTier == nil {
			res.ProgressPercent = 100
		} else {
			pct := extended * 100 / res.NextTier.DayThreshold
			if pct > 100 {
				pct = 100
			}
			res.ProgressPercent = pct
		}
	}
	return res, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint")
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
