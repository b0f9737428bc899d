package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/utils"
)

// TaskController serves the task catalog and records completions.
type TaskController struct {
	DB *gorm.DB
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{DB: db}
}

// periodKeyFor returns the completion period for a task type at time t:
// daily tasks reset every day, weekly every ISO week, everything else never.
func periodKeyFor(taskType string, t time.Time) string {
	switch taskType {
	case models.TaskTypeDaily:
		return t.Format("2006-01-02")
	case models.TaskTypeWeekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	default:
		return ""
	}
}

var errTaskAlreadyDone = errors.New("task already completed")

// completeTaskBySlug records a completion and credits the task's points
// inside the caller's transaction. Returns 0 without error when the task was
// already completed for the current period, so callers can treat rebinding
// actions (like reconnecting a wallet) as a no-op.
func completeTaskBySlug(tx *gorm.DB, userID uint, slug string) (int, error) {
	var task models.Task
	if err := tx.Where("slug = ?", slug).First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	pts, err := completeTask(tx, userID, &task)
	if err == errTaskAlreadyDone {
		return 0, nil
	}
	return pts, err
}

// completeTask inserts the completion row and credits points. The unique
// index on (user, task, period) makes the insert the idempotency barrier.
func completeTask(tx *gorm.DB, userID uint, task *models.Task) (int, error) {
	completion := models.TaskCompletion{
		UserID:    userID,
		TaskID:    task.ID,
		PeriodKey: periodKeyFor(task.Type, time.Now()),
		Points:    task.Points,
	}
	if err := tx.Create(&completion).Error; err != nil {
		if isDuplicateKey(err) {
			return 0, errTaskAlreadyDone
		}
		return 0, err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("total_points", gorm.Expr("total_points + ?", task.Points)).Error; err != nil {
		return 0, err
	}
	return task.Points, nil
}

type taskView struct {
	models.Task
	Completed bool `json:"completed"`
}

// List returns the catalog with per-caller completion state for the current period.
func (tc *TaskController) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	q := tc.DB.Order("id asc")
	if taskType := c.Query("type"); taskType != "" {
		q = q.Where("type = ?", taskType)
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		utils.Sugar.Errorf("task list failed: %v", err)
		utils.Error(c, 500, 50050, "failed to load tasks")
		return
	}

	var completions []models.TaskCompletion
	if err := tc.DB.Where("user_id = ?", userID).Find(&completions).Error; err != nil {
		utils.Error(c, 500, 50050, "failed to load tasks")
		return
	}
	now := time.Now()
	done := map[uint]map[string]bool{}
	for _, comp := range completions {
		if done[comp.TaskID] == nil {
			done[comp.TaskID] = map[string]bool{}
		}
		done[comp.TaskID][comp.PeriodKey] = true
	}

	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView{
			Task:      t,
			Completed: done[t.ID][periodKeyFor(t.Type, now)],
		})
	}
	utils.Success(c, gin.H{"tasks": views})
}

// Complete marks a task finished for the caller and credits its points.
func (tc *TaskController) Complete(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	slug := c.Param("slug")

	var task models.Task
	if err := tc.DB.Where("slug = ?", slug).First(&task).Error; err != nil {
		utils.Error(c, 404, 40450, "task not found")
		return
	}

	var awarded int
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		pts, err := completeTask(tx, userID, &task)
		if err != nil {
			return err
		}
		awarded = pts
		return nil
	})
	if err != nil {
		if errors.Is(err, errTaskAlreadyDone) {
			utils.Error(c, 409, 40950, "task already completed for this period")
			return
		}
		utils.Sugar.Errorf("task completion failed user=%d task=%s err=%v", userID, slug, err)
		utils.Error(c, 500, 50051, "failed to complete task")
		return
	}

	var user models.User
	_ = tc.DB.First(&user, userID).Error
	utils.InvalidateByPrefix("leaderboard:")
	utils.Success(c, gin.H{
		"slug":          task.Slug,
		"points_earned": awarded,
		"total_points":  user.TotalPoints,
	})
}
