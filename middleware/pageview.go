package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/utils"
)

// PageViewRecorder counts successful GET requests per day and path. Writes go
// through a buffered channel so request latency is never blocked on the DB.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	type hit struct {
		date time.Time
		path string
	}
	hits := make(chan hit, 1024)

	go func() {
		for h := range hits {
			err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
			}).Create(&models.PageView{Date: h.date, Path: h.path, Count: 1}).Error
			if err != nil && utils.Sugar != nil {
				utils.Sugar.Warnf("pageview upsert failed path=%s err=%v", h.path, err)
			}
		}
	}()

	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" || c.Writer.Status() >= 400 {
			return
		}
		path := c.FullPath()
		if path == "" || strings.HasPrefix(path, "/health") {
			return
		}

		now := time.Now()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		select {
		case hits <- hit{date: day, path: path}:
		default:
			// channel full, drop the sample
		}
	}
}
