package main

import (
	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/routes"
	"github.com/KayaErtug/bolt-app/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Auto-migrate all models including the check-in ledger and PageView
	db := config.InitDatabase(
		&models.User{},
		&models.Checkin{},
		&models.Referral{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Preorder{},
		&models.PageView{},
	)

	// Seed the static task and achievement catalogs (no-op when already present)
	models.SeedTasks(db)
	models.SeedAchievements(db)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	utils.GraceServer(":"+cfg.AppPort, r)
}
