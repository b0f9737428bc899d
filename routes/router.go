package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/controllers"
	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/utils"
)

// SetupRouter wires middleware and all API routes.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	gin.SetMode(cfg.GinMode)

	r := gin.New()

	// Access log goes to its own rolling file so request noise stays out of the app log.
	accessLogger, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		accessLogger = utils.Logger
	}
	r.Use(utils.Ginzap(accessLogger, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(utils.Logger, true))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.Use(middleware.CountryFilter())
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authCtrl := controllers.NewAuthController(db)
	checkinCtrl := controllers.NewCheckinController(db)
	referralCtrl := controllers.NewReferralController(db)
	taskCtrl := controllers.NewTaskController(db)
	achievementCtrl := controllers.NewAchievementController(db)
	leaderboardCtrl := controllers.NewLeaderboardController(db)
	preorderCtrl := controllers.NewPreorderController(db)
	statsCtrl := controllers.NewStatsController(db)
	catalogCtrl := controllers.NewCatalogController()

	api := r.Group("/api/v1")

	// Public, rate limited per IP.
	public := api.Group("")
	public.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	{
		public.GET("/auth/captcha", authCtrl.Captcha)
		public.POST("/auth/email-code", authCtrl.SendEmailCode)
		public.POST("/auth/register", authCtrl.Register)
		public.POST("/auth/login", authCtrl.Login)
		public.GET("/auth/google", authCtrl.GoogleLogin)
		public.GET("/auth/google/callback", authCtrl.GoogleCallback)

		public.GET("/users/:id", authCtrl.PublicProfile)
		public.GET("/leaderboard", leaderboardCtrl.Top)
		public.GET("/stats", statsCtrl.Overview)
		public.GET("/config/rewards", catalogCtrl.Rewards)
		public.GET("/nft/collections", catalogCtrl.Collections)

		// Pre-orders accept guests; a logged-in caller gets the order linked.
		public.POST("/preorders", middleware.OptionalAuth(), preorderCtrl.Create)
	}

	// Authenticated.
	private := api.Group("")
	private.Use(middleware.Auth())
	{
		private.POST("/auth/logout", authCtrl.Logout)
		private.GET("/me", authCtrl.Me)
		private.PUT("/me", authCtrl.UpdateProfile)
		private.POST("/auth/wallet", authCtrl.ConnectWallet)

		private.POST("/checkins", checkinCtrl.Checkin)
		private.GET("/checkins", checkinCtrl.MonthView)

		private.GET("/referrals", referralCtrl.Summary)
		private.GET("/referrals/history", referralCtrl.History)

		private.GET("/tasks", taskCtrl.List)
		private.POST("/tasks/:slug/complete", taskCtrl.Complete)

		private.GET("/achievements", achievementCtrl.List)

		private.GET("/leaderboard/me", leaderboardCtrl.MyRank)
		private.GET("/preorders", preorderCtrl.Mine)
	}

	// Admin.
	admin := api.Group("/admin")
	admin.Use(middleware.Auth(), middleware.AdminOnly())
	{
		admin.POST("/achievements/grant", achievementCtrl.Grant)
	}

	return r
}
