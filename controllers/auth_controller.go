package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/points"
	"github.com/KayaErtug/bolt-app/utils"
)

const tokenTTL = 72 * time.Hour

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_\-]{3,32}$`)
	walletRe   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// AuthController handles registration, login, OAuth, profile and wallet binding.
type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Captcha issues an image captcha for the registration form.
func (ac *AuthController) Captcha(c *gin.Context) {
	id, b64, err := utils.GenerateCaptcha()
	if err != nil {
		utils.Sugar.Errorf("captcha generate failed: %v", err)
		utils.Error(c, 500, 50001, "failed to generate captcha")
		return
	}
	utils.Success(c, gin.H{"captcha_id": id, "captcha_image": b64})
}

// SendEmailCode emails a verification code, rate limited per address.
func (ac *AuthController) SendEmailCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, 40001, "email is required")
		return
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		utils.Error(c, 400, 40002, "invalid email address")
		return
	}
	email := strings.ToLower(addr.Address)

	if remaining := utils.CodeCooldownRemaining(email, time.Minute); remaining > 0 {
		utils.Error(c, 429, 42902, fmt.Sprintf("please wait %d seconds before requesting another code", int(remaining.Seconds())+1))
		return
	}

	code := utils.GenerateNumericCode(6)
	utils.StoreEmailCode(email, code)
	if err := utils.SendVerificationCode(email, code); err != nil {
		utils.Sugar.Errorf("verification email failed to=%s err=%v", email, err)
		utils.Error(c, 500, 50002, "failed to send verification code")
		return
	}
	utils.Success(c, gin.H{"sent": true})
}

type registerRequest struct {
	Username      string `json:"username" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	EmailCode     string `json:"email_code" binding:"required"`
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
	ReferralCode  string `json:"referral_code"`
}

// Register creates an account. Referral attribution, code generation and the
// signup bonus all land in one transaction so a failed insert credits nothing.
func (ac *AuthController) Register(c *gin.Context) {
	ip := c.ClientIP()
	if ok, reason := utils.RegisterAllowed(ip); !ok {
		utils.Error(c, 429, 42903, reason)
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RecordRegisterFailure(ip)
		utils.Error(c, 400, 40003, "username, email, password and email_code are required")
		return
	}

	req.Username = utils.SanitizeStrict(req.Username)
	if !usernameRe.MatchString(req.Username) {
		utils.RecordRegisterFailure(ip)
		utils.Error(c, 400, 40004, "username must be 3-32 characters (letters, digits, _ or -)")
		return
	}
	if len(req.Password) < 8 {
		utils.RecordRegisterFailure(ip)
		utils.Error(c, 400, 40005, "password must be at least 8 characters")
		return
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		utils.RecordRegisterFailure(ip)
		utils.Error(c, 400, 40002, "invalid email address")
		return
	}
	email := strings.ToLower(addr.Address)

	if config.Get().RegisterCaptchaEnabled {
		if !utils.VerifyCaptcha(req.CaptchaID, req.CaptchaAnswer) {
			utils.RecordRegisterFailure(ip)
			utils.Error(c, 400, 40006, "captcha verification failed")
			return
		}
	}
	if !utils.VerifyEmailCode(email, req.EmailCode) {
		utils.RecordRegisterFailure(ip)
		utils.Error(c, 400, 40007, "email code is invalid or expired")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(c, 500, 50003, "failed to process password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Provider:     "local",
		RegisterIP:   ip,
		ReferralCode: utils.NewReferralCode(),
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errUsernameTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateKey(err) {
				return errUsernameTaken
			}
			return err
		}
		if req.ReferralCode != "" {
			if err := attributeReferral(tx, &user, strings.ToUpper(strings.TrimSpace(req.ReferralCode))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == errUsernameTaken {
			utils.RecordRegisterFailure(ip)
			utils.Error(c, 409, 40910, "username is already taken")
			return
		}
		utils.Sugar.Errorf("registration failed username=%s err=%v", req.Username, err)
		utils.Error(c, 500, 50004, "registration failed")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL)
	if err != nil {
		utils.Error(c, 500, 50005, "failed to issue token")
		return
	}
	utils.Success(c, gin.H{"token": token, "user": publicUser(&user)})
}

var errUsernameTaken = fmt.Errorf("username taken")

// attributeReferral links a fresh user to the owner of code and credits the
// tiered bonus. Self-referral is impossible here because the new user cannot
// own an existing code. The referrer row is locked to serialize tier counting.
func attributeReferral(tx *gorm.DB, newUser *models.User, code string) error {
	var referrer models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referral_code = ?", code).First(&referrer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil // unknown code: register anyway, no attribution
		}
		return err
	}

	var existing int64
	if err := tx.Model(&models.Referral{}).Where("referrer_id = ?", referrer.ID).Count(&existing).Error; err != nil {
		return err
	}
	bonus := referralBonusForCount(int(existing) + 1)

	ref := models.Referral{
		ReferrerID:  referrer.ID,
		ReferredID:  newUser.ID,
		Code:        code,
		BonusPoints: bonus,
		Status:      models.ReferralStatusActive,
	}
	if err := tx.Create(&ref).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", referrer.ID).
		Update("total_points", gorm.Expr("total_points + ?", bonus)).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", newUser.ID).
		Update("referred_by", referrer.ID).Error
}

// Login authenticates by username or email plus password.
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, 40008, "username and password are required")
		return
	}

	var user models.User
	err := ac.DB.Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Username)).First(&user).Error
	if err != nil || user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(c, 401, 40110, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL)
	if err != nil {
		utils.Error(c, 500, 50005, "failed to issue token")
		return
	}
	utils.Success(c, gin.H{"token": token, "user": publicUser(&user)})
}

// Logout blacklists the presented token until it would expire naturally.
func (ac *AuthController) Logout(c *gin.Context) {
	if v, ok := c.Get(middleware.ContextTokenKey); ok {
		if token, ok := v.(string); ok {
			utils.BlacklistToken(token, tokenTTL)
		}
	}
	utils.Success(c, gin.H{"logged_out": true})
}

// Me returns the caller's full profile with derived level and streak.
func (ac *AuthController) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		utils.Error(c, 404, 40410, "user not found")
		return
	}
	utils.Success(c, gin.H{
		"user":  publicUser(&user),
		"level": points.LevelProgress(user.TotalPoints),
	})
}

// UpdateProfile edits bio and avatar, sanitizing user-supplied HTML.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	var req struct {
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, 40009, "invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["bio"] = utils.SanitizeUGC(*req.Bio)
	}
	if req.AvatarURL != nil {
		avatar := utils.SanitizeStrict(*req.AvatarURL)
		if avatar != "" && !strings.HasPrefix(avatar, "https://") {
			utils.Error(c, 400, 40010, "avatar_url must be an https URL")
			return
		}
		updates["avatar_url"] = avatar
	}
	if len(updates) == 0 {
		utils.Error(c, 400, 40011, "nothing to update")
		return
	}

	if err := ac.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		utils.Sugar.Errorf("profile update failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50006, "failed to update profile")
		return
	}
	var user models.User
	_ = ac.DB.First(&user, userID).Error
	utils.Success(c, publicUser(&user))
}

// ConnectWallet binds an EVM address to the account and completes the
// connect-wallet task on first bind.
func (ac *AuthController) ConnectWallet(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, 40012, "address is required")
		return
	}
	address := strings.TrimSpace(req.Address)
	if !walletRe.MatchString(address) {
		utils.Error(c, 400, 40013, "address must be a 0x-prefixed 40-hex-char EVM address")
		return
	}

	var awarded int
	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("wallet_address", address).Error; err != nil {
			return err
		}
		pts, err := completeTaskBySlug(tx, userID, "connect-wallet")
		if err != nil {
			return err
		}
		awarded = pts
		return nil
	})
	if err != nil {
		utils.Sugar.Errorf("wallet connect failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50007, "failed to connect wallet")
		return
	}
	if awarded > 0 {
		utils.InvalidateByPrefix("leaderboard:")
	}
	utils.Success(c, gin.H{"wallet_address": address, "points_earned": awarded})
}

// PublicProfile returns the public view of any user by id.
func (ac *AuthController) PublicProfile(c *gin.Context) {
	var user models.User
	if err := ac.DB.First(&user, c.Param("id")).Error; err != nil {
		utils.Error(c, 404, 40410, "user not found")
		return
	}
	utils.Success(c, gin.H{
		"id":               user.ID,
		"username":         user.Username,
		"avatar_url":       user.AvatarURL,
		"bio":              user.Bio,
		"total_points":     user.TotalPoints,
		"consecutive_days": user.ConsecutiveDays,
		"level":            points.LevelProgress(user.TotalPoints),
		"joined_at":        user.CreatedAt,
	})
}

// GoogleLogin redirects the browser to Google's consent page.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	conf := ac.googleConfig()
	if conf.ClientID == "" {
		utils.Error(c, 503, 50310, "google sign-in is not configured")
		return
	}
	state := utils.NewOAuthState()
	c.Redirect(302, conf.AuthCodeURL(state))
}

// GoogleCallback exchanges the code, upserts the user and issues a JWT.
func (ac *AuthController) GoogleCallback(c *gin.Context) {
	if !utils.ConsumeOAuthState(c.Query("state")) {
		utils.Error(c, 400, 40014, "invalid oauth state")
		return
	}
	code := c.Query("code")
	if code == "" {
		utils.Error(c, 400, 40015, "missing authorization code")
		return
	}

	conf := ac.googleConfig()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		utils.Sugar.Warnf("google token exchange failed: %v", err)
		utils.Error(c, 401, 40111, "oauth exchange failed")
		return
	}

	client := conf.Client(ctx, tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		utils.Error(c, 502, 50210, "failed to fetch google profile")
		return
	}
	defer resp.Body.Close()
	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.ID == "" {
		utils.Error(c, 502, 50210, "failed to parse google profile")
		return
	}

	var user models.User
	err = ac.DB.Where("provider = ? AND provider_id = ?", "google", info.ID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			Username:     uniqueUsernameFrom(ac.DB, info.Email, info.Name),
			Email:        strings.ToLower(info.Email),
			Provider:     "google",
			ProviderID:   info.ID,
			AvatarURL:    info.Picture,
			RegisterIP:   c.ClientIP(),
			ReferralCode: utils.NewReferralCode(),
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			utils.Sugar.Errorf("google user create failed: %v", err)
			utils.Error(c, 500, 50004, "registration failed")
			return
		}
	} else if err != nil {
		utils.Error(c, 500, 50004, "login failed")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL)
	if err != nil {
		utils.Error(c, 500, 50005, "failed to issue token")
		return
	}
	utils.Success(c, gin.H{"token": token, "user": publicUser(&user)})
}

func (ac *AuthController) googleConfig() *oauth2.Config {
	cfg := config.Get()
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.OAuthRedirectBase + "/api/v1/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func uniqueUsernameFrom(db *gorm.DB, email, name string) string {
	base := ""
	if at := strings.IndexByte(email, '@'); at > 0 {
		base = email[:at]
	} else if name != "" {
		base = strings.ReplaceAll(strings.ToLower(name), " ", "_")
	}
	base = utils.SanitizeStrict(base)
	if len(base) < 3 {
		base = "user"
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for i := 0; i < 5; i++ {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err == nil && count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%s", base, strings.ToLower(utils.NewReferralCode()[:4]))
	}
	return candidate
}

func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":               u.ID,
		"username":         u.Username,
		"email":            u.Email,
		"avatar_url":       u.AvatarURL,
		"bio":              u.Bio,
		"wallet_address":   u.WalletAddress,
		"referral_code":    u.ReferralCode,
		"total_points":     u.TotalPoints,
		"consecutive_days": u.ConsecutiveDays,
		"last_checkin_at":  u.LastCheckinAt,
		"created_at":       u.CreatedAt,
	}
}
