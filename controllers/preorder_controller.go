package controllers

import (
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KayaErtug/bolt-app/middleware"
	"github.com/KayaErtug/bolt-app/models"
	"github.com/KayaErtug/bolt-app/utils"
)

// PreorderController records NFT pre-order submissions. The row is the source
// of truth; the confirmation email is best-effort and never blocks the write.
type PreorderController struct {
	DB *gorm.DB
}

func NewPreorderController(db *gorm.DB) *PreorderController {
	return &PreorderController{DB: db}
}

type preorderRequest struct {
	NFTName  string `json:"nft_name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Email    string `json:"email" binding:"required"`
	ImageURL string `json:"image_url"`
}

// Create stores a pre-order. Works for guests too; authenticated callers get
// the order linked to their account.
func (pc *PreorderController) Create(c *gin.Context) {
	var req preorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, 40080, "nft_name, quantity and email are required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 100 {
		utils.Error(c, 400, 40081, "quantity must be between 1 and 100")
		return
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		utils.Error(c, 400, 40002, "invalid email address")
		return
	}
	email := strings.ToLower(addr.Address)
	nftName := utils.SanitizeStrict(req.NFTName)
	if nftName == "" {
		utils.Error(c, 400, 40082, "nft_name must not be empty")
		return
	}

	userID, _ := middleware.UserID(c) // zero for guests

	order := models.Preorder{
		UserID:   userID,
		NFTName:  nftName,
		Quantity: req.Quantity,
		Email:    email,
	}
	if err := pc.DB.Create(&order).Error; err != nil {
		utils.Sugar.Errorf("preorder insert failed err=%v", err)
		utils.Error(c, 500, 50080, "failed to store pre-order")
		return
	}

	// Email after the write, off the request path.
	go func(id uint, to, name, img string, qty int) {
		if err := utils.SendPreorderConfirmation(to, name, img, qty); err != nil {
			utils.Sugar.Warnf("preorder confirmation email failed order=%d err=%v", id, err)
			return
		}
		if err := pc.DB.Model(&models.Preorder{}).Where("id = ?", id).
			Update("email_sent", true).Error; err != nil {
			utils.Sugar.Warnf("preorder email flag update failed order=%d err=%v", id, err)
		}
	}(order.ID, email, nftName, utils.SanitizeStrict(req.ImageURL), req.Quantity)

	utils.Success(c, gin.H{"id": order.ID, "nft_name": order.NFTName, "quantity": order.Quantity})
}

// Mine lists the caller's pre-orders, newest first.
func (pc *PreorderController) Mine(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var orders []models.Preorder
	err := pc.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	if err != nil {
		utils.Sugar.Errorf("preorder list failed user=%d err=%v", userID, err)
		utils.Error(c, 500, 50081, "failed to load pre-orders")
		return
	}
	utils.Success(c, gin.H{"preorders": orders})
}
