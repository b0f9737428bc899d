package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/KayaErtug/bolt-app/config"
	"github.com/KayaErtug/bolt-app/points"
	"github.com/KayaErtug/bolt-app/utils"
)

// CatalogController serves static campaign configuration the client renders:
// the streak reward table and the NFT collection showcase.
type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

// Rewards returns the check-in reward and streak tier table.
func (cc *CatalogController) Rewards(c *gin.Context) {
	utils.Success(c, gin.H{
		"checkin_points":   config.Get().CheckinRewardPoints,
		"points_per_level": points.PointsPerLevel,
		"tiers":            points.DefaultRewardTiers(),
	})
}

type nftCollection struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
	Supply      int    `json:"supply"`
	PriceLabel  string `json:"price_label"`
}

// Collections returns the NFT showcase used by the pre-order page.
func (cc *CatalogController) Collections(c *gin.Context) {
	base := config.Get().PublicBaseURL
	items := []nftCollection{
		{Name: "Maris Genesis", Description: "The founding collection of the Maris Coin universe", ImagePath: base + "/nft/genesis.png", Supply: 1000, PriceLabel: "0.05 ETH"},
		{Name: "Maris Voyager", Description: "For explorers of the deep", ImagePath: base + "/nft/voyager.png", Supply: 2500, PriceLabel: "0.03 ETH"},
		{Name: "Maris Guardian", Description: "Limited guardian badge with staking boost", ImagePath: base + "/nft/guardian.png", Supply: 500, PriceLabel: "0.1 ETH"},
	}
	utils.Success(c, gin.H{"collections": items})
}
