package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ambassador-program/internal/auth"
	"ambassador-program/internal/services"
)

type AmbassadorHandler struct {
	ambassadorService *services.AmbassadorService
	tierService       *services.TierService
	referralService   *services.ReferralService
	clickService      *services.ClickService
}

func NewAmbassadorHandler(db *gorm.DB, referralService *services.ReferralService) *AmbassadorHandler {
	return &AmbassadorHandler{
		ambassadorService: services.NewAmbassadorService(db),
		tierService:       services.NewTierService(db),
		referralService:   referralService,
		clickService:      services.NewClickService(db),
	}
}

// GetProfile returns the authenticated ambassador with tier details.
func (h *AmbassadorHandler) GetProfile(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ambassador, err := h.ambassadorService.GetByID(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ambassador,
	})
}

// GetDashboard returns the ambassador dashboard payload: counters, tier
// progress, recent referrals and all-time clicks in one call.
func (h *AmbassadorHandler) GetDashboard(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ambassador, err := h.ambassadorService.GetByID(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dashboard"})
		return
	}

	progress, err := h.tierService.GetProgress(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tier progress"})
		return
	}

	recentReferrals, err := h.referralService.GetAmbassadorReferrals(ambassadorID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load referrals"})
		return
	}

	totalClicks, _ := h.clickService.GetTotalClicks(ambassadorID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"ambassador":       ambassador,
			"tier_progress":    progress,
			"recent_referrals": recentReferrals,
			"total_clicks":     totalClicks,
		},
	})
}

// GetTierProgress returns only the tier progress computation.
func (h *AmbassadorHandler) GetTierProgress(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	progress, err := h.tierService.GetProgress(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tier progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    progress,
	})
}

// GetTiers returns the public tier ladder.
func (h *AmbassadorHandler) GetTiers(c *gin.Context) {
	tiers, err := h.tierService.ListTiers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tiers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tiers,
	})
}
