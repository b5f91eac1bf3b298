package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ambassador-program/internal/auth"
	"ambassador-program/internal/services"
)

type ReferralHandler struct {
	referralService *services.ReferralService
	payoutService   *services.PayoutService
}

func NewReferralHandler(referralService *services.ReferralService, payoutService *services.PayoutService) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		payoutService:   payoutService,
	}
}

// GetReferrals returns the authenticated ambassador's referrals.
func (h *ReferralHandler) GetReferrals(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	referrals, err := h.referralService.GetAmbassadorReferrals(ambassadorID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    referrals,
		"count":   len(referrals),
	})
}

// GetPayouts returns the authenticated ambassador's payouts.
func (h *ReferralHandler) GetPayouts(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payouts, err := h.payoutService.GetAmbassadorPayouts(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payouts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payouts,
		"count":   len(payouts),
	})
}
