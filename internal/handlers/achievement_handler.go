package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ambassador-program/internal/auth"
	"ambassador-program/internal/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

// GetAchievements returns every unlock for the ambassador.
func (h *AchievementHandler) GetAchievements(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	unlocks, err := h.achievementService.GetAmbassadorAchievements(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    unlocks,
		"count":   len(unlocks),
	})
}

// GetUnnotified returns unlocks the client has not shown yet.
func (h *AchievementHandler) GetUnnotified(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	unlocks, err := h.achievementService.GetUnnotified(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    unlocks,
		"count":   len(unlocks),
	})
}

// MarkNotified consumes achievement notifications after display.
func (h *AchievementHandler) MarkNotified(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		IDs []uint `json:"ids" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.achievementService.MarkNotified(ambassadorID, req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
