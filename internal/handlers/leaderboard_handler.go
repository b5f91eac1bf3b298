package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ambassador-program/internal/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	defaultSize        int
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, defaultSize int) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		defaultSize:        defaultSize,
	}
}

// GetLeaderboard returns the public points leaderboard. `limit` can
// shrink the list but never grow it past the configured size.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := h.defaultSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	entries, err := h.leaderboardService.GetLeaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}
