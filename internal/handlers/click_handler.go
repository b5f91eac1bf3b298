package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ambassador-program/internal/auth"
	"ambassador-program/internal/services"
)

type ClickHandler struct {
	clickService *services.ClickService
}

func NewClickHandler(db *gorm.DB) *ClickHandler {
	return &ClickHandler{
		clickService: services.NewClickService(db),
	}
}

// Track records a click on an ambassador link. Public endpoint: always
// answers 204 so a bad code never breaks the visitor's redirect.
func (h *ClickHandler) Track(c *gin.Context) {
	code := c.Param("code")

	// Errors are swallowed on purpose: tracking must not leak failures
	// to the visitor.
	_ = h.clickService.RecordClick(
		code,
		c.Query("utm_source"),
		c.Query("utm_medium"),
		c.Query("path"),
	)

	c.Status(http.StatusNoContent)
}

// GetDailySeries returns the trailing 30-day click series.
func (h *ClickHandler) GetDailySeries(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	series, err := h.clickService.GetDailySeries(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load click series"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    series,
	})
}

// GetBreakdown returns the top UTM sources and mediums.
func (h *ClickHandler) GetBreakdown(c *gin.Context) {
	ambassadorID, exists := auth.GetAmbassadorID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sources, err := h.clickService.GetSourceBreakdown(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load breakdown"})
		return
	}

	mediums, err := h.clickService.GetMediumBreakdown(ambassadorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load breakdown"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"sources": sources,
			"mediums": mediums,
		},
	})
}
