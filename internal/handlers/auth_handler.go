package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ambassador-program/internal/auth"
	"ambassador-program/internal/services"
)

type AuthHandler struct {
	ambassadorService *services.AmbassadorService
	adminEmails       map[string]bool
}

// NewAuthHandler wires the authentication endpoints. adminEmails is
// the configured set of addresses that receive admin tokens; admin
// access bootstraps from configuration, there is no superuser row.
func NewAuthHandler(db *gorm.DB, adminEmails []string) *AuthHandler {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(email)] = true
	}
	return &AuthHandler{
		ambassadorService: services.NewAmbassadorService(db),
		adminEmails:       admins,
	}
}

func (h *AuthHandler) isAdmin(email string) bool {
	return h.adminEmails[strings.ToLower(email)]
}

// Enroll creates a new ambassador and returns an access token together
// with the freshly issued referral code.
func (h *AuthHandler) Enroll(c *gin.Context) {
	var req struct {
		Name  string  `json:"name" binding:"required"`
		Email string  `json:"email" binding:"required,email"`
		City  *string `json:"city"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ambassador, err := h.ambassadorService.Enroll(req.Name, req.Email, req.City)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := auth.GenerateToken(ambassador.ID, ambassador.Email, h.isAdmin(ambassador.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ambassador,
		"token":   token,
	})
}

// Token exchanges enrollment credentials (email + referral code) for an
// access token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ambassador, err := h.ambassadorService.GetByCredentials(req.Email, req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(ambassador.ID, ambassador.Email, h.isAdmin(ambassador.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}
