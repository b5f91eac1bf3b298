package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ambassador-program/internal/models"
	"ambassador-program/internal/services"
)

type AdminHandler struct {
	db                *gorm.DB
	referralService   *services.ReferralService
	payoutService     *services.PayoutService
	tierService       *services.TierService
	ambassadorService *services.AmbassadorService
}

func NewAdminHandler(db *gorm.DB, referralService *services.ReferralService, payoutService *services.PayoutService) *AdminHandler {
	return &AdminHandler{
		db:                db,
		referralService:   referralService,
		payoutService:     payoutService,
		tierService:       services.NewTierService(db),
		ambassadorService: services.NewAmbassadorService(db),
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// RecordSale is the hook the payment pipeline calls when a sale carries
// a referral code. Attribution failures still answer 200: the sale is
// already done, the program just records nothing.
func (h *AdminHandler) RecordSale(c *gin.Context) {
	var req struct {
		Code               string `json:"code" binding:"required"`
		SaleAmount         string `json:"sale_amount" binding:"required"`
		PlanName           string `json:"plan_name"`
		OriginalReferralID *uint  `json:"original_referral_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.SaleAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale_amount"})
		return
	}

	referral, err := h.referralService.RecordSale(services.RecordSaleInput{
		Code:               req.Code,
		SaleAmount:         amount,
		PlanName:           req.PlanName,
		OriginalReferralID: req.OriginalReferralID,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"attributed": referral != nil,
		"data":       referral,
	})
}

// ConfirmReferral moves a referral from PENDING to CONFIRMED.
func (h *AdminHandler) ConfirmReferral(c *gin.Context) {
	referralID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.referralService.Confirm(referralID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelReferral voids a pending or confirmed referral.
func (h *AdminHandler) CancelReferral(c *gin.Context) {
	referralID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.referralService.Cancel(referralID, req.Reason); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AggregatePayouts runs the payout aggregation for a period on demand.
// Defaults to the previous calendar month when no period is given.
func (h *AdminHandler) AggregatePayouts(c *gin.Context) {
	var req struct {
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
	}
	_ = c.ShouldBindJSON(&req)

	periodStart, periodEnd := services.PreviousMonth(time.Now())
	if req.PeriodStart != "" && req.PeriodEnd != "" {
		var err error
		periodStart, err = time.Parse("2006-01-02", req.PeriodStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period_start"})
			return
		}
		periodEnd, err = time.Parse("2006-01-02", req.PeriodEnd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period_end"})
			return
		}
	}

	payouts, err := h.payoutService.AggregatePeriod(periodStart, periodEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payouts,
		"count":   len(payouts),
	})
}

// ListPayouts returns payouts across the program.
func (h *AdminHandler) ListPayouts(c *gin.Context) {
	payouts, err := h.payoutService.ListPayouts(c.Query("status"), 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payouts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payouts,
		"count":   len(payouts),
	})
}

// MarkPayoutPaid records external payment execution for a payout.
func (h *AdminHandler) MarkPayoutPaid(c *gin.Context) {
	payoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.payoutService.MarkPaid(payoutID, req.PaymentMethod); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelPayout voids a scheduled payout.
func (h *AdminHandler) CancelPayout(c *gin.Context) {
	payoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.payoutService.Cancel(payoutID, req.Reason); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateTier adds a tier to the ladder.
func (h *AdminHandler) CreateTier(c *gin.Context) {
	var tier models.Tier
	if err := c.ShouldBindJSON(&tier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tierService.CreateTier(&tier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    tier,
	})
}

// UpdateTier updates tier fields.
func (h *AdminHandler) UpdateTier(c *gin.Context) {
	tierID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tierService.UpdateTier(tierID, updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAmbassadors pages through the roster.
func (h *AdminHandler) ListAmbassadors(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	activeOnly := c.Query("active") == "true"

	ambassadors, total, err := h.ambassadorService.ListAmbassadors(offset, limit, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ambassadors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ambassadors,
		"total":   total,
	})
}

// DeactivateAmbassador removes an ambassador from the program without
// deleting history.
func (h *AdminHandler) DeactivateAmbassador(c *gin.Context) {
	ambassadorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ambassadorService.Deactivate(ambassadorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ReactivateAmbassador restores a deactivated ambassador.
func (h *AdminHandler) ReactivateAmbassador(c *gin.Context) {
	ambassadorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ambassadorService.Reactivate(ambassadorID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetProgramStats aggregates program-wide counters for the admin
// dashboard.
func (h *AdminHandler) GetProgramStats(c *gin.Context) {
	var ambassadorCount, activeCount, referralCount, clickCount int64
	h.db.Model(&models.Ambassador{}).Count(&ambassadorCount)
	h.db.Model(&models.Ambassador{}).Where("is_active = ?", true).Count(&activeCount)
	h.db.Model(&models.Referral{}).Count(&referralCount)
	h.db.Model(&models.Click{}).Count(&clickCount)

	var pendingCommission decimal.Decimal
	row := h.db.Model(&models.Referral{}).
		Where("status IN ?", []string{models.ReferralStatusPending, models.ReferralStatusConfirmed}).
		Select("COALESCE(SUM(commission_amount), 0)").Row()
	if err := row.Scan(&pendingCommission); err != nil {
		pendingCommission = decimal.Zero
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"ambassadors":        ambassadorCount,
			"active_ambassadors": activeCount,
			"referrals":          referralCount,
			"clicks":             clickCount,
			"pending_commission": pendingCommission,
		},
	})
}
