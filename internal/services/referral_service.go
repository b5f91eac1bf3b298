package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ambassador-program/internal/models"
	"ambassador-program/internal/monitoring"
	"ambassador-program/internal/realtime"
)

type ReferralService struct {
	db              *gorm.DB
	notifier        *realtime.Notifier
	achievements    *AchievementService
	eligibilityDays int
}

func NewReferralService(db *gorm.DB, notifier *realtime.Notifier, eligibilityDays int) *ReferralService {
	return &ReferralService{
		db:              db,
		notifier:        notifier,
		achievements:    NewAchievementService(db, notifier),
		eligibilityDays: eligibilityDays,
	}
}

// RecordSaleInput describes a confirmed sale attributed to a referral
// code. OriginalReferralID is set for subscription renewals and points
// at the referral of the original sale.
type RecordSaleInput struct {
	Code               string
	SaleAmount         decimal.Decimal
	PlanName           string
	OriginalReferralID *uint
}

// RecordSale attributes a sale to an ambassador and records the
// resulting commission. Attribution failure (unknown or inactive code)
// is logged and returns (nil, nil): the underlying purchase must never
// be blocked by the referral program.
func (s *ReferralService) RecordSale(input RecordSaleInput) (*models.Referral, error) {
	var ambassador models.Ambassador
	err := s.db.Where("referral_code = ? AND is_active = ?", input.Code, true).First(&ambassador).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("Attribution skipped: no active ambassador for code %q", input.Code)
			return nil, nil
		}
		return nil, err
	}

	if input.SaleAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("sale amount must be positive")
	}

	var tiers []models.Tier
	if err := s.db.Order("min_sales ASC").Find(&tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to load tiers: %w", err)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier table is empty")
	}

	tier := s.currentTier(&ambassador, tiers)

	rate := tier.CommissionRate
	recurring := false
	if input.OriginalReferralID != nil {
		ok, err := s.withinRecurringWindow(&ambassador, *input.OriginalReferralID, tier.RecurringMonths)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Printf("Renewal outside recurring window for ambassador %d, no commission recorded", ambassador.ID)
			return nil, nil
		}
		rate = tier.RecurringRate
		recurring = true
	}

	commission := input.SaleAmount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)

	referral := models.Referral{
		AmbassadorID:       ambassador.ID,
		SaleAmount:         input.SaleAmount.Round(2),
		CommissionRate:     rate,
		CommissionAmount:   commission,
		PlanName:           input.PlanName,
		Status:             models.ReferralStatusPending,
		Recurring:          recurring,
		OriginalReferralID: input.OriginalReferralID,
		EligibleAt:         time.Now().AddDate(0, 0, s.eligibilityDays),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&referral).Error; err != nil {
			return fmt.Errorf("failed to create referral: %w", err)
		}

		// Counters are bumped with SQL-level increments so that
		// concurrent sales for the same ambassador never lose updates.
		if err := tx.Model(&models.Ambassador{}).Where("id = ?", ambassador.ID).
			Updates(map[string]interface{}{
				"pending_commission": gorm.Expr("pending_commission + ?", commission),
				"lifetime_sales":     gorm.Expr("lifetime_sales + ?", 1),
			}).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	kind := "one_time"
	if recurring {
		kind = "recurring"
	}
	monitoring.ReferralsRecorded.WithLabelValues(kind).Inc()

	if err := s.recalculateTier(ambassador.ID, tiers); err != nil {
		log.Printf("Tier recalculation failed for ambassador %d: %v", ambassador.ID, err)
	}

	if err := s.achievements.CheckAchievements(ambassador.ID); err != nil {
		log.Printf("Achievement check failed for ambassador %d: %v", ambassador.ID, err)
	}

	s.notifier.Publish(context.Background(), ambassador.ID, realtime.EventReferralCreated)

	log.Printf("Referral recorded: ambassador %d, sale %s, commission %s (%s)",
		ambassador.ID, referral.SaleAmount, commission, kind)
	return &referral, nil
}

// currentTier resolves the ambassador's tier from the loaded table,
// falling back to recomputing from lifetime sales when the stored tier
// id is stale or missing.
func (s *ReferralService) currentTier(ambassador *models.Ambassador, tiers []models.Tier) models.Tier {
	for _, tier := range tiers {
		if tier.ID == ambassador.TierID {
			return tier
		}
	}
	if tier := TierForSales(ambassador.LifetimeSales, tiers); tier != nil {
		return *tier
	}
	return tiers[0]
}

// withinRecurringWindow reports whether a renewal still earns recurring
// commission: the original referral must belong to the same ambassador
// and the renewal must fall within recurringMonths of the original sale.
func (s *ReferralService) withinRecurringWindow(ambassador *models.Ambassador, originalID uint, recurringMonths int) (bool, error) {
	if recurringMonths <= 0 {
		return false, nil
	}

	var original models.Referral
	if err := s.db.Where("id = ?", originalID).First(&original).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	if original.AmbassadorID != ambassador.ID {
		return false, nil
	}
	if original.Status == models.ReferralStatusCancelled {
		return false, nil
	}

	deadline := original.CreatedAt.AddDate(0, recurringMonths, 0)
	return time.Now().Before(deadline), nil
}

// recalculateTier enforces the invariant that an ambassador's tier is
// the highest tier whose threshold is <= lifetime sales.
func (s *ReferralService) recalculateTier(ambassadorID uint, tiers []models.Tier) error {
	var ambassador models.Ambassador
	if err := s.db.Where("id = ?", ambassadorID).First(&ambassador).Error; err != nil {
		return err
	}

	tier := TierForSales(ambassador.LifetimeSales, tiers)
	if tier == nil || tier.ID == ambassador.TierID {
		return nil
	}

	if err := s.db.Model(&models.Ambassador{}).Where("id = ?", ambassadorID).
		Update("tier_id", tier.ID).Error; err != nil {
		return err
	}

	s.notifier.Publish(context.Background(), ambassadorID, realtime.EventTierChanged)
	log.Printf("Ambassador %d moved to tier %s", ambassadorID, tier.Name)
	return nil
}

// Confirm transitions a referral from PENDING to CONFIRMED, typically
// driven by downstream payment confirmation.
func (s *ReferralService) Confirm(referralID uint) error {
	var referral models.Referral
	if err := s.db.Where("id = ?", referralID).First(&referral).Error; err != nil {
		return err
	}

	if referral.Status != models.ReferralStatusPending {
		return fmt.Errorf("cannot confirm referral in status %s", referral.Status)
	}

	now := time.Now()
	if err := s.db.Model(&referral).Updates(map[string]interface{}{
		"status":       models.ReferralStatusConfirmed,
		"confirmed_at": now,
	}).Error; err != nil {
		return err
	}

	s.notifier.Publish(context.Background(), referral.AmbassadorID, realtime.EventReferralConfirmed)
	return nil
}

// Cancel transitions a referral to CANCELLED from either pre-terminal
// state and reverses the counters the referral contributed. A PAID
// referral is immutable and can never be cancelled.
func (s *ReferralService) Cancel(referralID uint, reason string) error {
	var referral models.Referral
	if err := s.db.Where("id = ?", referralID).First(&referral).Error; err != nil {
		return err
	}

	switch referral.Status {
	case models.ReferralStatusPending, models.ReferralStatusConfirmed:
		// cancellable
	default:
		return fmt.Errorf("cannot cancel referral in status %s", referral.Status)
	}

	if referral.PayoutID != nil {
		return fmt.Errorf("referral %d is attached to payout %d, cancel the payout instead", referralID, *referral.PayoutID)
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&referral).Updates(map[string]interface{}{
			"status":        models.ReferralStatusCancelled,
			"cancel_reason": reason,
			"cancelled_at":  now,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Ambassador{}).Where("id = ?", referral.AmbassadorID).
			Updates(map[string]interface{}{
				"pending_commission": gorm.Expr("pending_commission - ?", referral.CommissionAmount),
				"lifetime_sales":     gorm.Expr("lifetime_sales - ?", 1),
			}).Error
	})
	if err != nil {
		return err
	}

	var tiers []models.Tier
	if err := s.db.Order("min_sales ASC").Find(&tiers).Error; err == nil && len(tiers) > 0 {
		if err := s.recalculateTier(referral.AmbassadorID, tiers); err != nil {
			log.Printf("Tier recalculation failed for ambassador %d: %v", referral.AmbassadorID, err)
		}
	}

	s.notifier.Publish(context.Background(), referral.AmbassadorID, realtime.EventReferralCancelled)
	log.Printf("Referral %d cancelled: %s", referralID, reason)
	return nil
}

// GetAmbassadorReferrals returns an ambassador's referrals, newest first.
func (s *ReferralService) GetAmbassadorReferrals(ambassadorID uint, limit int) ([]models.Referral, error) {
	var referrals []models.Referral
	query := s.db.Where("ambassador_id = ?", ambassadorID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}
