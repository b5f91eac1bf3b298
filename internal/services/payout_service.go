package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ambassador-program/internal/models"
	"ambassador-program/internal/monitoring"
	"ambassador-program/internal/realtime"
)

type PayoutService struct {
	db                 *gorm.DB
	notifier           *realtime.Notifier
	withholdingPercent decimal.Decimal
}

func NewPayoutService(db *gorm.DB, notifier *realtime.Notifier, withholdingPercent float64) *PayoutService {
	return &PayoutService{
		db:                 db,
		notifier:           notifier,
		withholdingPercent: decimal.NewFromFloat(withholdingPercent),
	}
}

// AggregatePeriod groups every confirmed, not-yet-assigned referral
// whose eligibility date falls before the period end into one payout
// per ambassador. Re-running over the same period is a no-op for
// referrals already attached to a payout.
func (s *PayoutService) AggregatePeriod(periodStart, periodEnd time.Time) ([]models.Payout, error) {
	var ambassadorIDs []uint
	if err := s.db.Model(&models.Referral{}).
		Where("status = ? AND payout_id IS NULL AND eligible_at < ?", models.ReferralStatusConfirmed, periodEnd).
		Distinct("ambassador_id").
		Pluck("ambassador_id", &ambassadorIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to find ambassadors with payable referrals: %w", err)
	}

	var payouts []models.Payout
	for _, ambassadorID := range ambassadorIDs {
		payout, err := s.aggregateAmbassador(ambassadorID, periodStart, periodEnd)
		if err != nil {
			log.Printf("Payout aggregation failed for ambassador %d: %v", ambassadorID, err)
			continue
		}
		if payout != nil {
			payouts = append(payouts, *payout)
		}
	}

	log.Printf("Payout aggregation for %s..%s produced %d payouts",
		periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"), len(payouts))
	return payouts, nil
}

func (s *PayoutService) aggregateAmbassador(ambassadorID uint, periodStart, periodEnd time.Time) (*models.Payout, error) {
	var payout *models.Payout

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var referrals []models.Referral
		if err := tx.Where("ambassador_id = ? AND status = ? AND payout_id IS NULL AND eligible_at < ?",
			ambassadorID, models.ReferralStatusConfirmed, periodEnd).
			Find(&referrals).Error; err != nil {
			return err
		}
		if len(referrals) == 0 {
			return nil
		}

		gross := decimal.Zero
		for _, referral := range referrals {
			gross = gross.Add(referral.CommissionAmount)
		}
		gross = gross.Round(2)

		withheld := gross.Mul(s.withholdingPercent).Div(decimal.NewFromInt(100)).Round(2)
		net := gross.Sub(withheld)

		created := models.Payout{
			Reference:    uuid.New().String(),
			AmbassadorID: ambassadorID,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
			TotalSales:   len(referrals),
			GrossAmount:  gross,
			NetAmount:    net,
			Status:       models.PayoutStatusScheduled,
			ScheduledAt:  periodEnd,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create payout: %w", err)
		}

		referralIDs := make([]uint, len(referrals))
		for i, referral := range referrals {
			referralIDs[i] = referral.ID
		}
		if err := tx.Model(&models.Referral{}).Where("id IN ?", referralIDs).
			Update("payout_id", created.ID).Error; err != nil {
			return err
		}

		payout = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if payout != nil {
		monitoring.PayoutsScheduled.Inc()
		s.notifier.Publish(context.Background(), ambassadorID, realtime.EventPayoutScheduled)
	}
	return payout, nil
}

// MarkPaid records a successful external payment execution: the payout
// and its underlying referrals move to PAID, the ambassador's pending
// commission is released and lifetime earnings grow by the net amount.
// Referrals under a paid payout are immutable from here on.
func (s *PayoutService) MarkPaid(payoutID uint, paymentMethod string) error {
	var payout models.Payout
	if err := s.db.Where("id = ?", payoutID).First(&payout).Error; err != nil {
		return err
	}

	if payout.Status != models.PayoutStatusScheduled && payout.Status != models.PayoutStatusPending {
		return fmt.Errorf("cannot mark payout in status %s as paid", payout.Status)
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&payout).Updates(map[string]interface{}{
			"status":         models.PayoutStatusPaid,
			"paid_at":        now,
			"payment_method": paymentMethod,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Referral{}).
			Where("payout_id = ? AND status = ?", payout.ID, models.ReferralStatusConfirmed).
			Updates(map[string]interface{}{
				"status":  models.ReferralStatusPaid,
				"paid_at": now,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Ambassador{}).Where("id = ?", payout.AmbassadorID).
			Updates(map[string]interface{}{
				"pending_commission": gorm.Expr("pending_commission - ?", payout.GrossAmount),
				"lifetime_earnings":  gorm.Expr("lifetime_earnings + ?", payout.NetAmount),
			}).Error
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(context.Background(), payout.AmbassadorID, realtime.EventPayoutPaid)
	log.Printf("Payout %s paid: ambassador %d, net %s via %s",
		payout.Reference, payout.AmbassadorID, payout.NetAmount, paymentMethod)
	return nil
}

// Cancel voids a scheduled payout. Its referrals detach and return to
// the pool of confirmed commissions for a future aggregation run.
func (s *PayoutService) Cancel(payoutID uint, reason string) error {
	var payout models.Payout
	if err := s.db.Where("id = ?", payoutID).First(&payout).Error; err != nil {
		return err
	}

	if payout.Status == models.PayoutStatusPaid || payout.Status == models.PayoutStatusCancelled {
		return fmt.Errorf("cannot cancel payout in status %s", payout.Status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&payout).Updates(map[string]interface{}{
			"status":        models.PayoutStatusCancelled,
			"cancel_reason": reason,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Referral{}).Where("payout_id = ?", payout.ID).
			Update("payout_id", nil).Error
	})
}

// GetAmbassadorPayouts returns an ambassador's payouts, newest first.
func (s *PayoutService) GetAmbassadorPayouts(ambassadorID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	if err := s.db.Where("ambassador_id = ?", ambassadorID).
		Order("created_at DESC").
		Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

// ListPayouts returns payouts across the program, optionally filtered
// by status.
func (s *PayoutService) ListPayouts(status string, limit int) ([]models.Payout, error) {
	query := s.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var payouts []models.Payout
	if err := query.Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}
