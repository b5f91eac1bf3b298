package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ambassador-program/internal/models"
)

func TestRecordSaleCommissionForSilverTier(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	prata := tiers[1]
	ambassador := createAmbassador(t, db, "PRATA123", prata.ID, 10)

	service := NewReferralService(db, nil, 7)

	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "PRATA123",
		SaleAmount: decimal.NewFromInt(100),
		PlanName:   "Plano Anual",
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	if referral == nil {
		t.Fatal("expected referral to be recorded")
	}

	want := decimal.NewFromInt(8)
	if !referral.CommissionAmount.Equal(want) {
		t.Errorf("expected commission R$8.00, got %s", referral.CommissionAmount)
	}
	if referral.Status != models.ReferralStatusPending {
		t.Errorf("expected status PENDING, got %s", referral.Status)
	}
	if referral.Recurring {
		t.Error("one-time sale must not be marked recurring")
	}

	var updated models.Ambassador
	if err := db.First(&updated, ambassador.ID).Error; err != nil {
		t.Fatalf("failed to reload ambassador: %v", err)
	}
	if updated.LifetimeSales != 11 {
		t.Errorf("expected lifetime sales 11, got %d", updated.LifetimeSales)
	}
	if !updated.PendingCommission.Equal(want) {
		t.Errorf("expected pending commission %s, got %s", want, updated.PendingCommission)
	}
}

func TestRecordSaleRoundsCommissionToTwoDecimals(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	createAmbassador(t, db, "ROUND123", tiers[0].ID, 0)

	service := NewReferralService(db, nil, 7)

	// 5% of R$33.33 = 1.6665, rounds to R$1.67
	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "ROUND123",
		SaleAmount: decimal.RequireFromString("33.33"),
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	want := decimal.RequireFromString("1.67")
	if !referral.CommissionAmount.Equal(want) {
		t.Errorf("expected commission %s, got %s", want, referral.CommissionAmount)
	}
}

func TestRecordSaleUnknownCodeDoesNotBlockSale(t *testing.T) {
	db := setupTestDB(t)
	seedTiers(t, db)

	service := NewReferralService(db, nil, 7)

	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "NOPE",
		SaleAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("attribution failure must not return an error, got: %v", err)
	}
	if referral != nil {
		t.Errorf("expected no referral for unknown code, got %+v", referral)
	}
}

func TestRecordSaleInactiveAmbassadorIgnored(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	ambassador := createAmbassador(t, db, "GONE1234", tiers[0].ID, 0)
	db.Model(ambassador).Update("is_active", false)

	service := NewReferralService(db, nil, 7)

	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "GONE1234",
		SaleAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("inactive code must not return an error, got: %v", err)
	}
	if referral != nil {
		t.Error("inactive ambassador must not attribute sales")
	}
}

func TestRecordSalePromotesTierAtBoundary(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	bronze, prata := tiers[0], tiers[1]
	ambassador := createAmbassador(t, db, "PROMO123", bronze.ID, 9)

	service := NewReferralService(db, nil, 7)

	// Commission comes from the tier at time of sale (Bronze), the
	// promotion applies from the next sale onward.
	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "PROMO123",
		SaleAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	if !referral.CommissionAmount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected Bronze commission R$5.00, got %s", referral.CommissionAmount)
	}

	var updated models.Ambassador
	if err := db.First(&updated, ambassador.ID).Error; err != nil {
		t.Fatalf("failed to reload ambassador: %v", err)
	}
	if updated.LifetimeSales != 10 {
		t.Errorf("expected lifetime sales 10, got %d", updated.LifetimeSales)
	}
	if updated.TierID != prata.ID {
		t.Errorf("expected promotion to Prata (tier %d), got tier %d", prata.ID, updated.TierID)
	}
}

func TestRecordSaleRecurringWithinWindow(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	prata := tiers[1]
	createAmbassador(t, db, "RECUR123", prata.ID, 10)

	service := NewReferralService(db, nil, 7)

	original, err := service.RecordSale(RecordSaleInput{
		Code:       "RECUR123",
		SaleAmount: decimal.NewFromInt(100),
		PlanName:   "Assinatura Mensal",
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	renewal, err := service.RecordSale(RecordSaleInput{
		Code:               "RECUR123",
		SaleAmount:         decimal.NewFromInt(100),
		PlanName:           "Assinatura Mensal",
		OriginalReferralID: &original.ID,
	})
	if err != nil {
		t.Fatalf("RecordSale renewal failed: %v", err)
	}
	if renewal == nil {
		t.Fatal("expected renewal to earn recurring commission")
	}
	if !renewal.Recurring {
		t.Error("renewal must be marked recurring")
	}

	// Prata recurring rate is 3%
	want := decimal.NewFromInt(3)
	if !renewal.CommissionAmount.Equal(want) {
		t.Errorf("expected recurring commission %s, got %s", want, renewal.CommissionAmount)
	}
}

func TestRecordSaleRenewalOutsideWindowEarnsNothing(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	prata := tiers[1]
	ambassador := createAmbassador(t, db, "LATE1234", prata.ID, 10)

	// Original sale 7 months ago, past Prata's 6-month window
	original := models.Referral{
		AmbassadorID:     ambassador.ID,
		SaleAmount:       decimal.NewFromInt(100),
		CommissionRate:   prata.CommissionRate,
		CommissionAmount: decimal.NewFromInt(8),
		Status:           models.ReferralStatusConfirmed,
		EligibleAt:       time.Now(),
	}
	if err := db.Create(&original).Error; err != nil {
		t.Fatalf("failed to create original referral: %v", err)
	}
	db.Model(&original).Update("created_at", time.Now().AddDate(0, -7, 0))

	service := NewReferralService(db, nil, 7)

	renewal, err := service.RecordSale(RecordSaleInput{
		Code:               "LATE1234",
		SaleAmount:         decimal.NewFromInt(100),
		OriginalReferralID: &original.ID,
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	if renewal != nil {
		t.Errorf("renewal outside the window must not earn commission, got %+v", renewal)
	}
}

func TestReferralStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	createAmbassador(t, db, "FLOW1234", tiers[0].ID, 0)

	service := NewReferralService(db, nil, 7)

	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "FLOW1234",
		SaleAmount: decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	// PENDING -> CONFIRMED
	if err := service.Confirm(referral.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	var confirmed models.Referral
	db.First(&confirmed, referral.ID)
	if confirmed.Status != models.ReferralStatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", confirmed.Status)
	}
	if confirmed.ConfirmedAt == nil {
		t.Error("expected confirmed_at to be set")
	}

	// Confirming twice is illegal
	if err := service.Confirm(referral.ID); err == nil {
		t.Error("expected error confirming a CONFIRMED referral")
	}

	// CONFIRMED -> CANCELLED is legal
	if err := service.Cancel(referral.ID, "refund"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	var cancelled models.Referral
	db.First(&cancelled, referral.ID)
	if cancelled.Status != models.ReferralStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}

	// Terminal: no way out of CANCELLED
	if err := service.Confirm(referral.ID); err == nil {
		t.Error("expected error confirming a CANCELLED referral")
	}
	if err := service.Cancel(referral.ID, "again"); err == nil {
		t.Error("expected error cancelling a CANCELLED referral")
	}
}

func TestPaidReferralIsImmutable(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	ambassador := createAmbassador(t, db, "PAID1234", tiers[0].ID, 5)

	now := time.Now()
	referral := models.Referral{
		AmbassadorID:     ambassador.ID,
		SaleAmount:       decimal.NewFromInt(100),
		CommissionRate:   decimal.NewFromInt(5),
		CommissionAmount: decimal.NewFromInt(5),
		Status:           models.ReferralStatusPaid,
		EligibleAt:       now,
		PaidAt:           &now,
	}
	if err := db.Create(&referral).Error; err != nil {
		t.Fatalf("failed to create referral: %v", err)
	}

	service := NewReferralService(db, nil, 7)

	if err := service.Cancel(referral.ID, "too late"); err == nil {
		t.Error("expected error cancelling a PAID referral")
	}
	if err := service.Confirm(referral.ID); err == nil {
		t.Error("expected error confirming a PAID referral")
	}

	var unchanged models.Referral
	db.First(&unchanged, referral.ID)
	if unchanged.Status != models.ReferralStatusPaid {
		t.Errorf("PAID referral must stay PAID, got %s", unchanged.Status)
	}
}

func TestCancelReversesCounters(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	ambassador := createAmbassador(t, db, "UNDO1234", tiers[0].ID, 0)

	service := NewReferralService(db, nil, 7)

	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "UNDO1234",
		SaleAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	if err := service.Cancel(referral.ID, "chargeback"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	var updated models.Ambassador
	db.First(&updated, ambassador.ID)
	if updated.LifetimeSales != 0 {
		t.Errorf("expected lifetime sales back to 0, got %d", updated.LifetimeSales)
	}
	if !updated.PendingCommission.IsZero() {
		t.Errorf("expected pending commission back to 0, got %s", updated.PendingCommission)
	}
}

func TestRecordSaleEligibilityDate(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	createAmbassador(t, db, "ELIG1234", tiers[0].ID, 0)

	service := NewReferralService(db, nil, 14)

	referral, err := service.RecordSale(RecordSaleInput{
		Code:       "ELIG1234",
		SaleAmount: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	wantMin := time.Now().AddDate(0, 0, 13)
	wantMax := time.Now().AddDate(0, 0, 15)
	if referral.EligibleAt.Before(wantMin) || referral.EligibleAt.After(wantMax) {
		t.Errorf("expected eligibility ~14 days out, got %s", referral.EligibleAt)
	}
}
