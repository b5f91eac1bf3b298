package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ambassador-program/internal/models"
)

func seedAchievement(t *testing.T, db *gorm.DB, code, requirementType string, threshold int64, points int) models.Achievement {
	t.Helper()

	achievement := models.Achievement{
		Code:            code,
		Name:            code,
		RequirementType: requirementType,
		Threshold:       threshold,
		Points:          points,
	}
	if err := db.Create(&achievement).Error; err != nil {
		t.Fatalf("failed to seed achievement %s: %v", code, err)
	}
	return achievement
}

func TestCheckAchievementsUnlocksOnThreshold(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	firstSale := seedAchievement(t, db, "FIRST_SALE", models.RequirementReferralCount, 1, 50)
	tenSales := seedAchievement(t, db, "TEN_SALES", models.RequirementReferralCount, 10, 200)

	ambassador := createAmbassador(t, db, "ACH12345", tiers[0].ID, 1)

	service := NewAchievementService(db, nil)

	if err := service.CheckAchievements(ambassador.ID); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	unlocks, err := service.GetAmbassadorAchievements(ambassador.ID)
	if err != nil {
		t.Fatalf("GetAmbassadorAchievements failed: %v", err)
	}
	if len(unlocks) != 1 {
		t.Fatalf("expected 1 unlock, got %d", len(unlocks))
	}
	if unlocks[0].AchievementID != firstSale.ID {
		t.Errorf("expected FIRST_SALE unlocked, got achievement %d", unlocks[0].AchievementID)
	}

	// Points awarded on unlock
	var updated models.Ambassador
	db.First(&updated, ambassador.ID)
	if updated.TotalPoints != 50 {
		t.Errorf("expected 50 points, got %d", updated.TotalPoints)
	}

	// Crossing the next threshold only unlocks the new badge
	db.Model(&updated).Update("lifetime_sales", 10)
	if err := service.CheckAchievements(ambassador.ID); err != nil {
		t.Fatalf("second CheckAchievements failed: %v", err)
	}

	unlocks, err = service.GetAmbassadorAchievements(ambassador.ID)
	if err != nil {
		t.Fatalf("GetAmbassadorAchievements failed: %v", err)
	}
	if len(unlocks) != 2 {
		t.Fatalf("expected 2 unlocks, got %d", len(unlocks))
	}

	db.First(&updated, ambassador.ID)
	if updated.TotalPoints != 50+tenSales.Points {
		t.Errorf("expected %d points, got %d", 50+tenSales.Points, updated.TotalPoints)
	}
}

func TestCheckAchievementsNeverUnlocksTwice(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	seedAchievement(t, db, "FIRST_SALE", models.RequirementReferralCount, 1, 50)

	ambassador := createAmbassador(t, db, "DUP12345", tiers[0].ID, 5)

	service := NewAchievementService(db, nil)

	for i := 0; i < 3; i++ {
		if err := service.CheckAchievements(ambassador.ID); err != nil {
			t.Fatalf("CheckAchievements run %d failed: %v", i, err)
		}
	}

	var count int64
	db.Model(&models.AmbassadorAchievement{}).Where("ambassador_id = ?", ambassador.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected a single unlock record, got %d", count)
	}

	// Points counted once, not per run
	var updated models.Ambassador
	db.First(&updated, ambassador.ID)
	if updated.TotalPoints != 50 {
		t.Errorf("expected 50 points, got %d", updated.TotalPoints)
	}
}

func TestCheckAchievementsSalesAndClickRequirements(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	seedAchievement(t, db, "BIG_SELLER", models.RequirementSalesTotal, 500, 100)
	seedAchievement(t, db, "HUNDRED_CLICKS", models.RequirementClickCount, 100, 30)

	ambassador := createAmbassador(t, db, "MIX12345", tiers[1].ID, 12)

	// R$600 in confirmed sales, but cancelled revenue does not count
	confirmed := models.Referral{
		AmbassadorID:     ambassador.ID,
		SaleAmount:       decimal.NewFromInt(600),
		CommissionRate:   decimal.NewFromInt(8),
		CommissionAmount: decimal.NewFromInt(48),
		Status:           models.ReferralStatusConfirmed,
	}
	cancelled := models.Referral{
		AmbassadorID:     ambassador.ID,
		SaleAmount:       decimal.NewFromInt(900),
		CommissionRate:   decimal.NewFromInt(8),
		CommissionAmount: decimal.NewFromInt(72),
		Status:           models.ReferralStatusCancelled,
	}
	for _, r := range []*models.Referral{&confirmed, &cancelled} {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("failed to create referral: %v", err)
		}
	}

	// 40 clicks, below the click threshold
	for i := 0; i < 40; i++ {
		if err := db.Create(&models.Click{AmbassadorID: ambassador.ID, UTMSource: "instagram"}).Error; err != nil {
			t.Fatalf("failed to create click: %v", err)
		}
	}

	service := NewAchievementService(db, nil)

	if err := service.CheckAchievements(ambassador.ID); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	unlocks, err := service.GetAmbassadorAchievements(ambassador.ID)
	if err != nil {
		t.Fatalf("GetAmbassadorAchievements failed: %v", err)
	}
	if len(unlocks) != 1 {
		t.Fatalf("expected only the sales badge, got %d unlocks", len(unlocks))
	}
	if unlocks[0].Achievement == nil || unlocks[0].Achievement.Code != "BIG_SELLER" {
		t.Errorf("expected BIG_SELLER unlocked, got %+v", unlocks[0].Achievement)
	}
}

func TestUnnotifiedFeedConsumedOnce(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	seedAchievement(t, db, "FIRST_SALE", models.RequirementReferralCount, 1, 50)

	ambassador := createAmbassador(t, db, "NTF12345", tiers[0].ID, 1)

	service := NewAchievementService(db, nil)

	if err := service.CheckAchievements(ambassador.ID); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	unnotified, err := service.GetUnnotified(ambassador.ID)
	if err != nil {
		t.Fatalf("GetUnnotified failed: %v", err)
	}
	if len(unnotified) != 1 {
		t.Fatalf("expected 1 unnotified unlock, got %d", len(unnotified))
	}

	if err := service.MarkNotified(ambassador.ID, []uint{unnotified[0].ID}); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	unnotified, err = service.GetUnnotified(ambassador.ID)
	if err != nil {
		t.Fatalf("GetUnnotified failed: %v", err)
	}
	if len(unnotified) != 0 {
		t.Errorf("expected empty unnotified feed after consumption, got %d", len(unnotified))
	}

	// The unlock itself survives notification
	unlocks, err := service.GetAmbassadorAchievements(ambassador.ID)
	if err != nil {
		t.Fatalf("GetAmbassadorAchievements failed: %v", err)
	}
	if len(unlocks) != 1 {
		t.Errorf("expected the unlock to persist, got %d", len(unlocks))
	}
}

func TestMarkNotifiedScopedToAmbassador(t *testing.T) {
	db := setupTestDB(t)
	tiers := seedTiers(t, db)
	seedAchievement(t, db, "FIRST_SALE", models.RequirementReferralCount, 1, 50)

	owner := createAmbassador(t, db, "OWN12345", tiers[0].ID, 1)
	other := createAmbassador(t, db, "OTH12345", tiers[0].ID, 0)

	service := NewAchievementService(db, nil)
	if err := service.CheckAchievements(owner.ID); err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}

	unnotified, err := service.GetUnnotified(owner.ID)
	if err != nil {
		t.Fatalf("GetUnnotified failed: %v", err)
	}

	// Another ambassador cannot consume someone else's unlock
	if err := service.MarkNotified(other.ID, []uint{unnotified[0].ID}); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}
	unnotified, err = service.GetUnnotified(owner.ID)
	if err != nil {
		t.Fatalf("GetUnnotified failed: %v", err)
	}
	if len(unnotified) != 1 {
		t.Errorf("expected the owner's unlock to stay unnotified, got %d", len(unnotified))
	}
}
