package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ambassador-program/internal/models"
)

// setupTestDB opens a per-test in-memory database. The DB is named
// after the test so parallel tests never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Tier{},
		&models.Achievement{},
		&models.Ambassador{},
		&models.Referral{},
		&models.Payout{},
		&models.Click{},
		&models.AmbassadorAchievement{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

// seedTiers inserts the bronze/prata/ouro ladder used across the
// service tests and returns it ordered by minimum sales.
func seedTiers(t *testing.T, db *gorm.DB) []models.Tier {
	t.Helper()

	tiers := []models.Tier{
		{Name: "Bronze", MinSales: 0, CommissionRate: decimal.NewFromInt(5), RecurringRate: decimal.NewFromInt(2), RecurringMonths: 3, DisplayOrder: 1},
		{Name: "Prata", MinSales: 10, CommissionRate: decimal.NewFromInt(8), RecurringRate: decimal.NewFromInt(3), RecurringMonths: 6, DisplayOrder: 2},
		{Name: "Ouro", MinSales: 30, CommissionRate: decimal.NewFromInt(12), RecurringRate: decimal.NewFromInt(5), RecurringMonths: 12, DisplayOrder: 3},
	}
	for i := range tiers {
		if err := db.Create(&tiers[i]).Error; err != nil {
			t.Fatalf("failed to seed tier %s: %v", tiers[i].Name, err)
		}
	}
	return tiers
}

// createAmbassador inserts a test ambassador on the given tier.
func createAmbassador(t *testing.T, db *gorm.DB, code string, tierID uint, lifetimeSales int) *models.Ambassador {
	t.Helper()

	ambassador := models.Ambassador{
		Name:          "Ana " + code,
		Email:         code + "@example.com",
		ReferralCode:  code,
		TierID:        tierID,
		LifetimeSales: lifetimeSales,
		IsActive:      true,
	}
	if err := db.Create(&ambassador).Error; err != nil {
		t.Fatalf("failed to create ambassador: %v", err)
	}
	return &ambassador
}
