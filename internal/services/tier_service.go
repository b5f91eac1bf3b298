package services

import (
	"fmt"

	"gorm.io/gorm"

	"ambassador-program/internal/models"
)

type TierService struct {
	db *gorm.DB
}

func NewTierService(db *gorm.DB) *TierService {
	return &TierService{db: db}
}

// ListTiers returns the full tier ladder ordered by minimum sales.
func (s *TierService) ListTiers() ([]models.Tier, error) {
	var tiers []models.Tier
	if err := s.db.Order("min_sales ASC").Find(&tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to load tiers: %w", err)
	}
	return tiers, nil
}

// GetProgress computes tier progress for an ambassador against the
// current ladder.
func (s *TierService) GetProgress(ambassadorID uint) (*TierProgress, error) {
	var ambassador models.Ambassador
	if err := s.db.Where("id = ?", ambassadorID).First(&ambassador).Error; err != nil {
		return nil, err
	}

	tiers, err := s.ListTiers()
	if err != nil {
		return nil, err
	}

	progress := CalculateTierProgress(ambassador.TierID, ambassador.LifetimeSales, tiers)
	return &progress, nil
}

// CreateTier adds a tier to the ladder. MinSales collisions are
// rejected so qualification stays unambiguous.
func (s *TierService) CreateTier(tier *models.Tier) error {
	var count int64
	if err := s.db.Model(&models.Tier{}).Where("min_sales = ?", tier.MinSales).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("a tier with min_sales %d already exists", tier.MinSales)
	}

	if err := s.db.Create(tier).Error; err != nil {
		return fmt.Errorf("failed to create tier: %w", err)
	}
	return nil
}

// UpdateTier updates the mutable fields of a tier.
func (s *TierService) UpdateTier(tierID uint, updates map[string]interface{}) error {
	result := s.db.Model(&models.Tier{}).Where("id = ?", tierID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tier %d not found", tierID)
	}
	return nil
}
