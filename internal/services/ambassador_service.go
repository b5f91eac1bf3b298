package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"ambassador-program/internal/models"
	"ambassador-program/internal/utils"
)

type AmbassadorService struct {
	db *gorm.DB
}

func NewAmbassadorService(db *gorm.DB) *AmbassadorService {
	return &AmbassadorService{db: db}
}

// Enroll creates an ambassador with a fresh unique referral code,
// starting at the lowest tier. Email is the enrollment identity.
func (s *AmbassadorService) Enroll(name, email string, city *string) (*models.Ambassador, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required")
	}

	var tiers []models.Tier
	if err := s.db.Order("min_sales ASC").Limit(1).Find(&tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to load tiers: %w", err)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier table is empty, run migrations and seed first")
	}

	// The unique index on referral_code settles races; three attempts
	// is plenty for an 8-character code space.
	var ambassador *models.Ambassador
	for attempt := 0; attempt < 3; attempt++ {
		code, err := utils.GenerateReferralCode()
		if err != nil {
			return nil, err
		}

		candidate := models.Ambassador{
			Name:         name,
			Email:        email,
			City:         city,
			ReferralCode: code,
			TierID:       tiers[0].ID,
			IsActive:     true,
		}

		err = s.db.Create(&candidate).Error
		if err == nil {
			ambassador = &candidate
			break
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to enroll ambassador: %w", err)
		}

		// A duplicate email is a real conflict, not a code collision.
		var existing models.Ambassador
		if lookupErr := s.db.Where("email = ?", email).First(&existing).Error; lookupErr == nil {
			return nil, fmt.Errorf("email %s is already enrolled", email)
		}
	}
	if ambassador == nil {
		return nil, fmt.Errorf("failed to generate a unique referral code")
	}

	log.Printf("Ambassador %d enrolled with code %s", ambassador.ID, ambassador.ReferralCode)
	return ambassador, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// GetByID loads an ambassador with its tier.
func (s *AmbassadorService) GetByID(ambassadorID uint) (*models.Ambassador, error) {
	var ambassador models.Ambassador
	if err := s.db.Preload("Tier").Where("id = ?", ambassadorID).First(&ambassador).Error; err != nil {
		return nil, err
	}
	return &ambassador, nil
}

// GetByCredentials resolves an ambassador by email and referral code,
// the pair issued at enrollment.
func (s *AmbassadorService) GetByCredentials(email, code string) (*models.Ambassador, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var ambassador models.Ambassador
	err := s.db.Where("email = ? AND referral_code = ? AND is_active = ?", email, code, true).
		First(&ambassador).Error
	if err != nil {
		return nil, err
	}
	return &ambassador, nil
}

// Deactivate removes an ambassador from the program. Ambassadors are
// never hard-deleted: history stays, the code stops attributing.
func (s *AmbassadorService) Deactivate(ambassadorID uint) error {
	result := s.db.Model(&models.Ambassador{}).Where("id = ?", ambassadorID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ambassador %d not found", ambassadorID)
	}

	log.Printf("Ambassador %d deactivated", ambassadorID)
	return nil
}

// Reactivate restores a previously deactivated ambassador.
func (s *AmbassadorService) Reactivate(ambassadorID uint) error {
	result := s.db.Model(&models.Ambassador{}).Where("id = ?", ambassadorID).
		Update("is_active", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ambassador %d not found", ambassadorID)
	}
	return nil
}

// ListAmbassadors pages through the program roster for the admin view.
func (s *AmbassadorService) ListAmbassadors(offset, limit int, activeOnly bool) ([]models.Ambassador, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.db.Model(&models.Ambassador{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ambassadors []models.Ambassador
	if err := query.Preload("Tier").
		Order("enrolled_at DESC").
		Offset(offset).Limit(limit).
		Find(&ambassadors).Error; err != nil {
		return nil, 0, err
	}
	return ambassadors, total, nil
}
