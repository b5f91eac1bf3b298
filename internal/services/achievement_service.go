package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ambassador-program/internal/models"
	"ambassador-program/internal/monitoring"
	"ambassador-program/internal/realtime"
)

type AchievementService struct {
	db       *gorm.DB
	notifier *realtime.Notifier
}

func NewAchievementService(db *gorm.DB, notifier *realtime.Notifier) *AchievementService {
	return &AchievementService{db: db, notifier: notifier}
}

// CheckAchievements compares the ambassador's current metrics against
// every achievement threshold and unlocks the ones newly met. Unlocks
// are one-way: nothing here ever deletes an unlock record.
func (s *AchievementService) CheckAchievements(ambassadorID uint) error {
	var ambassador models.Ambassador
	if err := s.db.Where("id = ?", ambassadorID).First(&ambassador).Error; err != nil {
		return err
	}

	var achievements []models.Achievement
	if err := s.db.Find(&achievements).Error; err != nil {
		return err
	}

	var unlockedIDs []uint
	if err := s.db.Model(&models.AmbassadorAchievement{}).
		Where("ambassador_id = ?", ambassadorID).
		Pluck("achievement_id", &unlockedIDs).Error; err != nil {
		return err
	}

	unlocked := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	for _, achievement := range achievements {
		if unlocked[achievement.ID] {
			continue
		}

		met, err := s.requirementMet(&ambassador, &achievement)
		if err != nil {
			log.Printf("Achievement check failed for %s: %v", achievement.Code, err)
			continue
		}
		if !met {
			continue
		}

		if err := s.unlock(&ambassador, &achievement); err != nil {
			log.Printf("Failed to unlock achievement %s for ambassador %d: %v",
				achievement.Code, ambassadorID, err)
		}
	}

	return nil
}

func (s *AchievementService) requirementMet(ambassador *models.Ambassador, achievement *models.Achievement) (bool, error) {
	switch achievement.RequirementType {
	case models.RequirementReferralCount:
		return int64(ambassador.LifetimeSales) >= achievement.Threshold, nil

	case models.RequirementPointsTotal:
		return int64(ambassador.TotalPoints) >= achievement.Threshold, nil

	case models.RequirementSalesTotal:
		var total decimal.Decimal
		row := s.db.Model(&models.Referral{}).
			Where("ambassador_id = ? AND status IN ?", ambassador.ID,
				[]string{models.ReferralStatusConfirmed, models.ReferralStatusPaid}).
			Select("COALESCE(SUM(sale_amount), 0)").Row()
		if err := row.Scan(&total); err != nil {
			return false, err
		}
		return total.GreaterThanOrEqual(decimal.NewFromInt(achievement.Threshold)), nil

	case models.RequirementClickCount:
		var count int64
		if err := s.db.Model(&models.Click{}).
			Where("ambassador_id = ?", ambassador.ID).
			Count(&count).Error; err != nil {
			return false, err
		}
		return count >= achievement.Threshold, nil

	default:
		return false, fmt.Errorf("unknown requirement type %q", achievement.RequirementType)
	}
}

func (s *AchievementService) unlock(ambassador *models.Ambassador, achievement *models.Achievement) error {
	unlock := models.AmbassadorAchievement{
		AmbassadorID:  ambassador.ID,
		AchievementID: achievement.ID,
	}

	// One transaction: the unlock record and its points land together
	// or not at all. The unique index on (ambassador_id,
	// achievement_id) guards against a concurrent double unlock.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&unlock).Error; err != nil {
			return err
		}

		if achievement.Points > 0 {
			return tx.Model(&models.Ambassador{}).Where("id = ?", ambassador.ID).
				Update("total_points", gorm.Expr("total_points + ?", achievement.Points)).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	monitoring.AchievementsUnlocked.Inc()
	s.notifier.Publish(context.Background(), ambassador.ID, realtime.EventAchievementUnlocked)

	log.Printf("Achievement %s unlocked for ambassador %d (+%d points)",
		achievement.Code, ambassador.ID, achievement.Points)
	return nil
}

// GetAmbassadorAchievements returns every unlock for an ambassador with
// the achievement definitions preloaded.
func (s *AchievementService) GetAmbassadorAchievements(ambassadorID uint) ([]models.AmbassadorAchievement, error) {
	var unlocks []models.AmbassadorAchievement
	if err := s.db.Where("ambassador_id = ?", ambassadorID).
		Preload("Achievement").
		Order("unlocked_at DESC").
		Find(&unlocks).Error; err != nil {
		return nil, err
	}
	return unlocks, nil
}

// GetUnnotified returns unlocks the client has not yet shown.
func (s *AchievementService) GetUnnotified(ambassadorID uint) ([]models.AmbassadorAchievement, error) {
	var unlocks []models.AmbassadorAchievement
	if err := s.db.Where("ambassador_id = ? AND notified = ?", ambassadorID, false).
		Preload("Achievement").
		Order("unlocked_at ASC").
		Find(&unlocks).Error; err != nil {
		return nil, err
	}
	return unlocks, nil
}

// MarkNotified flags unlocks as shown. The notified flag is one-way:
// once consumed, an unlock never reappears in the unnotified feed.
func (s *AchievementService) MarkNotified(ambassadorID uint, unlockIDs []uint) error {
	if len(unlockIDs) == 0 {
		return nil
	}
	return s.db.Model(&models.AmbassadorAchievement{}).
		Where("ambassador_id = ? AND id IN ?", ambassadorID, unlockIDs).
		Update("notified", true).Error
}
