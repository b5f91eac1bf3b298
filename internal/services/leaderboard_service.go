package services

import (
	"time"

	"gorm.io/gorm"
)

type LeaderboardService struct {
	db       *gorm.DB
	tieBreak string
}

// LeaderboardEntry carries only the public profile fields safe to show
// on the community leaderboard.
type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	AmbassadorID uint      `json:"ambassador_id"`
	Name         string    `json:"name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	City         *string   `json:"city,omitempty"`
	TierName     string    `json:"tier_name"`
	TierColor    string    `json:"tier_color"`
	TotalPoints  int       `json:"total_points"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

func NewLeaderboardService(db *gorm.DB, tieBreak string) *LeaderboardService {
	return &LeaderboardService{db: db, tieBreak: tieBreak}
}

// GetLeaderboard returns the top-N active ambassadors by points. The
// tie-break for equal points comes from configuration so deployments
// can choose between seniority and sales volume.
func (s *LeaderboardService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	secondary := "ambassadors.enrolled_at ASC"
	if s.tieBreak == "lifetime_sales" {
		secondary = "ambassadors.lifetime_sales DESC"
	}

	var entries []LeaderboardEntry
	err := s.db.Table("ambassadors").
		Select(`ambassadors.id AS ambassador_id, ambassadors.name, ambassadors.avatar_url,
			ambassadors.city, ambassadors.total_points, ambassadors.enrolled_at,
			tiers.name AS tier_name, tiers.color AS tier_color`).
		Joins("LEFT JOIN tiers ON tiers.id = ambassadors.tier_id").
		Where("ambassadors.is_active = ?", true).
		Order("ambassadors.total_points DESC").
		Order(secondary).
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
