package models

import "time"

// Requirement types an achievement threshold is compared against.
const (
	RequirementReferralCount = "REFERRAL_COUNT"
	RequirementSalesTotal    = "SALES_TOTAL"
	RequirementPointsTotal   = "POINTS_TOTAL"
	RequirementClickCount    = "CLICK_COUNT"
)

// Achievement is a data-driven badge definition: a requirement type, a
// threshold and the points awarded on unlock. Definitions live in the
// database so product can add badges without a deploy.
type Achievement struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Description     string    `gorm:"size:255" json:"description"`
	RequirementType string    `gorm:"size:30;not null" json:"requirement_type"`
	Threshold       int64     `gorm:"not null" json:"threshold"`
	Points          int       `gorm:"default:0" json:"points"`
	Icon            string    `gorm:"size:50" json:"icon"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// AmbassadorAchievement is the unlock record. Unlocks are one-way and
// never revoked; Notified is consumed exactly once by the client.
type AmbassadorAchievement struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	AmbassadorID  uint         `gorm:"not null;uniqueIndex:idx_ambassador_achievement" json:"ambassador_id"`
	Ambassador    *Ambassador  `gorm:"foreignKey:AmbassadorID" json:"ambassador,omitempty"`
	AchievementID uint         `gorm:"not null;uniqueIndex:idx_ambassador_achievement" json:"achievement_id"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	Notified      bool         `gorm:"default:false;index" json:"notified"`
	UnlockedAt    time.Time    `gorm:"autoCreateTime" json:"unlocked_at"`
}

func (AmbassadorAchievement) TableName() string {
	return "ambassador_achievements"
}
