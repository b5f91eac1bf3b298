package models

import "time"

// Click is an append-only record of a visit through an ambassador link.
// Repeat clicks from the same visitor are not deduplicated; every click
// counts toward analytics.
type Click struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	AmbassadorID uint        `gorm:"not null;index" json:"ambassador_id"`
	Ambassador   *Ambassador `gorm:"foreignKey:AmbassadorID" json:"ambassador,omitempty"`
	UTMSource    string      `gorm:"size:100" json:"utm_source"`
	UTMMedium    string      `gorm:"size:100" json:"utm_medium"`
	LandingPath  string      `gorm:"size:512" json:"landing_path"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
}

func (Click) TableName() string {
	return "clicks"
}
