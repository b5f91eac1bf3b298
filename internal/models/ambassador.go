package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ambassador represents a program participant who refers customers
// via a unique code and earns commission on attributed sales.
type Ambassador struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"size:120;not null" json:"name"`
	Email             string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	AvatarURL         *string         `json:"avatar_url,omitempty"`
	City              *string         `gorm:"size:100" json:"city,omitempty"`
	ReferralCode      string          `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	TierID            uint            `gorm:"index" json:"tier_id"`
	Tier              *Tier           `gorm:"foreignKey:TierID" json:"tier,omitempty"`
	LifetimeSales     int             `gorm:"default:0" json:"lifetime_sales"`
	LifetimeEarnings  decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"lifetime_earnings"`
	PendingCommission decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"pending_commission"`
	TotalPoints       int             `gorm:"default:0;index" json:"total_points"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	EnrolledAt        time.Time       `gorm:"autoCreateTime" json:"enrolled_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (Ambassador) TableName() string {
	return "ambassadors"
}

// Tier is a commission-rate bracket an ambassador qualifies for based on
// lifetime sales. Tiers are reference data: totally ordered by MinSales
// ascending, qualification is boundary inclusive.
type Tier struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"uniqueIndex;size:50;not null" json:"name"`
	MinSales        int             `gorm:"not null" json:"min_sales"`
	CommissionRate  decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	RecurringRate   decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"recurring_rate"`
	RecurringMonths int             `gorm:"default:0" json:"recurring_months"`
	Color           string          `gorm:"size:20" json:"color"`
	Icon            string          `gorm:"size:50" json:"icon"`
	Benefits        []string        `gorm:"serializer:json" json:"benefits"`
	DisplayOrder    int             `gorm:"default:0" json:"display_order"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (Tier) TableName() string {
	return "tiers"
}
