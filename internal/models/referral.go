package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral status machine: PENDING -> CONFIRMED -> PAID, with direct
// cancellation allowed from PENDING and CONFIRMED. PAID and CANCELLED
// are terminal; a PAID referral is immutable.
const (
	ReferralStatusPending   = "PENDING"
	ReferralStatusConfirmed = "CONFIRMED"
	ReferralStatusPaid      = "PAID"
	ReferralStatusCancelled = "CANCELLED"
)

// Referral represents a single attributed sale event and its resulting
// commission. CommissionRate is captured at time of sale so later tier
// changes never rewrite history.
type Referral struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	AmbassadorID       uint            `gorm:"not null;index" json:"ambassador_id"`
	Ambassador         *Ambassador     `gorm:"foreignKey:AmbassadorID" json:"ambassador,omitempty"`
	SaleAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"sale_amount"`
	CommissionRate     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	CommissionAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"commission_amount"`
	PlanName           string          `gorm:"size:100" json:"plan_name"`
	Status             string          `gorm:"size:20;default:PENDING;index" json:"status"`
	Recurring          bool            `gorm:"default:false" json:"recurring"`
	OriginalReferralID *uint           `gorm:"index" json:"original_referral_id,omitempty"`
	EligibleAt         time.Time       `gorm:"index" json:"eligible_at"`
	PayoutID           *uint           `gorm:"index" json:"payout_id,omitempty"`
	CancelReason       string          `gorm:"size:255" json:"cancel_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	PaidAt             *time.Time      `json:"paid_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
}

func (Referral) TableName() string {
	return "referrals"
}

// Payout statuses. Aggregation creates payouts directly in SCHEDULED;
// PAID and CANCELLED are terminal.
const (
	PayoutStatusPending   = "PENDING"
	PayoutStatusScheduled = "SCHEDULED"
	PayoutStatusPaid      = "PAID"
	PayoutStatusCancelled = "CANCELLED"
)

// Payout is an aggregated, scheduled commission payment covering a
// reference period. The period uniqueness index skips cancelled rows
// so a cancelled payout can be re-aggregated for the same period.
type Payout struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Reference     string          `gorm:"uniqueIndex;size:40;not null" json:"reference"`
	AmbassadorID  uint            `gorm:"not null;index;uniqueIndex:idx_payout_period,where:status <> 'CANCELLED'" json:"ambassador_id"`
	Ambassador    *Ambassador     `gorm:"foreignKey:AmbassadorID" json:"ambassador,omitempty"`
	PeriodStart   time.Time       `gorm:"not null;uniqueIndex:idx_payout_period" json:"period_start"`
	PeriodEnd     time.Time       `gorm:"not null" json:"period_end"`
	TotalSales    int             `gorm:"default:0" json:"total_sales"`
	GrossAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"gross_amount"`
	NetAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_amount"`
	Status        string          `gorm:"size:20;default:SCHEDULED;index" json:"status"`
	ScheduledAt   time.Time       `json:"scheduled_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method,omitempty"`
	CancelReason  string          `gorm:"size:255" json:"cancel_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Payout) TableName() string {
	return "payouts"
}
