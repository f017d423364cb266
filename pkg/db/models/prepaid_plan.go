package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrepaidPlan stores the balance side of a prepaid plan. UnitsAvailable is
// derived at creation as PrepaidBalance / RatePerUnit and depleted by usage.
type PrepaidPlan struct {
	PlanID         uuid.UUID       `gorm:"column:plan_id;type:uuid;primaryKey"`
	PrepaidBalance decimal.Decimal `gorm:"column:prepaid_balance;type:numeric(12,2);not null"`
	UnitsAvailable decimal.Decimal `gorm:"column:units_available;type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
