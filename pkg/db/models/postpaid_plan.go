package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/pkg/enums"
)

// PostpaidPlan stores the consumption side of a postpaid plan. UnitsUsed
// accumulates until the billing cycle closes and resets it.
type PostpaidPlan struct {
	PlanID       uuid.UUID          `gorm:"column:plan_id;type:uuid;primaryKey"`
	BillingCycle enums.BillingCycle `gorm:"column:billing_cycle;type:billing_cycle;not null"`
	UnitsUsed    decimal.Decimal    `gorm:"column:units_used;type:numeric(12,2);not null;default:0"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
