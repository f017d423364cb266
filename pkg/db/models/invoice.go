package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/pkg/enums"
)

// Invoice is an immutable rating snapshot. Customer name and plan type are
// denormalized so the document survives later customer/plan edits.
type Invoice struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	CustomerName string          `gorm:"column:customer_name;not null"`
	PlanID       uuid.UUID       `gorm:"column:plan_id;type:uuid;not null"`
	PlanType     enums.PlanType  `gorm:"column:plan_type;type:plan_type;not null"`
	Units        decimal.Decimal `gorm:"column:units;type:numeric(12,2);not null"`
	Amount       decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CurrencyCode string          `gorm:"column:currency_code;not null"`
	Date         time.Time       `gorm:"column:date;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
