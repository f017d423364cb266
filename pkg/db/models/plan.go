package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/pkg/enums"
)

// Plan is the shared catalog row; the rating variant lives in exactly one of
// the Prepaid/Postpaid sub-records.
type Plan struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null;uniqueIndex"`
	RatePerUnit decimal.Decimal `gorm:"column:rate_per_unit;type:numeric(12,4);not null"`
	Type        enums.PlanType  `gorm:"column:type;type:plan_type;not null"`
	Prepaid     *PrepaidPlan    `gorm:"foreignKey:PlanID"`
	Postpaid    *PostpaidPlan   `gorm:"foreignKey:PlanID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
