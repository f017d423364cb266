package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/voxtel/billing-backend/pkg/enums"
)

// Customer holds the subscriber record. CurrPlanID stays at the zero UUID
// until a plan is purchased; Type mirrors the purchased plan variant.
type Customer struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string             `gorm:"column:name;not null"`
	Mail       string             `gorm:"column:mail;not null;uniqueIndex"`
	Phone      string             `gorm:"column:phone;not null"`
	CurrPlanID uuid.UUID          `gorm:"column:curr_plan_id;type:uuid;not null;default:'00000000-0000-0000-0000-000000000000'"`
	Type       enums.CustomerType `gorm:"column:type;type:customer_type;not null;default:'N/A'"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPlan reports whether the customer is associated with a plan.
func (c Customer) HasPlan() bool {
	return c.CurrPlanID != uuid.Nil
}
