package controllers

import (
	"time"

	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

// Monetary fields serialize as strings so clients never lose precision to
// float decoding.

type customerDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Mail       string    `json:"mail"`
	Phone      string    `json:"phone"`
	CurrPlanID *string   `json:"curr_plan_id"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCustomerDTO(c *models.Customer) customerDTO {
	dto := customerDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		Mail:      c.Mail,
		Phone:     c.Phone,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt,
	}
	if c.HasPlan() {
		planID := c.CurrPlanID.String()
		dto.CurrPlanID = &planID
	}
	return dto
}

type prepaidDetailsDTO struct {
	PrepaidBalance string `json:"prepaid_balance"`
	UnitsAvailable string `json:"units_available"`
}

type postpaidDetailsDTO struct {
	BillingCycle string `json:"billing_cycle"`
	UnitsUsed    string `json:"units_used"`
}

type planDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	RatePerUnit string              `json:"rate_per_unit"`
	Type        string              `json:"type"`
	Prepaid     *prepaidDetailsDTO  `json:"prepaid,omitempty"`
	Postpaid    *postpaidDetailsDTO `json:"postpaid,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toPlanDTO(p *models.Plan) planDTO {
	dto := planDTO{
		ID:          p.ID.String(),
		Name:        p.Name,
		RatePerUnit: p.RatePerUnit.String(),
		Type:        string(p.Type),
		CreatedAt:   p.CreatedAt,
	}
	if p.Prepaid != nil {
		dto.Prepaid = &prepaidDetailsDTO{
			PrepaidBalance: p.Prepaid.PrepaidBalance.StringFixed(2),
			UnitsAvailable: p.Prepaid.UnitsAvailable.StringFixed(2),
		}
	}
	if p.Postpaid != nil {
		dto.Postpaid = &postpaidDetailsDTO{
			BillingCycle: string(p.Postpaid.BillingCycle),
			UnitsUsed:    p.Postpaid.UnitsUsed.StringFixed(2),
		}
	}
	return dto
}

type invoiceDTO struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	PlanID       string    `json:"plan_id"`
	PlanType     string    `json:"plan_type"`
	Units        string    `json:"units"`
	Amount       string    `json:"amount"`
	CurrencyCode string    `json:"currency_code"`
	Date         time.Time `json:"date"`
}

func toInvoiceDTO(inv *models.Invoice) invoiceDTO {
	return invoiceDTO{
		ID:           inv.ID.String(),
		CustomerID:   inv.CustomerID.String(),
		CustomerName: inv.CustomerName,
		PlanID:       inv.PlanID.String(),
		PlanType:     string(inv.PlanType),
		Units:        inv.Units.StringFixed(2),
		Amount:       inv.Amount.StringFixed(2),
		CurrencyCode: inv.CurrencyCode,
		Date:         inv.Date,
	}
}

type pageDTO[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

func toPageDTO[S any, T any](items []S, next *pagination.Cursor, mapFn func(*S) T) pageDTO[T] {
	page := pageDTO[T]{Items: make([]T, 0, len(items))}
	for i := range items {
		page.Items = append(page.Items, mapFn(&items[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		page.NextCursor = &encoded
	}
	return page
}
