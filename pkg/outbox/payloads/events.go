package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/pkg/enums"
)

// PlanPurchased is emitted when a customer buys a plan. The invoice for the
// purchase rides along so consumers do not need a follow-up read.
type PlanPurchased struct {
	CustomerID uuid.UUID       `json:"customerId"`
	PlanID     uuid.UUID       `json:"planId"`
	PlanName   string          `json:"planName"`
	PlanType   enums.PlanType  `json:"planType"`
	InvoiceID  uuid.UUID       `json:"invoiceId"`
	Amount     decimal.Decimal `json:"amount"`
}

// InvoiceGenerated is emitted for every persisted invoice.
type InvoiceGenerated struct {
	InvoiceID    uuid.UUID       `json:"invoiceId"`
	CustomerID   uuid.UUID       `json:"customerId"`
	PlanID       uuid.UUID       `json:"planId"`
	PlanType     enums.PlanType  `json:"planType"`
	Units        decimal.Decimal `json:"units"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// UsageRecorded is emitted when consumption is booked against a plan.
type UsageRecorded struct {
	CustomerID uuid.UUID       `json:"customerId"`
	PlanID     uuid.UUID       `json:"planId"`
	PlanType   enums.PlanType  `json:"planType"`
	Units      decimal.Decimal `json:"units"`
	Depleted   bool            `json:"depleted"`
}

// BillingCycleClosed is emitted when a postpaid cycle settles and resets.
type BillingCycleClosed struct {
	CustomerID uuid.UUID       `json:"customerId"`
	PlanID     uuid.UUID       `json:"planId"`
	InvoiceID  uuid.UUID       `json:"invoiceId"`
	UnitsUsed  decimal.Decimal `json:"unitsUsed"`
	Amount     decimal.Decimal `json:"amount"`
}
