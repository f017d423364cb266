package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/api/responses"
	"github.com/voxtel/billing-backend/api/validators"
	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	pkgerrors "github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/logger"
)

// BillingEngine is the rating surface billing controllers need.
type BillingEngine interface {
	PurchasePlan(ctx context.Context, customerID uuid.UUID, planName string, planType enums.PlanType) (*models.Invoice, error)
	GenerateInvoiceForCurrentPlan(ctx context.Context, customerID uuid.UUID) (*models.Invoice, error)
	RecordUsage(ctx context.Context, customerID uuid.UUID, units decimal.Decimal) error
	CloseBillingCycle(ctx context.Context, customerID uuid.UUID) (*models.Invoice, error)
}

type purchasePlanRequest struct {
	PlanName string `json:"plan_name" validate:"required,min=1"`
	PlanType string `json:"plan_type,omitempty" validate:"omitempty,oneof=PREPAID POSTPAID"`
}

// PurchasePlan associates the customer with a plan and returns the purchase
// invoice. The optional plan_type narrows the lookup to one variant.
func PurchasePlan(engine BillingEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing engine unavailable"))
			return
		}

		customerID, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload purchasePlanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var planType enums.PlanType
		if payload.PlanType != "" {
			parsed, err := enums.ParsePlanType(payload.PlanType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan type"))
				return
			}
			planType = parsed
		}

		invoice, err := engine.PurchasePlan(r.Context(), customerID, strings.TrimSpace(payload.PlanName), planType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toInvoiceDTO(invoice))
	}
}

// GenerateInvoice snapshots the customer's current plan state into a new
// invoice without touching usage counters or balances.
func GenerateInvoice(engine BillingEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing engine unavailable"))
			return
		}

		customerID, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := engine.GenerateInvoiceForCurrentPlan(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toInvoiceDTO(invoice))
	}
}

type recordUsageRequest struct {
	Units string `json:"units" validate:"required"`
}

// RecordUsage books consumed units against the customer's current plan.
func RecordUsage(engine BillingEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing engine unavailable"))
			return
		}

		customerID, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload recordUsageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		units, err := decimal.NewFromString(strings.TrimSpace(payload.Units))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "units must be a decimal number"))
			return
		}

		if err := engine.RecordUsage(r.Context(), customerID, units); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

// CloseCycle settles the customer's postpaid billing cycle.
func CloseCycle(engine BillingEngine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing engine unavailable"))
			return
		}

		customerID, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := engine.CloseBillingCycle(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toInvoiceDTO(invoice))
	}
}
