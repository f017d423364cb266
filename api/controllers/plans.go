package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/api/responses"
	"github.com/voxtel/billing-backend/api/validators"
	"github.com/voxtel/billing-backend/internal/plans"
	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	pkgerrors "github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/logger"
)

// PlanService is the surface plan controllers need.
type PlanService interface {
	Create(ctx context.Context, input plans.CreateInput) (*models.Plan, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	List(ctx context.Context) ([]models.Plan, error)
	Update(ctx context.Context, id uuid.UUID, input plans.UpdateInput) (*models.Plan, error)
}

type planCreateRequest struct {
	Name           string  `json:"name" validate:"required,min=1"`
	RatePerUnit    string  `json:"rate_per_unit" validate:"required"`
	Type           string  `json:"type" validate:"required,oneof=PREPAID POSTPAID"`
	PrepaidBalance *string `json:"prepaid_balance,omitempty"`
	BillingCycle   *string `json:"billing_cycle,omitempty" validate:"omitempty,oneof=MONTHLY QUARTERLY ANNUAL"`
}

func (req planCreateRequest) toInput() (plans.CreateInput, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(req.RatePerUnit))
	if err != nil {
		return plans.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "rate_per_unit must be a decimal number")
	}

	planType, err := enums.ParsePlanType(req.Type)
	if err != nil {
		return plans.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan type")
	}

	input := plans.CreateInput{
		Name:        strings.TrimSpace(req.Name),
		RatePerUnit: rate,
		Type:        planType,
	}

	if req.PrepaidBalance != nil {
		balance, err := decimal.NewFromString(strings.TrimSpace(*req.PrepaidBalance))
		if err != nil {
			return plans.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "prepaid_balance must be a decimal number")
		}
		input.PrepaidBalance = balance
	}

	if req.BillingCycle != nil {
		cycle, err := enums.ParseBillingCycle(*req.BillingCycle)
		if err != nil {
			return plans.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing cycle")
		}
		input.BillingCycle = cycle
	}

	return input, nil
}

// PlanCreate adds a plan plus its variant sub-record to the catalog.
func PlanCreate(svc PlanService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		var payload planCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toPlanDTO(plan))
	}
}

// PlanDetail returns a single plan with its variant details.
func PlanDetail(svc PlanService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		id, err := planIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPlanDTO(plan))
	}
}

// PlanList returns the full catalog ordered by name.
func PlanList(svc PlanService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		catalog, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]planDTO, 0, len(catalog))
		for i := range catalog {
			items = append(items, toPlanDTO(&catalog[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

type planUpdateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	RatePerUnit *string `json:"rate_per_unit,omitempty"`
}

// PlanUpdate applies administrative changes to base plan fields.
func PlanUpdate(svc PlanService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "plan service unavailable"))
			return
		}

		id, err := planIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload planUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := plans.UpdateInput{Name: payload.Name}
		if payload.RatePerUnit != nil {
			rate, err := decimal.NewFromString(strings.TrimSpace(*payload.RatePerUnit))
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "rate_per_unit must be a decimal number"))
				return
			}
			input.RatePerUnit = &rate
		}

		plan, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPlanDTO(plan))
	}
}

func planIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "planID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan id")
	}
	return id, nil
}
