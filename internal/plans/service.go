package plans

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbpkg "github.com/voxtel/billing-backend/pkg/db"
	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	"github.com/voxtel/billing-backend/pkg/errors"
)

// CreateInput carries the fields required to create a plan. Exactly one of
// the variant sections applies, selected by Type.
type CreateInput struct {
	Name        string
	RatePerUnit decimal.Decimal
	Type        enums.PlanType

	// PREPAID only.
	PrepaidBalance decimal.Decimal

	// POSTPAID only.
	BillingCycle enums.BillingCycle
}

// UpdateInput carries the administrative base-plan fields that may change.
// Variant sub-records are not editable after creation.
type UpdateInput struct {
	Name        *string
	RatePerUnit *decimal.Decimal
}

// ServiceParams groups dependencies for the plan service.
type ServiceParams struct {
	DB   *dbpkg.Client
	Repo Repository
}

// Service orchestrates plan catalog operations.
type Service struct {
	db   *dbpkg.Client
	repo Repository
}

// NewService builds a plan service.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, stdErrors.New("db client is required")
	}
	if params.Repo == nil {
		return nil, stdErrors.New("repo is required")
	}
	return &Service{db: params.DB, repo: params.Repo}, nil
}

// Create validates the input and persists the plan row plus exactly one
// variant sub-record in a single transaction. For prepaid plans the available
// units are derived as prepaidBalance / ratePerUnit.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Plan, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New(errors.CodeValidation, "plan name is required")
	}
	if input.RatePerUnit.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New(errors.CodeValidation, "ratePerUnit must be greater than zero")
	}
	if !input.Type.IsValid() {
		return nil, errors.New(errors.CodeValidation, "invalid plan type")
	}

	existing, err := s.repo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "looking up plan name")
	}
	if existing != nil {
		return nil, errors.New(errors.CodeConflict, "plan name already exists")
	}

	plan := &models.Plan{
		ID:          uuid.New(),
		Name:        input.Name,
		RatePerUnit: input.RatePerUnit,
		Type:        input.Type,
	}

	switch input.Type {
	case enums.PlanTypePrepaid:
		if input.PrepaidBalance.IsNegative() {
			return nil, errors.New(errors.CodeValidation, "prepaidBalance must not be negative")
		}
		plan.Prepaid = &models.PrepaidPlan{
			PlanID:         plan.ID,
			PrepaidBalance: input.PrepaidBalance,
			UnitsAvailable: input.PrepaidBalance.DivRound(input.RatePerUnit, 2),
		}
	case enums.PlanTypePostpaid:
		if !input.BillingCycle.IsValid() {
			return nil, errors.New(errors.CodeValidation, "invalid billing cycle")
		}
		plan.Postpaid = &models.PostpaidPlan{
			PlanID:       plan.ID,
			BillingCycle: input.BillingCycle,
			UnitsUsed:    decimal.Zero,
		}
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, plan)
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_plans_name") {
			return nil, errors.New(errors.CodeConflict, "plan name already exists")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "creating plan")
	}
	return plan, nil
}

// Get returns the plan with both variant sub-records preloaded.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading plan")
	}
	if plan == nil {
		return nil, errors.New(errors.CodeNotFound, "plan not found")
	}
	return plan, nil
}

// GetByName returns the plan with both variant sub-records preloaded.
func (s *Service) GetByName(ctx context.Context, name string) (*models.Plan, error) {
	plan, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading plan by name")
	}
	if plan == nil {
		return nil, errors.New(errors.CodeNotFound, "plan not found")
	}
	return plan, nil
}

// List returns the full catalog ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Plan, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing plans")
	}
	return rows, nil
}

// Update applies administrative changes to base plan fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Plan, error) {
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errors.New(errors.CodeValidation, "plan name is required")
		}
		plan.Name = name
	}
	if input.RatePerUnit != nil {
		if input.RatePerUnit.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New(errors.CodeValidation, "ratePerUnit must be greater than zero")
		}
		plan.RatePerUnit = *input.RatePerUnit
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_plans_name") {
			return nil, errors.New(errors.CodeConflict, "plan name already exists")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "updating plan")
	}
	return plan, nil
}
