package rating

import (
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	"github.com/voxtel/billing-backend/pkg/errors"
)

// Variant is the resolved rating behavior of a plan. Which variant applies is
// decided by which sub-record the plan row carries, never by client input.
type Variant interface {
	PlanType() enums.PlanType

	// ComputeUsageAndAmount returns the billable units and amount for an
	// invoice snapshot taken right now.
	ComputeUsageAndAmount() (units, amount decimal.Decimal)
}

type prepaidVariant struct {
	sub models.PrepaidPlan
}

func (v prepaidVariant) PlanType() enums.PlanType {
	return enums.PlanTypePrepaid
}

func (v prepaidVariant) ComputeUsageAndAmount() (decimal.Decimal, decimal.Decimal) {
	return v.sub.UnitsAvailable, v.sub.PrepaidBalance
}

type postpaidVariant struct {
	rate decimal.Decimal
	sub  models.PostpaidPlan
}

func (v postpaidVariant) PlanType() enums.PlanType {
	return enums.PlanTypePostpaid
}

func (v postpaidVariant) ComputeUsageAndAmount() (decimal.Decimal, decimal.Decimal) {
	return v.sub.UnitsUsed, v.sub.UnitsUsed.Mul(v.rate).Round(2)
}

// ResolveVariant picks the concrete variant from the sub-record the plan
// carries. The hint is the caller's expectation: when it names the other
// variant the plan counts as not found for that request. A plan with both or
// neither sub-record is corrupt data.
func ResolveVariant(plan *models.Plan, hint enums.PlanType) (Variant, error) {
	if plan == nil {
		return nil, errors.New(errors.CodeNotFound, "plan not found")
	}

	switch {
	case plan.Prepaid != nil && plan.Postpaid != nil:
		return nil, errors.New(errors.CodeInternal, "plan carries both variant records")
	case plan.Prepaid == nil && plan.Postpaid == nil:
		return nil, errors.New(errors.CodeInternal, "plan carries no variant record")
	case plan.Prepaid != nil:
		if hint != "" && hint != enums.PlanTypePrepaid {
			return nil, errors.New(errors.CodeNotFound, "no plan with that name and type")
		}
		return prepaidVariant{sub: *plan.Prepaid}, nil
	default:
		if hint != "" && hint != enums.PlanTypePostpaid {
			return nil, errors.New(errors.CodeNotFound, "no plan with that name and type")
		}
		return postpaidVariant{rate: plan.RatePerUnit, sub: *plan.Postpaid}, nil
	}
}
