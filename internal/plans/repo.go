package plans

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/voxtel/billing-backend/pkg/db/models"
)

// Repository handles plan catalog persistence. Reads preload both variant
// sub-records so callers can resolve the concrete variant themselves.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, plan *models.Plan) error
	Update(ctx context.Context, plan *models.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	FindByName(ctx context.Context, name string) (*models.Plan, error)
	List(ctx context.Context) ([]models.Plan, error)
	ApplyPrepaidUsage(ctx context.Context, planID uuid.UUID, units, cost decimal.Decimal) (bool, error)
	IncrementPostpaidUsage(ctx context.Context, planID uuid.UUID, units decimal.Decimal) error
	SettlePostpaidUsage(ctx context.Context, planID uuid.UUID, billedUnits decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a plan repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repository) Update(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var plan models.Plan
	if err := r.db.WithContext(ctx).
		Preload("Prepaid").
		Preload("Postpaid").
		Where("id = ?", id).
		First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.Plan, error) {
	if name == "" {
		return nil, nil
	}
	var plan models.Plan
	if err := r.db.WithContext(ctx).
		Preload("Prepaid").
		Preload("Postpaid").
		Where("name = ?", name).
		First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) List(ctx context.Context) ([]models.Plan, error) {
	var rows []models.Plan
	if err := r.db.WithContext(ctx).
		Preload("Prepaid").
		Preload("Postpaid").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ApplyPrepaidUsage deducts consumed units and their cost in a single
// statement, flooring both columns at zero. The guard and the deduction share
// one UPDATE so two concurrent requests can never both spend the same units.
// Returns false when the plan has no units left.
func (r *repository) ApplyPrepaidUsage(ctx context.Context, planID uuid.UUID, units, cost decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PrepaidPlan{}).
		Where("plan_id = ? AND CAST(units_available AS NUMERIC) > 0", planID).
		Updates(map[string]any{
			"units_available": gorm.Expr("CASE WHEN units_available - ? < 0 THEN 0 ELSE units_available - ? END", units, units),
			"prepaid_balance": gorm.Expr("CASE WHEN prepaid_balance - ? < 0 THEN 0 ELSE prepaid_balance - ? END", cost, cost),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncrementPostpaidUsage adds units to the counter in place. The database
// computes the sum, so counters read before the write cannot be lost.
func (r *repository) IncrementPostpaidUsage(ctx context.Context, planID uuid.UUID, units decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.PostpaidPlan{}).
		Where("plan_id = ?", planID).
		Update("units_used", gorm.Expr("units_used + ?", units)).Error
}

// SettlePostpaidUsage subtracts the billed units from the counter instead of
// resetting it to zero. Usage recorded while the cycle invoice was being
// written stays on the counter and is billed in the next cycle.
func (r *repository) SettlePostpaidUsage(ctx context.Context, planID uuid.UUID, billedUnits decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.PostpaidPlan{}).
		Where("plan_id = ?", planID).
		Update("units_used", gorm.Expr("CASE WHEN units_used - ? < 0 THEN 0 ELSE units_used - ? END", billedUnits, billedUnits)).Error
}
