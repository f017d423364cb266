package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

// Repository handles customer persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByMail(ctx context.Context, mail string) (*models.Customer, error)
	UpdatePlanAssociation(ctx context.Context, customerID, planID uuid.UUID, customerType enums.CustomerType) error
	List(ctx context.Context, params ListQuery) ([]models.Customer, *pagination.Cursor, error)
	ListByType(ctx context.Context, customerType enums.CustomerType, limit int) ([]models.Customer, error)
}

type repository struct {
	db *gorm.DB
}

// ListQuery configures customer list queries.
type ListQuery struct {
	Limit  int
	Cursor *pagination.Cursor
}

// NewRepository returns a customer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindByMail(ctx context.Context, mail string) (*models.Customer, error) {
	if mail == "" {
		return nil, nil
	}
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("mail = ?", mail).
		First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *repository) UpdatePlanAssociation(ctx context.Context, customerID, planID uuid.UUID, customerType enums.CustomerType) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"curr_plan_id": planID,
			"type":         customerType,
		}).Error
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Customer, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Customer
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > limit {
		next := rows[limit]
		rows = rows[:limit]
		return rows, &pagination.Cursor{
			CreatedAt: next.CreatedAt,
			ID:        next.ID,
		}, nil
	}

	return rows, nil, nil
}

func (r *repository) ListByType(ctx context.Context, customerType enums.CustomerType, limit int) ([]models.Customer, error) {
	if limit <= 0 {
		limit = 250
	}
	var rows []models.Customer
	if err := r.db.WithContext(ctx).
		Where("type = ?", customerType).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
