package customers

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"

	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	"github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

// RegisterInput carries the fields required to register a customer.
type RegisterInput struct {
	Name  string
	Mail  string
	Phone string
}

// ServiceParams groups dependencies for the customer service.
type ServiceParams struct {
	Repo Repository
}

// Service orchestrates customer operations.
type Service struct {
	repo Repository
}

// NewService builds a customer service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, stdErrors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// Register creates a customer with no plan association.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Mail = strings.TrimSpace(input.Mail)
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Name == "" {
		return nil, errors.New(errors.CodeValidation, "customer name is required")
	}
	if input.Mail == "" {
		return nil, errors.New(errors.CodeValidation, "customer mail is required")
	}
	if input.Phone == "" {
		return nil, errors.New(errors.CodeValidation, "customer phone is required")
	}

	existing, err := s.repo.FindByMail(ctx, input.Mail)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "looking up customer mail")
	}
	if existing != nil {
		return nil, errors.New(errors.CodeConflict, "customer mail already registered")
	}

	customer := &models.Customer{
		ID:         uuid.New(),
		Name:       input.Name,
		Mail:       input.Mail,
		Phone:      input.Phone,
		CurrPlanID: uuid.Nil,
		Type:       enums.CustomerTypeNone,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating customer")
	}
	return customer, nil
}

// Get returns the customer or a typed not-found error.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading customer")
	}
	if customer == nil {
		return nil, errors.New(errors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

// List pages through customers newest first.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]models.Customer, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}
	rows, next, err := s.repo.List(ctx, ListQuery{Limit: params.Limit, Cursor: cursor})
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeInternal, err, "listing customers")
	}
	return rows, next, nil
}
