package invoices

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"

	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the invoice service.
type ServiceParams struct {
	Repo Repository
}

// Service exposes the read surface over immutable invoices.
type Service struct {
	repo Repository
}

// NewService builds an invoice service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, stdErrors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// Get returns the invoice scoped to the owning customer.
func (s *Service) Get(ctx context.Context, customerID, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading invoice")
	}
	if invoice == nil || invoice.CustomerID != customerID {
		return nil, errors.New(errors.CodeNotFound, "invoice not found")
	}
	return invoice, nil
}

// ListByCustomer pages through a customer's invoices newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Invoice, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}
	rows, next, err := s.repo.ListByCustomer(ctx, ListQuery{
		CustomerID: customerID,
		Limit:      params.Limit,
		Cursor:     cursor,
	})
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeInternal, err, "listing invoices")
	}
	return rows, next, nil
}
