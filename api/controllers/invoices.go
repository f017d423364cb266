package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voxtel/billing-backend/api/responses"
	"github.com/voxtel/billing-backend/api/validators"
	"github.com/voxtel/billing-backend/pkg/db/models"
	pkgerrors "github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/logger"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

// InvoiceService is the read surface invoice controllers need.
type InvoiceService interface {
	Get(ctx context.Context, customerID, invoiceID uuid.UUID) (*models.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Invoice, *pagination.Cursor, error)
}

// InvoiceList pages through a customer's invoices newest first.
func InvoiceList(svc InvoiceService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		customerID, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		items, next, err := svc.ListByCustomer(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPageDTO(items, next, toInvoiceDTO))
	}
}

// InvoiceDetail returns a single invoice scoped to the owning customer.
func InvoiceDetail(svc InvoiceService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		customerID, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "invoiceID"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required"))
			return
		}
		invoiceID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice id"))
			return
		}

		invoice, err := svc.Get(r.Context(), customerID, invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toInvoiceDTO(invoice))
	}
}
