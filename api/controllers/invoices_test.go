package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	pkgerrors "github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

type stubInvoiceService struct {
	invoice *models.Invoice
	listed  []models.Invoice
	next    *pagination.Cursor
	err     error
}

func (s *stubInvoiceService) Get(ctx context.Context, customerID, invoiceID uuid.UUID) (*models.Invoice, error) {
	return s.invoice, s.err
}

func (s *stubInvoiceService) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Invoice, *pagination.Cursor, error) {
	return s.listed, s.next, s.err
}

func TestInvoiceListSerializesAmounts(t *testing.T) {
	customerID := uuid.New()
	service := &stubInvoiceService{
		listed: []models.Invoice{{
			ID:           uuid.New(),
			CustomerID:   customerID,
			CustomerName: "Ana",
			PlanID:       uuid.New(),
			PlanType:     enums.PlanTypePostpaid,
			Units:        decimal.NewFromInt(120),
			Amount:       decimal.NewFromInt(240),
			CurrencyCode: "USD",
		}},
	}
	handler := InvoiceList(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+customerID.String()+"/invoices", nil)
	req = withURLParam(req, "customerID", customerID.String())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var envelope struct {
		Data pageDTO[invoiceDTO] `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(envelope.Data.Items))
	}
	if envelope.Data.Items[0].Amount != "240.00" || envelope.Data.Items[0].Units != "120.00" {
		t.Fatalf("unexpected serialization %+v", envelope.Data.Items[0])
	}
}

func TestInvoiceDetailPropagatesNotFound(t *testing.T) {
	customerID := uuid.New()
	service := &stubInvoiceService{err: pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")}
	handler := InvoiceDetail(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+customerID.String()+"/invoices/"+uuid.NewString(), nil)
	req = withURLParam(req, "customerID", customerID.String())
	req = withURLParam(req, "invoiceID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
