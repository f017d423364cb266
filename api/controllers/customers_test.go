package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voxtel/billing-backend/internal/customers"
	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	pkgerrors "github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

type stubCustomerService struct {
	registered *customers.RegisterInput
	customer   *models.Customer
	getErr     error
	listed     []models.Customer
	next       *pagination.Cursor
}

func (s *stubCustomerService) Register(ctx context.Context, input customers.RegisterInput) (*models.Customer, error) {
	s.registered = &input
	return s.customer, nil
}

func (s *stubCustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.customer, nil
}

func (s *stubCustomerService) List(ctx context.Context, params pagination.Params) ([]models.Customer, *pagination.Cursor, error) {
	return s.listed, s.next, nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rc = chi.NewRouteContext()
	}
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCustomerRegisterCreatesCustomer(t *testing.T) {
	service := &stubCustomerService{
		customer: &models.Customer{
			ID:    uuid.New(),
			Name:  "Ana",
			Mail:  "ana@example.com",
			Phone: "5551234567",
			Type:  enums.CustomerTypeNone,
		},
	}
	handler := CustomerRegister(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"name":"Ana","mail":"ana@example.com","phone":"5551234567"}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if service.registered == nil || service.registered.Mail != "ana@example.com" {
		t.Fatalf("unexpected register input %+v", service.registered)
	}

	var envelope struct {
		Data customerDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.CurrPlanID != nil {
		t.Fatalf("new customer should carry no plan association, got %v", *envelope.Data.CurrPlanID)
	}
	if envelope.Data.Type != "N/A" {
		t.Fatalf("expected type N/A, got %s", envelope.Data.Type)
	}
}

func TestCustomerRegisterRejectsInvalidMail(t *testing.T) {
	handler := CustomerRegister(&stubCustomerService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"name":"Ana","mail":"not-a-mail","phone":"5551234567"}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCustomerDetailRejectsMalformedID(t *testing.T) {
	handler := CustomerDetail(&stubCustomerService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil)
	req = withURLParam(req, "customerID", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCustomerDetailPropagatesNotFound(t *testing.T) {
	service := &stubCustomerService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")}
	handler := CustomerDetail(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+uuid.NewString(), nil)
	req = withURLParam(req, "customerID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCustomerListEncodesNextCursor(t *testing.T) {
	next := &pagination.Cursor{ID: uuid.New()}
	service := &stubCustomerService{
		listed: []models.Customer{{ID: uuid.New(), Name: "Ana", Type: enums.CustomerTypeNone}},
		next:   next,
	}
	handler := CustomerList(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?limit=1", nil)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var envelope struct {
		Data pageDTO[customerDTO] `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(envelope.Data.Items))
	}
	if envelope.Data.NextCursor == nil || *envelope.Data.NextCursor != pagination.EncodeCursor(*next) {
		t.Fatalf("unexpected next cursor %v", envelope.Data.NextCursor)
	}
}
