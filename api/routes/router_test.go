package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/internal/customers"
	"github.com/voxtel/billing-backend/internal/plans"
	"github.com/voxtel/billing-backend/pkg/config"
	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	pkgerrors "github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/pagination"
)

type stubCustomers struct{}

func (stubCustomers) Register(context.Context, customers.RegisterInput) (*models.Customer, error) {
	return &models.Customer{ID: uuid.New(), Type: enums.CustomerTypeNone}, nil
}

func (stubCustomers) Get(context.Context, uuid.UUID) (*models.Customer, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
}

func (stubCustomers) List(context.Context, pagination.Params) ([]models.Customer, *pagination.Cursor, error) {
	return nil, nil, nil
}

type stubPlans struct{}

func (stubPlans) Create(context.Context, plans.CreateInput) (*models.Plan, error) {
	return &models.Plan{ID: uuid.New(), Type: enums.PlanTypePrepaid}, nil
}

func (stubPlans) Get(context.Context, uuid.UUID) (*models.Plan, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
}

func (stubPlans) List(context.Context) ([]models.Plan, error) {
	return []models.Plan{{ID: uuid.New(), Name: "Basic5", RatePerUnit: decimal.NewFromInt(10), Type: enums.PlanTypePrepaid}}, nil
}

func (stubPlans) Update(context.Context, uuid.UUID, plans.UpdateInput) (*models.Plan, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
}

type stubInvoices struct{}

func (stubInvoices) Get(context.Context, uuid.UUID, uuid.UUID) (*models.Invoice, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
}

func (stubInvoices) ListByCustomer(context.Context, uuid.UUID, pagination.Params) ([]models.Invoice, *pagination.Cursor, error) {
	return nil, nil, nil
}

type stubRatingEngine struct{}

func (stubRatingEngine) PurchasePlan(context.Context, uuid.UUID, string, enums.PlanType) (*models.Invoice, error) {
	return &models.Invoice{ID: uuid.New(), PlanType: enums.PlanTypePrepaid}, nil
}

func (stubRatingEngine) GenerateInvoiceForCurrentPlan(context.Context, uuid.UUID) (*models.Invoice, error) {
	return &models.Invoice{ID: uuid.New(), PlanType: enums.PlanTypePrepaid}, nil
}

func (stubRatingEngine) RecordUsage(context.Context, uuid.UUID, decimal.Decimal) error {
	return nil
}

func (stubRatingEngine) CloseBillingCycle(context.Context, uuid.UUID) (*models.Invoice, error) {
	return &models.Invoice{ID: uuid.New(), PlanType: enums.PlanTypePostpaid}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Config:    &config.Config{App: config.AppConfig{Env: "test"}},
		Customers: stubCustomers{},
		Plans:     stubPlans{},
		Invoices:  stubInvoices{},
		Engine:    stubRatingEngine{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Voxtel-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestRouterPlanCatalogRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterCustomerNotFoundPropagates(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestRouterUnknownRouteIs404(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
