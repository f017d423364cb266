package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voxtel/billing-backend/internal/plans"
	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
)

type stubPlanService struct {
	created *plans.CreateInput
	updated *plans.UpdateInput
	plan    *models.Plan
	catalog []models.Plan
	err     error
}

func (s *stubPlanService) Create(ctx context.Context, input plans.CreateInput) (*models.Plan, error) {
	s.created = &input
	return s.plan, s.err
}

func (s *stubPlanService) Get(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	return s.plan, s.err
}

func (s *stubPlanService) List(ctx context.Context) ([]models.Plan, error) {
	return s.catalog, s.err
}

func (s *stubPlanService) Update(ctx context.Context, id uuid.UUID, input plans.UpdateInput) (*models.Plan, error) {
	s.updated = &input
	return s.plan, s.err
}

func prepaidTestPlan() *models.Plan {
	return &models.Plan{
		ID:          uuid.New(),
		Name:        "Basic5",
		RatePerUnit: decimal.NewFromInt(10),
		Type:        enums.PlanTypePrepaid,
		Prepaid: &models.PrepaidPlan{
			PrepaidBalance: decimal.NewFromInt(500),
			UnitsAvailable: decimal.NewFromInt(50),
		},
	}
}

func TestPlanCreatePrepaid(t *testing.T) {
	service := &stubPlanService{plan: prepaidTestPlan()}
	handler := PlanCreate(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans",
		strings.NewReader(`{"name":"Basic5","rate_per_unit":"10","type":"PREPAID","prepaid_balance":"500"}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if service.created == nil || service.created.Type != enums.PlanTypePrepaid {
		t.Fatalf("unexpected create input %+v", service.created)
	}
	if !service.created.PrepaidBalance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected balance %s", service.created.PrepaidBalance)
	}

	var envelope struct {
		Data planDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.Prepaid == nil || envelope.Data.Prepaid.UnitsAvailable != "50.00" {
		t.Fatalf("unexpected prepaid details %+v", envelope.Data.Prepaid)
	}
	if envelope.Data.Postpaid != nil {
		t.Fatalf("prepaid plan must not expose postpaid details")
	}
}

func TestPlanCreateRejectsNonDecimalRate(t *testing.T) {
	handler := PlanCreate(&stubPlanService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans",
		strings.NewReader(`{"name":"Basic5","rate_per_unit":"ten","type":"PREPAID"}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPlanCreateRejectsUnknownType(t *testing.T) {
	handler := PlanCreate(&stubPlanService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans",
		strings.NewReader(`{"name":"Basic5","rate_per_unit":"10","type":"LIFETIME"}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPlanUpdateParsesRate(t *testing.T) {
	service := &stubPlanService{plan: prepaidTestPlan()}
	handler := PlanUpdate(service, nil)

	planID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/plans/"+planID.String(),
		strings.NewReader(`{"rate_per_unit":"12.5"}`))
	req = withURLParam(req, "planID", planID.String())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if service.updated == nil || service.updated.RatePerUnit == nil {
		t.Fatalf("expected rate update, got %+v", service.updated)
	}
	if !service.updated.RatePerUnit.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected rate %s", service.updated.RatePerUnit)
	}
}
