package plans

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/voxtel/billing-backend/pkg/db"
	"github.com/voxtel/billing-backend/pkg/enums"
	"github.com/voxtel/billing-backend/pkg/errors"
)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	db := setupPlansTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(ServiceParams{DB: dbpkg.NewWithConn(db), Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestCreatePrepaidDerivesUnits(t *testing.T) {
	svc, _ := newTestService(t)

	plan, err := svc.Create(context.Background(), CreateInput{
		Name:           "Basic5",
		RatePerUnit:    decimal.NewFromInt(10),
		Type:           enums.PlanTypePrepaid,
		PrepaidBalance: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	require.NotNil(t, plan.Prepaid)
	assert.True(t, plan.Prepaid.UnitsAvailable.Equal(decimal.NewFromInt(50)),
		"unitsAvailable = balance / rate, got %s", plan.Prepaid.UnitsAvailable)
	assert.Nil(t, plan.Postpaid)
}

func TestCreatePostpaidStartsAtZeroUsage(t *testing.T) {
	svc, _ := newTestService(t)

	plan, err := svc.Create(context.Background(), CreateInput{
		Name:         "Unlimited",
		RatePerUnit:  decimal.NewFromInt(2),
		Type:         enums.PlanTypePostpaid,
		BillingCycle: enums.BillingCycleMonthly,
	})
	require.NoError(t, err)
	require.NotNil(t, plan.Postpaid)
	assert.True(t, plan.Postpaid.UnitsUsed.IsZero())
	assert.Nil(t, plan.Prepaid)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateInput
	}{
		{name: "empty name", input: CreateInput{RatePerUnit: decimal.NewFromInt(1), Type: enums.PlanTypePrepaid}},
		{name: "zero rate", input: CreateInput{Name: "X", Type: enums.PlanTypePrepaid}},
		{name: "negative rate", input: CreateInput{Name: "X", RatePerUnit: decimal.NewFromInt(-1), Type: enums.PlanTypePrepaid}},
		{name: "bad type", input: CreateInput{Name: "X", RatePerUnit: decimal.NewFromInt(1), Type: enums.PlanType("WEIRD")}},
		{name: "negative balance", input: CreateInput{Name: "X", RatePerUnit: decimal.NewFromInt(1), Type: enums.PlanTypePrepaid, PrepaidBalance: decimal.NewFromInt(-5)}},
		{name: "missing cycle", input: CreateInput{Name: "X", RatePerUnit: decimal.NewFromInt(1), Type: enums.PlanTypePostpaid}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			typed := errors.As(err)
			if typed == nil || typed.Code() != errors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateDuplicateNameIsConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := CreateInput{
		Name:           "Basic5",
		RatePerUnit:    decimal.NewFromInt(10),
		Type:           enums.PlanTypePrepaid,
		PrepaidBalance: decimal.NewFromInt(500),
	}
	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	_, err = svc.Create(ctx, input)
	typed := errors.As(err)
	require.NotNil(t, typed, "got %v", err)
	assert.Equal(t, errors.CodeConflict, typed.Code())
}

func TestGetByNameMissingIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByName(context.Background(), "Nope")
	typed := errors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, errors.CodeNotFound, typed.Code())
}
