package rating

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/voxtel/billing-backend/internal/customers"
	"github.com/voxtel/billing-backend/internal/invoices"
	"github.com/voxtel/billing-backend/internal/plans"
	dbpkg "github.com/voxtel/billing-backend/pkg/db"
	"github.com/voxtel/billing-backend/pkg/db/models"
	"github.com/voxtel/billing-backend/pkg/enums"
	"github.com/voxtel/billing-backend/pkg/errors"
	"github.com/voxtel/billing-backend/pkg/logger"
	"github.com/voxtel/billing-backend/pkg/outbox"
	"github.com/voxtel/billing-backend/pkg/outbox/payloads"
)

// EngineParams groups dependencies for the rating engine.
type EngineParams struct {
	DB           *dbpkg.Client
	Customers    customers.Repository
	Plans        plans.Repository
	Invoices     invoices.Repository
	Outbox       *outbox.Service
	Logger       *logger.Logger
	CurrencyCode string
}

// Engine implements plan purchase, invoice generation and usage booking.
// Every write path runs inside a single transaction so the invoice and the
// plan/customer state can never diverge.
type Engine struct {
	db        *dbpkg.Client
	customers customers.Repository
	plans     plans.Repository
	invoices  invoices.Repository
	outbox    *outbox.Service
	logg      *logger.Logger
	currency  string
}

// NewEngine builds the rating engine.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.DB == nil {
		return nil, stdErrors.New("db client is required")
	}
	if params.Customers == nil {
		return nil, stdErrors.New("customers repo is required")
	}
	if params.Plans == nil {
		return nil, stdErrors.New("plans repo is required")
	}
	if params.Invoices == nil {
		return nil, stdErrors.New("invoices repo is required")
	}
	if params.Outbox == nil {
		return nil, stdErrors.New("outbox service is required")
	}
	currency := strings.TrimSpace(params.CurrencyCode)
	if currency == "" {
		currency = "USD"
	}
	return &Engine{
		db:        params.DB,
		customers: params.Customers,
		plans:     params.Plans,
		invoices:  params.Invoices,
		outbox:    params.Outbox,
		logg:      params.Logger,
		currency:  currency,
	}, nil
}

// PurchasePlan associates the customer with the named plan and produces the
// purchase invoice. Invoice row and customer association commit together.
func (e *Engine) PurchasePlan(ctx context.Context, customerID uuid.UUID, planName string, planType enums.PlanType) (*models.Invoice, error) {
	customer, err := e.loadCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	planName = strings.TrimSpace(planName)
	if planName == "" {
		return nil, errors.New(errors.CodeValidation, "plan name is required")
	}
	plan, err := e.plans.FindByName(ctx, planName)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading plan by name")
	}
	if plan == nil {
		return nil, errors.New(errors.CodeNotFound, "plan not found")
	}

	variant, err := ResolveVariant(plan, planType)
	if err != nil {
		return nil, err
	}

	units, amount := variant.ComputeUsageAndAmount()
	invoice := e.buildInvoice(customer, plan, variant.PlanType(), units, amount)

	err = e.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := e.invoices.WithTx(tx).Create(ctx, invoice); err != nil {
			return err
		}
		customerType := enums.CustomerTypeForPlan(variant.PlanType())
		if err := e.customers.WithTx(tx).UpdatePlanAssociation(ctx, customer.ID, plan.ID, customerType); err != nil {
			return err
		}
		if err := e.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPlanPurchased,
			AggregateType: enums.AggregateCustomer,
			AggregateID:   customer.ID,
			Data: payloads.PlanPurchased{
				CustomerID: customer.ID,
				PlanID:     plan.ID,
				PlanName:   plan.Name,
				PlanType:   variant.PlanType(),
				InvoiceID:  invoice.ID,
				Amount:     invoice.Amount,
			},
		}); err != nil {
			return err
		}
		return e.emitInvoiceGenerated(ctx, tx, invoice)
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "persisting plan purchase")
	}

	e.logPurchase(ctx, customer.ID, plan.ID, invoice.ID)
	return invoice, nil
}

// GenerateInvoiceForCurrentPlan produces a snapshot invoice for the plan the
// customer currently holds. Usage and balances are read, never mutated.
func (e *Engine) GenerateInvoiceForCurrentPlan(ctx context.Context, customerID uuid.UUID) (*models.Invoice, error) {
	customer, err := e.loadCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.HasPlan() {
		return nil, errors.New(errors.CodeValidation, "customer has no active plan")
	}

	plan, variant, err := e.loadCurrentVariant(ctx, customer)
	if err != nil {
		return nil, err
	}

	units, amount := variant.ComputeUsageAndAmount()
	invoice := e.buildInvoice(customer, plan, variant.PlanType(), units, amount)

	err = e.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := e.invoices.WithTx(tx).Create(ctx, invoice); err != nil {
			return err
		}
		return e.emitInvoiceGenerated(ctx, tx, invoice)
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "persisting invoice")
	}
	return invoice, nil
}

// RecordUsage books consumed units against the customer's current plan.
// Prepaid plans deplete their balance and refuse further usage once empty.
func (e *Engine) RecordUsage(ctx context.Context, customerID uuid.UUID, units decimal.Decimal) error {
	if units.LessThanOrEqual(decimal.Zero) {
		return errors.New(errors.CodeValidation, "units must be greater than zero")
	}

	customer, err := e.loadCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if !customer.HasPlan() {
		return errors.New(errors.CodeValidation, "customer has no active plan")
	}

	plan, variant, err := e.loadCurrentVariant(ctx, customer)
	if err != nil {
		return err
	}

	switch variant.PlanType() {
	case enums.PlanTypePrepaid:
		return e.recordPrepaidUsage(ctx, customer, plan, units)
	default:
		return e.recordPostpaidUsage(ctx, customer, plan, units)
	}
}

func (e *Engine) recordPrepaidUsage(ctx context.Context, customer *models.Customer, plan *models.Plan, units decimal.Decimal) error {
	cost := units.Mul(plan.RatePerUnit).Round(2)

	err := e.db.WithTx(ctx, func(tx *gorm.DB) error {
		planRepo := e.plans.WithTx(tx)
		ok, err := planRepo.ApplyPrepaidUsage(ctx, plan.ID, units, cost)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.CodeStateConflict, "plan depleted")
		}
		current, err := planRepo.FindByID(ctx, plan.ID)
		if err != nil {
			return err
		}
		depleted := current != nil && current.Prepaid != nil && current.Prepaid.UnitsAvailable.LessThanOrEqual(decimal.Zero)
		return e.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventUsageRecorded,
			AggregateType: enums.AggregatePlan,
			AggregateID:   plan.ID,
			Data: payloads.UsageRecorded{
				CustomerID: customer.ID,
				PlanID:     plan.ID,
				PlanType:   enums.PlanTypePrepaid,
				Units:      units,
				Depleted:   depleted,
			},
		})
	})
	if err != nil {
		if typed := errors.As(err); typed != nil {
			return err
		}
		return errors.Wrap(errors.CodeInternal, err, "recording prepaid usage")
	}
	return nil
}

func (e *Engine) recordPostpaidUsage(ctx context.Context, customer *models.Customer, plan *models.Plan, units decimal.Decimal) error {
	err := e.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := e.plans.WithTx(tx).IncrementPostpaidUsage(ctx, plan.ID, units); err != nil {
			return err
		}
		return e.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventUsageRecorded,
			AggregateType: enums.AggregatePlan,
			AggregateID:   plan.ID,
			Data: payloads.UsageRecorded{
				CustomerID: customer.ID,
				PlanID:     plan.ID,
				PlanType:   enums.PlanTypePostpaid,
				Units:      units,
			},
		})
	})
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "recording postpaid usage")
	}
	return nil
}

// CloseBillingCycle settles the customer's postpaid cycle: it writes the
// cycle invoice and resets the usage counter in the same transaction.
func (e *Engine) CloseBillingCycle(ctx context.Context, customerID uuid.UUID) (*models.Invoice, error) {
	customer, err := e.loadCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.HasPlan() {
		return nil, errors.New(errors.CodeValidation, "customer has no active plan")
	}

	_, variant, err := e.loadCurrentVariant(ctx, customer)
	if err != nil {
		return nil, err
	}
	if variant.PlanType() != enums.PlanTypePostpaid {
		return nil, errors.New(errors.CodeStateConflict, "billing cycles apply to postpaid plans only")
	}

	// The billed counter is re-read inside the transaction and settled by
	// subtraction, so usage recorded while the invoice is written survives
	// into the next cycle instead of being wiped by a reset.
	var invoice *models.Invoice
	err = e.db.WithTx(ctx, func(tx *gorm.DB) error {
		planRepo := e.plans.WithTx(tx)
		current, err := planRepo.FindByID(ctx, customer.CurrPlanID)
		if err != nil {
			return err
		}
		if current == nil || current.Postpaid == nil {
			return errors.New(errors.CodeNotFound, "current plan not found")
		}

		billed := current.Postpaid.UnitsUsed
		amount := billed.Mul(current.RatePerUnit).Round(2)
		invoice = e.buildInvoice(customer, current, enums.PlanTypePostpaid, billed, amount)

		if err := e.invoices.WithTx(tx).Create(ctx, invoice); err != nil {
			return err
		}
		if err := planRepo.SettlePostpaidUsage(ctx, current.ID, billed); err != nil {
			return err
		}
		if err := e.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBillingCycleClosed,
			AggregateType: enums.AggregatePlan,
			AggregateID:   current.ID,
			Data: payloads.BillingCycleClosed{
				CustomerID: customer.ID,
				PlanID:     current.ID,
				InvoiceID:  invoice.ID,
				UnitsUsed:  billed,
				Amount:     amount,
			},
		}); err != nil {
			return err
		}
		return e.emitInvoiceGenerated(ctx, tx, invoice)
	})
	if err != nil {
		if typed := errors.As(err); typed != nil {
			return nil, err
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "closing billing cycle")
	}
	return invoice, nil
}

// CloseAllBillingCycles sweeps postpaid customers and settles each cycle.
// Failures are collected so one bad customer does not stall the sweep.
func (e *Engine) CloseAllBillingCycles(ctx context.Context, batchLimit int) (int, error) {
	rows, err := e.customers.ListByType(ctx, enums.CustomerTypePostpaid, batchLimit)
	if err != nil {
		return 0, errors.Wrap(errors.CodeInternal, err, "listing postpaid customers")
	}

	var errs error
	closed := 0
	for _, customer := range rows {
		if _, err := e.CloseBillingCycle(ctx, customer.ID); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		closed++
	}
	return closed, errs
}

func (e *Engine) loadCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := e.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "loading customer")
	}
	if customer == nil {
		return nil, errors.New(errors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

func (e *Engine) loadCurrentVariant(ctx context.Context, customer *models.Customer) (*models.Plan, Variant, error) {
	plan, err := e.plans.FindByID(ctx, customer.CurrPlanID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.CodeInternal, err, "loading current plan")
	}
	if plan == nil {
		return nil, nil, errors.New(errors.CodeNotFound, "current plan not found")
	}
	variant, err := ResolveVariant(plan, "")
	if err != nil {
		return nil, nil, err
	}
	return plan, variant, nil
}

func (e *Engine) buildInvoice(customer *models.Customer, plan *models.Plan, planType enums.PlanType, units, amount decimal.Decimal) *models.Invoice {
	return &models.Invoice{
		ID:           uuid.New(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		PlanID:       plan.ID,
		PlanType:     planType,
		Units:        units,
		Amount:       amount,
		CurrencyCode: e.currency,
		Date:         time.Now().UTC(),
	}
}

// Invoices are immutable, so the generated event is emitted at most once per
// invoice regardless of retries inside the same transaction.
func (e *Engine) emitInvoiceGenerated(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error {
	return e.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventInvoiceGenerated,
		AggregateType: enums.AggregateInvoice,
		AggregateID:   invoice.ID,
		Data: payloads.InvoiceGenerated{
			InvoiceID:    invoice.ID,
			CustomerID:   invoice.CustomerID,
			PlanID:       invoice.PlanID,
			PlanType:     invoice.PlanType,
			Units:        invoice.Units,
			Amount:       invoice.Amount,
			CurrencyCode: invoice.CurrencyCode,
		},
	})
}

func (e *Engine) logPurchase(ctx context.Context, customerID, planID, invoiceID uuid.UUID) {
	if e.logg == nil {
		return
	}
	logCtx := e.logg.WithCustomerID(ctx, customerID.String())
	logCtx = e.logg.WithPlanID(logCtx, planID.String())
	logCtx = e.logg.WithInvoiceID(logCtx, invoiceID.String())
	e.logg.Info(logCtx, "plan purchased")
}
