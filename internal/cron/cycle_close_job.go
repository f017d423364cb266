package cron

import (
	"context"
	"errors"

	"github.com/voxtel/billing-backend/pkg/logger"
)

// CycleCloser settles postpaid billing cycles in bulk.
type CycleCloser interface {
	CloseAllBillingCycles(ctx context.Context, batchLimit int) (int, error)
}

// CycleCloseJobParams configure the billing cycle close job.
type CycleCloseJobParams struct {
	Engine     CycleCloser
	Logger     *logger.Logger
	BatchLimit int
}

// CycleCloseJob sweeps postpaid customers and settles each billing cycle.
type CycleCloseJob struct {
	engine     CycleCloser
	logg       *logger.Logger
	batchLimit int
}

// NewCycleCloseJob builds the cycle close job.
func NewCycleCloseJob(params CycleCloseJobParams) (*CycleCloseJob, error) {
	if params.Engine == nil {
		return nil, errors.New("rating engine required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	batchLimit := params.BatchLimit
	if batchLimit <= 0 {
		batchLimit = 250
	}
	return &CycleCloseJob{
		engine:     params.Engine,
		logg:       params.Logger,
		batchLimit: batchLimit,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *CycleCloseJob) Name() string {
	return "billing.cycle_close"
}

// Run settles every due postpaid cycle. Per-customer failures come back
// aggregated so a single bad record cannot stall the sweep.
func (j *CycleCloseJob) Run(ctx context.Context) error {
	closed, err := j.engine.CloseAllBillingCycles(ctx, j.batchLimit)
	logCtx := j.logg.WithField(ctx, "cycles_closed", closed)
	if err != nil {
		j.logg.Warn(logCtx, "cycle close sweep finished with failures")
		return err
	}
	j.logg.Info(logCtx, "cycle close sweep finished")
	return nil
}
