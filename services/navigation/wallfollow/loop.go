package wallfollow

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"go.viam.com/wallnav/logging"
	"go.viam.com/wallnav/telemetry"
)

// Loop ticks a Controller at a fixed rate and hands every record to a telemetry sink.
type Loop struct {
	ctrl   *Controller
	clk    clock.Clock
	period time.Duration
	sink   telemetry.Sink
	logger logging.Logger

	ticks      atomic.Uint64
	tickErrors atomic.Uint64
}

// NewLoop returns a loop ticking ctrl at hz. A nil sink discards records.
func NewLoop(ctrl *Controller, hz float64, clk clock.Clock, sink telemetry.Sink, logger logging.Logger) (*Loop, error) {
	if hz <= 0 || hz > MaxHz {
		return nil, errors.Errorf("tick rate must be in (0, %d] hz, got %v", MaxHz, hz)
	}
	if sink == nil {
		sink = telemetry.Discard
	}
	return &Loop{
		ctrl:   ctrl,
		clk:    clk,
		period: time.Duration(float64(time.Second) / hz),
		sink:   sink,
		logger: logger,
	}, nil
}

// Period returns the time between ticks.
func (l *Loop) Period() time.Duration {
	return l.period
}

// Ticks returns the number of ticks run so far.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// TickErrors returns the number of ticks whose command or record failed.
func (l *Loop) TickErrors() uint64 {
	return l.tickErrors.Load()
}

// Run ticks immediately and then once per period until ctx is done. Reaching the stop stage does
// not end the loop. A failed command or record is logged and the loop carries on.
func (l *Loop) Run(ctx context.Context) error {
	ticker := l.clk.Ticker(l.period)
	defer ticker.Stop()

	start := l.clk.Now()
	l.logger.Infow("starting control loop", "period", l.period)
	for {
		l.tick(ctx, l.clk.Since(start))
		if !goutils.SelectContextOrWaitChan(ctx, ticker.C) {
			l.logger.Infow("control loop stopped", "ticks", l.ticks.Load(), "stage", l.ctrl.Stage().String())
			return ctx.Err()
		}
	}
}

func (l *Loop) tick(ctx context.Context, elapsed time.Duration) {
	if ctx.Err() != nil {
		return
	}
	rec, err := l.ctrl.Tick(ctx, elapsed)
	if err != nil {
		l.tickErrors.Inc()
		l.logger.Warnw("tick failed", "error", err)
	}
	if err := l.sink.Record(rec); err != nil {
		l.tickErrors.Inc()
		l.logger.Warnw("failed to record telemetry", "error", err)
	}
	l.ticks.Inc()
}
