// Package wallfollow implements a navigation service that drives a base through a fixed program
// of stages, each following a wall at a standoff distance until a position landmark is passed.
package wallfollow

import (
	"context"
	"sync"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/wallnav/components/base"
	"go.viam.com/wallnav/components/lidar"
	"go.viam.com/wallnav/components/movementsensor"
	"go.viam.com/wallnav/control"
	"go.viam.com/wallnav/logging"
	"go.viam.com/wallnav/services/navigation"
	"go.viam.com/wallnav/spatialmath"
	"go.viam.com/wallnav/telemetry"
)

var _ = navigation.Service(&Controller{})

// Snapshot is the sensor state a tick works from.
type Snapshot struct {
	Pose     spatialmath.Pose2D
	Velocity float64
	Scan     lidar.Scan
	// OdometrySamples and Sweeps count the updates applied so far.
	OdometrySamples uint64
	Sweeps          uint64
}

// Controller owns the navigation state of one robot. Sensor handlers may be called from any
// goroutine; Tick must only be called from one goroutine at a time.
type Controller struct {
	cfg    Config
	base   base.Base
	logger logging.Logger

	tracker *movementsensor.PoseTracker
	ranges  *lidar.RangeCache
	pid     *control.StandoffPID

	tickMu     sync.Mutex
	supervisor *Supervisor

	stage       atomic.Int32
	mode        atomic.Uint32
	shortSweeps atomic.Uint64
}

// NewController returns a controller in StageLeaveHome that sends commands to b.
func NewController(cfg Config, b base.Base, logger logging.Logger) (*Controller, error) {
	if err := cfg.Validate("navigation"); err != nil {
		return nil, err
	}
	pid := control.NewStandoffPID(cfg.PID)
	c := &Controller{
		cfg:    cfg,
		base:   b,
		logger: logger,
		tracker: movementsensor.NewPoseTracker(movementsensor.TrackerConfig{
			Home:       cfg.Home,
			HeadingLag: cfg.HeadingLag,
		}),
		ranges:     lidar.NewRangeCache(cfg.Lidar),
		pid:        pid,
		supervisor: NewSupervisor(cfg.Stages, pid),
	}
	c.stage.Store(int32(StageLeaveHome))
	return c, nil
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config {
	return c.cfg
}

// HandleOdometry applies a pose sample.
func (c *Controller) HandleOdometry(odom movementsensor.Odometry) {
	c.tracker.Update(odom)
}

// HandleScan applies a full sweep. A sweep too short for the configured layout is dropped and
// the previous sweep stays cached.
func (c *Controller) HandleScan(ranges []float64) error {
	if err := c.ranges.Update(ranges); err != nil {
		var short *lidar.ShortSweepError
		if errors.As(err, &short) {
			c.shortSweeps.Inc()
			c.logger.Warnw("dropping short sweep", "got", short.Got, "need", short.Need)
		}
		return err
	}
	return nil
}

// ShortSweeps returns how many sweeps have been dropped for being too short.
func (c *Controller) ShortSweeps() uint64 {
	return c.shortSweeps.Load()
}

// Snapshot returns the current pose and cached scan.
func (c *Controller) Snapshot() Snapshot {
	pose, velocity, samples := c.tracker.State()
	scan, sweeps := c.ranges.Snapshot()
	return Snapshot{
		Pose:            pose,
		Velocity:        velocity,
		Scan:            scan,
		OdometrySamples: samples,
		Sweeps:          sweeps,
	}
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage {
	return Stage(c.stage.Load())
}

// Mode implements navigation.Service.
func (c *Controller) Mode(ctx context.Context) (navigation.Mode, error) {
	return navigation.Mode(c.mode.Load()), nil
}

// SetMode implements navigation.Service. In manual mode ticks still record telemetry but the
// stage program neither advances nor commands the base.
func (c *Controller) SetMode(ctx context.Context, mode navigation.Mode) error {
	if mode != navigation.ModeWaypoint && mode != navigation.ModeManual {
		return errors.Errorf("unsupported navigation mode %d", mode)
	}
	if old := navigation.Mode(c.mode.Swap(uint32(mode))); old != mode {
		c.logger.Infow("navigation mode changed", "from", old, "to", mode)
	}
	return nil
}

// Location implements navigation.Service.
func (c *Controller) Location(ctx context.Context) (spatialmath.Pose2D, error) {
	pose, _, _ := c.tracker.State()
	return pose, nil
}

// Project converts the primary bearing readings of snap into world points clamped to the arena,
// in the order of lidar.PrimaryBearings.
func (c *Controller) Project(snap Snapshot) []r2.Point {
	points := make([]r2.Point, 0, len(lidar.PrimaryBearings))
	for _, b := range lidar.PrimaryBearings {
		points = append(points, c.cfg.Arena.Project(snap.Pose, snap.Scan.Range(b), b.Angle()))
	}
	return points
}

// Tick runs one control step: it advances the stage program against a fresh snapshot, sends the
// resulting command, and returns the telemetry record for the step. elapsed is the time since the
// loop started.
func (c *Controller) Tick(ctx context.Context, elapsed time.Duration) (telemetry.Record, error) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	snap := c.Snapshot()
	rec := telemetry.Record{
		Elapsed:   elapsed,
		Velocity:  snap.Velocity,
		Position:  snap.Pose.Point(),
		Coarse:    snap.Scan.Coarse,
		MapPoints: c.Project(snap),
	}

	if navigation.Mode(c.mode.Load()) == navigation.ModeManual {
		return rec, nil
	}

	decision := c.supervisor.Step(snap.Pose, &snap.Scan)
	for _, tr := range decision.Transitions {
		c.logger.Infow("stage transition",
			"from", tr.From.String(),
			"to", tr.To.String(),
			"x", tr.Pose.X,
			"y", tr.Pose.Y,
			"elapsed", elapsed,
		)
	}
	c.stage.Store(int32(decision.Stage))

	if decision.Stage.Terminal() {
		return rec, errors.Wrap(c.base.Stop(ctx, nil), "stop")
	}
	c.logger.Debugw("tick",
		"stage", decision.Stage.String(),
		"pose", snap.Pose.String(),
		"bearing", decision.Bearing.String(),
		"reading", decision.Reading,
		"command", decision.Command.String(),
	)
	return rec, errors.Wrap(base.Send(ctx, c.base, decision.Command), "send command")
}

// MoveForward drives straight ahead at speed.
func (c *Controller) MoveForward(ctx context.Context, speed float64) error {
	return base.Send(ctx, c.base, base.VelocityCommand{LinearX: speed})
}

// Stop stops the base.
func (c *Controller) Stop(ctx context.Context) error {
	return c.base.Stop(ctx, nil)
}

// TurnRight turns in place at rate, which should be negative (TurnRightSpeedHigh by convention).
func (c *Controller) TurnRight(ctx context.Context, rate float64) error {
	return base.Send(ctx, c.base, base.VelocityCommand{AngularZ: rate})
}

// MoveForwardTurn drives forward at speed while turning at rate.
func (c *Controller) MoveForwardTurn(ctx context.Context, speed, rate float64) error {
	return base.Send(ctx, c.base, base.VelocityCommand{LinearX: speed, AngularZ: rate})
}
