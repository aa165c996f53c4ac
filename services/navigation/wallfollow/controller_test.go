package wallfollow

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/wallnav/components/base"
	"go.viam.com/wallnav/components/base/fake"
	"go.viam.com/wallnav/components/lidar"
	"go.viam.com/wallnav/components/movementsensor"
	"go.viam.com/wallnav/logging"
	"go.viam.com/wallnav/services/navigation"
	"go.viam.com/wallnav/spatialmath"
)

// makeSweep returns a default length sweep reading fill everywhere except at the given indices.
func makeSweep(fill float64, set map[int]float64) []float64 {
	ranges := make([]float64, lidar.DefaultSamples)
	for i := range ranges {
		ranges[i] = fill
	}
	for i, v := range set {
		ranges[i] = v
	}
	return ranges
}

func newTestController(t *testing.T) (*Controller, *fake.Base) {
	t.Helper()
	b := fake.NewBase()
	ctrl, err := NewController(DefaultConfig(), b, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return ctrl, b
}

func TestNewControllerRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stages = cfg.Stages[:3]
	_, err := NewController(cfg, fake.NewBase(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected 5 stages, got 3")
}

func TestControllerSnapshot(t *testing.T) {
	ctrl, _ := newTestController(t)

	snap := ctrl.Snapshot()
	test.That(t, snap.Pose, test.ShouldResemble, spatialmath.Pose2D{X: 0.3, Y: 0.3})
	test.That(t, snap.Scan.Coarse, test.ShouldHaveLength, 36)
	test.That(t, snap.Sweeps, test.ShouldEqual, 0)

	ctrl.HandleOdometry(movementsensor.Odometry{
		Position:       r3.Vector{X: 0.1, Y: 0.2},
		Orientation:    spatialmath.QuatFromYaw(math.Pi / 2),
		LinearVelocity: 0.25,
	})
	test.That(t, ctrl.HandleScan(makeSweep(1, map[int]float64{539: 0.4})), test.ShouldBeNil)

	snap = ctrl.Snapshot()
	test.That(t, snap.Pose.X, test.ShouldAlmostEqual, 0.4)
	test.That(t, snap.Pose.Y, test.ShouldAlmostEqual, 0.5)
	test.That(t, snap.Pose.Heading, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, snap.Velocity, test.ShouldEqual, 0.25)
	test.That(t, snap.Scan.Range(lidar.Right), test.ShouldEqual, 0.4)
	test.That(t, snap.OdometrySamples, test.ShouldEqual, 1)
	test.That(t, snap.Sweeps, test.ShouldEqual, 1)

	loc, err := ctrl.Location(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loc, test.ShouldResemble, snap.Pose)
}

func TestControllerShortSweep(t *testing.T) {
	ctrl, _ := newTestController(t)
	test.That(t, ctrl.HandleScan(makeSweep(2, nil)), test.ShouldBeNil)

	err := ctrl.HandleScan(make([]float64, 100))
	var short *lidar.ShortSweepError
	test.That(t, errors.As(err, &short), test.ShouldBeTrue)
	test.That(t, short.Got, test.ShouldEqual, 100)
	test.That(t, short.Need, test.ShouldEqual, 630)
	test.That(t, ctrl.ShortSweeps(), test.ShouldEqual, 1)

	snap := ctrl.Snapshot()
	test.That(t, snap.Sweeps, test.ShouldEqual, 1)
	test.That(t, snap.Scan.Range(lidar.Front), test.ShouldEqual, 2)
}

func TestControllerProject(t *testing.T) {
	ctrl, _ := newTestController(t)
	test.That(t, ctrl.HandleScan(makeSweep(10, map[int]float64{0: 1.0, 179: 0.5, 539: 0.2})), test.ShouldBeNil)

	points := ctrl.Project(ctrl.Snapshot())
	test.That(t, points, test.ShouldHaveLength, 5)
	expected := [][2]float64{
		{1.3, 0.3}, // front
		{0.3, 0.8}, // left
		{0.3, 0.1}, // right
		{2.5, 2.5}, // mid left, saturated
		{2.5, 0},   // mid right, saturated
	}
	for i, p := range points {
		test.That(t, p.X, test.ShouldAlmostEqual, expected[i][0])
		test.That(t, p.Y, test.ShouldAlmostEqual, expected[i][1])
	}
}

func TestControllerTick(t *testing.T) {
	ctx := context.Background()
	ctrl, b := newTestController(t)
	test.That(t, ctrl.HandleScan(makeSweep(0.3, nil)), test.ShouldBeNil)

	rec, err := ctrl.Tick(ctx, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ctrl.Stage(), test.ShouldEqual, StageLeaveHome)
	last, ok := b.Last()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, last, test.ShouldResemble, base.VelocityCommand{LinearX: ForwardSpeedHigh})
	test.That(t, rec.Position.X, test.ShouldEqual, 0.3)
	test.That(t, rec.Coarse, test.ShouldHaveLength, 36)
	test.That(t, rec.MapPoints, test.ShouldHaveLength, 5)

	// past the last landmark every tick stops the base
	ctrl.HandleOdometry(movementsensor.Odometry{Position: r3.Vector{X: 2.2, Y: 1.2}, Orientation: spatialmath.QuatFromYaw(0)})
	for i := 0; i < 3; i++ {
		_, err = ctrl.Tick(ctx, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ctrl.Stage(), test.ShouldEqual, StageStop)
	}
	test.That(t, b.StopCount(), test.ShouldEqual, 3)

	b.SetVelocityErr = errors.New("base offline")
	_, err = ctrl.Tick(ctx, 0)
	test.That(t, err, test.ShouldBeNil)
}

func TestControllerTickCommandError(t *testing.T) {
	ctrl, b := newTestController(t)
	b.SetVelocityErr = errors.New("base offline")
	_, err := ctrl.Tick(context.Background(), 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "base offline")
}

func TestControllerManualMode(t *testing.T) {
	ctx := context.Background()
	ctrl, b := newTestController(t)

	mode, err := ctrl.Mode(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mode, test.ShouldEqual, navigation.ModeWaypoint)

	test.That(t, ctrl.SetMode(ctx, navigation.ModeManual), test.ShouldBeNil)
	test.That(t, ctrl.SetMode(ctx, navigation.Mode(7)), test.ShouldNotBeNil)

	ctrl.HandleOdometry(movementsensor.Odometry{Position: r3.Vector{X: 2.2, Y: 1.2}, Orientation: spatialmath.QuatFromYaw(0)})
	rec, err := ctrl.Tick(ctx, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rec.Position.X, test.ShouldAlmostEqual, 2.5)
	test.That(t, ctrl.Stage(), test.ShouldEqual, StageLeaveHome)
	test.That(t, b.Commands(), test.ShouldBeEmpty)

	test.That(t, ctrl.MoveForward(ctx, ForwardSpeedLow), test.ShouldBeNil)
	test.That(t, ctrl.TurnRight(ctx, TurnRightSpeedHigh), test.ShouldBeNil)
	test.That(t, ctrl.MoveForwardTurn(ctx, ForwardSpeedMiddle, TurnRightSpeedMiddle), test.ShouldBeNil)
	test.That(t, ctrl.Stop(ctx), test.ShouldBeNil)
	test.That(t, b.Commands(), test.ShouldResemble, []base.VelocityCommand{
		{LinearX: ForwardSpeedLow},
		{AngularZ: TurnRightSpeedHigh},
		{LinearX: ForwardSpeedMiddle, AngularZ: TurnRightSpeedMiddle},
		{},
	})

	test.That(t, ctrl.SetMode(ctx, navigation.ModeWaypoint), test.ShouldBeNil)
	_, err = ctrl.Tick(ctx, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ctrl.Stage(), test.ShouldEqual, StageStop)
}
