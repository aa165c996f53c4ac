package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestQuatToEulerIdentity(t *testing.T) {
	ea := QuatToEulerAngles(quat.Number{Real: 1})
	test.That(t, ea.Roll, test.ShouldEqual, 0)
	test.That(t, ea.Pitch, test.ShouldEqual, 0)
	test.That(t, ea.Yaw, test.ShouldEqual, 0)
	test.That(t, ea.Heading(), test.ShouldEqual, 0)
}

func TestQuatToEulerAboutZ(t *testing.T) {
	ea := QuatToEulerAngles(QuatFromYaw(math.Pi / 2))
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, ea.Roll, test.ShouldAlmostEqual, 0)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, 0)

	ea = QuatToEulerAngles(QuatFromYaw(-3 * math.Pi / 4))
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, -3*math.Pi/4)
}

func TestQuatToEulerAboutX(t *testing.T) {
	th := math.Pi / 4
	ea := QuatToEulerAngles(quat.Number{Real: math.Cos(th / 2), Imag: math.Sin(th / 2)})
	test.That(t, ea.Roll, test.ShouldAlmostEqual, th)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, 0)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, 0)
}

func TestQuatToEulerGimbalLock(t *testing.T) {
	// 90 degrees about y puts the pitch argument exactly at 1.
	s := math.Sqrt(2) / 2
	ea := QuatToEulerAngles(quat.Number{Real: s, Jmag: s})
	test.That(t, math.IsNaN(ea.Pitch), test.ShouldBeFalse)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, math.Pi/2)

	// slightly over unit length pushes the argument past 1
	ea = QuatToEulerAngles(quat.Number{Real: 0.71, Jmag: 0.71})
	test.That(t, ea.Pitch, test.ShouldEqual, math.Pi/2)

	ea = QuatToEulerAngles(quat.Number{Real: 0.71, Jmag: -0.71})
	test.That(t, ea.Pitch, test.ShouldEqual, -math.Pi/2)
}

func TestQuatToEulerNearUnit(t *testing.T) {
	q := QuatFromYaw(1.0)
	q.Real *= 1.001
	q.Kmag *= 1.001
	ea := QuatToEulerAngles(q)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, 1.0, 1e-2)
	test.That(t, math.IsNaN(ea.Yaw), test.ShouldBeFalse)
}

func TestNormalizeAngle(t *testing.T) {
	test.That(t, NormalizeAngle(0), test.ShouldEqual, 0)
	test.That(t, NormalizeAngle(math.Pi), test.ShouldAlmostEqual, math.Pi)
	test.That(t, NormalizeAngle(-math.Pi), test.ShouldAlmostEqual, math.Pi)
	test.That(t, NormalizeAngle(5*math.Pi/4), test.ShouldAlmostEqual, -3*math.Pi/4)
	test.That(t, NormalizeAngle(7*math.Pi/4), test.ShouldAlmostEqual, -math.Pi/4)
	test.That(t, NormalizeAngle(-5*math.Pi/2), test.ShouldAlmostEqual, -math.Pi/2)
}
