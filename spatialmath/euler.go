package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles (in radians) used to represent the rotation of an object in 3D
// Euclidean space. The rotation is applied in z-y-x order: yaw, then pitch, then roll.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// Heading returns the rotation about the z axis, counter-clockwise from the x axis.
func (ea *EulerAngles) Heading() float64 {
	return ea.Yaw
}

// QuatToEulerAngles converts a rotation quaternion to roll, pitch and yaw.
// See https://en.wikipedia.org/wiki/Conversion_between_quaternions_and_Euler_angles.
// The input is not renormalized. When the pitch argument leaves [-1, 1], which happens at gimbal
// lock or for slightly non-unit inputs, pitch saturates at ±π/2 instead of becoming NaN.
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	angles := NewEulerAngles()

	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+y*y)
	angles.Roll = math.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (w*y - z*x)
	if math.Abs(sinp) >= 1 {
		angles.Pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		angles.Pitch = math.Asin(sinp)
	}

	sinyCosp := 2 * (w*z + x*y)
	cosyCosp := 1 - 2*(y*y+z*z)
	angles.Yaw = math.Atan2(sinyCosp, cosyCosp)

	return angles
}

// QuatFromYaw returns the unit quaternion for a pure rotation of yaw radians about z.
func QuatFromYaw(yaw float64) quat.Number {
	return quat.Number{Real: math.Cos(yaw / 2), Kmag: math.Sin(yaw / 2)}
}

// NormalizeAngle wraps an angle in radians into (-π, π].
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	switch {
	case theta > math.Pi:
		theta -= 2 * math.Pi
	case theta <= -math.Pi:
		theta += 2 * math.Pi
	}
	return theta
}
