package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// DefaultArenaSize is the side length, in meters, of the square arena points are clamped into.
const DefaultArenaSize = 2.5

// Arena is an axis aligned square region of the world frame. Projected points are saturated
// onto it.
type Arena struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewDefaultArena returns the [0, 2.5] arena.
func NewDefaultArena() Arena {
	return Arena{Min: 0, Max: DefaultArenaSize}
}

// Validate ensures the arena bounds are ordered.
func (a Arena) Validate() error {
	if a.Max <= a.Min {
		return errors.Errorf("arena max (%v) must be greater than min (%v)", a.Max, a.Min)
	}
	return nil
}

// Contains reports whether p lies inside the arena, bounds included. Callers use it to detect
// saturation by checking the unclamped projection.
func (a Arena) Contains(p r2.Point) bool {
	return p.X >= a.Min && p.X <= a.Max && p.Y >= a.Min && p.Y <= a.Max
}

// Clamp saturates p onto the arena.
func (a Arena) Clamp(p r2.Point) r2.Point {
	return r2.Point{X: clamp(p.X, a.Min, a.Max), Y: clamp(p.Y, a.Min, a.Max)}
}

// ProjectUnclamped maps a range reading taken at bearing (radians, relative to the robot's
// forward axis) into the world frame using the robot pose. Non-finite ranges give non-finite or NaN
// coordinates.
func ProjectUnclamped(pose Pose2D, rng, bearing float64) r2.Point {
	local := r2.Point{X: rng * math.Cos(bearing), Y: rng * math.Sin(bearing)}
	sinH, cosH := math.Sincos(pose.Heading)
	return r2.Point{
		X: local.X*cosH - local.Y*sinH + pose.X,
		Y: local.X*sinH + local.Y*cosH + pose.Y,
	}
}

// Project is ProjectUnclamped followed by Clamp. The result is always inside the arena: an
// infinite range saturates on the arena edge along the ray and a NaN range projects to the pose.
func (a Arena) Project(pose Pose2D, rng, bearing float64) r2.Point {
	switch {
	case math.IsNaN(rng):
		rng = 0
	case math.IsInf(rng, 0):
		rng = math.Copysign(a.reach(pose), rng)
	}
	return a.Clamp(ProjectUnclamped(pose, rng, bearing))
}

// reach is longer than the distance from pose to any point of the arena.
func (a Arena) reach(pose Pose2D) float64 {
	return math.Abs(pose.X) + math.Abs(pose.Y) + 2*(math.Abs(a.Min)+math.Abs(a.Max)) + 1
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
