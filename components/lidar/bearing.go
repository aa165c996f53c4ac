// Package lidar reduces planar laser sweeps to the handful of readings the navigation controller
// steers by.
package lidar

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/wallnav/spatialmath"
)

// Bearing names a fixed direction relative to the robot's forward axis. Bearings are numbered
// counter-clockwise from the front in π/4 steps.
type Bearing int

// The eight named bearings.
const (
	Front Bearing = iota
	MidLeft
	Left
	BackLeft
	Back
	BackRight
	Right
	MidRight
)

// NumBearings is the number of named bearings in a scan.
const NumBearings = 8

// Bearings lists every named bearing in index order.
var Bearings = [NumBearings]Bearing{Front, MidLeft, Left, BackLeft, Back, BackRight, Right, MidRight}

// PrimaryBearings are the bearings projected into the world frame each tick.
var PrimaryBearings = []Bearing{Front, Left, Right, MidLeft, MidRight}

// Angle returns the bearing in radians, in (-π, π].
func (b Bearing) Angle() float64 {
	return spatialmath.NormalizeAngle(float64(b) * math.Pi / 4)
}

func (b Bearing) String() string {
	switch b {
	case Front:
		return "front"
	case MidLeft:
		return "mid_left"
	case Left:
		return "left"
	case BackLeft:
		return "back_left"
	case Back:
		return "back"
	case BackRight:
		return "back_right"
	case Right:
		return "right"
	case MidRight:
		return "mid_right"
	default:
		return fmt.Sprintf("Bearing(%d)", int(b))
	}
}

// BearingFromString parses a bearing name as produced by String.
func BearingFromString(name string) (Bearing, error) {
	for _, b := range Bearings {
		if b.String() == name {
			return b, nil
		}
	}
	return Front, errors.Errorf("unknown bearing %q", name)
}

// MarshalText implements encoding.TextMarshaler so bearings appear by name in JSON configs.
func (b Bearing) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bearing) UnmarshalText(text []byte) error {
	parsed, err := BearingFromString(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
