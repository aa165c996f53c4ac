// Package navigation contains the navigation service interface implemented by the wall follower.
package navigation

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/wallnav/spatialmath"
)

// Mode describes what mode to operate the service in.
type Mode uint8

// The set of known modes.
const (
	// ModeWaypoint lets the stage program drive the base on every tick.
	ModeWaypoint = Mode(iota)
	// ModeManual suspends the stage program; only direct requests move the base.
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeWaypoint:
		return "waypoint"
	case ModeManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ModeFromString parses a mode name.
func ModeFromString(s string) (Mode, error) {
	switch s {
	case "waypoint":
		return ModeWaypoint, nil
	case "manual":
		return ModeManual, nil
	default:
		return 0, errors.Errorf("unknown navigation mode %q", s)
	}
}

// A Service controls the navigation for a robot.
type Service interface {
	Mode(ctx context.Context) (Mode, error)
	SetMode(ctx context.Context, mode Mode) error

	// Location returns the current pose in the world frame.
	Location(ctx context.Context) (spatialmath.Pose2D, error)
}
