// Package base defines the mobile base the navigation controller drives.
package base

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"
)

// A Base represents a physical base of a robot that accepts velocity commands.
type Base interface {
	// SetVelocity sets the linear (m/sec) and angular (rad/sec) velocity of the base.
	SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error

	// Stop stops the base. It is assumed the base stops immediately.
	Stop(ctx context.Context, extra map[string]interface{}) error
}

// VelocityCommand is a planar velocity command: forward speed along the base's x axis and
// turning rate about its z axis. Positive AngularZ turns left.
type VelocityCommand struct {
	LinearX  float64 `json:"linear_x"`
	AngularZ float64 `json:"angular_z"`
}

// Vectors expands the command into the linear and angular vectors taken by SetVelocity.
func (c VelocityCommand) Vectors() (linear, angular r3.Vector) {
	return r3.Vector{X: c.LinearX}, r3.Vector{Z: c.AngularZ}
}

// IsStop reports whether the command has no forward or turning component.
func (c VelocityCommand) IsStop() bool {
	return c.LinearX == 0 && c.AngularZ == 0
}

func (c VelocityCommand) String() string {
	return fmt.Sprintf("linear_x=%+.4f angular_z=%+.4f", c.LinearX, c.AngularZ)
}

// CommandFromVectors is the inverse of VelocityCommand.Vectors. Components other than linear x
// and angular z are dropped.
func CommandFromVectors(linear, angular r3.Vector) VelocityCommand {
	return VelocityCommand{LinearX: linear.X, AngularZ: angular.Z}
}

// Send issues cmd to b.
func Send(ctx context.Context, b Base, cmd VelocityCommand) error {
	linear, angular := cmd.Vectors()
	return b.SetVelocity(ctx, linear, angular, nil)
}
