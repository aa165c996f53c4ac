package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Pose2D is a planar robot pose in the world frame. Heading is in radians, counter-clockwise
// from the world x axis.
type Pose2D struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Point returns the position part of the pose.
func (p Pose2D) Point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

func (p Pose2D) String() string {
	return fmt.Sprintf("(%.3f, %.3f) @ %.3frad", p.X, p.Y, p.Heading)
}
