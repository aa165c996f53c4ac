// Package telemetry persists per-tick navigation records as whitespace separated text files and
// renders them as plots.
package telemetry

import (
	"time"

	"github.com/golang/geo/r2"
)

// Names of the files a run directory holds.
const (
	VelocityFile   = "odomVelData.csv"
	TrajectoryFile = "odomTrajData.csv"
	LaserFile      = "laserData.csv"
	LaserMapFile   = "laserMapData.csv"
)

// Record is everything logged for one control tick.
type Record struct {
	// Elapsed is the time since the control loop started.
	Elapsed time.Duration
	// Velocity is the measured forward speed.
	Velocity float64
	Position r2.Point
	// Coarse is the coarse range summary of the cached sweep.
	Coarse []float64
	// MapPoints are the primary bearing readings projected into the world frame, in the order
	// front, left, right, mid-left, mid-right.
	MapPoints []r2.Point
}

// A Sink consumes tick records.
type Sink interface {
	Record(rec Record) error
}

// Discard is a Sink that drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Record) error { return nil }
