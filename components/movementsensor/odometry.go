// Package movementsensor turns odometry samples into the planar pose the navigation controller
// steers by.
package movementsensor

import (
	"sync"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/wallnav/spatialmath"
)

// Odometry is one pose sample as delivered by the transport: position in the odometry frame,
// orientation as a unit quaternion and forward speed.
type Odometry struct {
	Position       r3.Vector   `json:"position"`
	Orientation    quat.Number `json:"orientation"`
	LinearVelocity float64     `json:"linear_velocity"`
}

// TrackerConfig configures a PoseTracker.
type TrackerConfig struct {
	// Home is the world position of the odometry origin. It is also the pose reported before
	// the first sample arrives.
	Home r3.Vector
	// HeadingLag derives the heading from the previous rotation sample instead of the one just
	// received, trailing the orientation by one sample.
	HeadingLag bool
}

// PoseTracker holds the latest pose and measured speed. Odometry samples may arrive on any
// goroutine; State always returns a pose written by a single update.
type PoseTracker struct {
	cfg TrackerConfig

	mu       sync.RWMutex
	pose     spatialmath.Pose2D
	velocity float64
	lastQuat quat.Number
	samples  uint64
}

// NewPoseTracker returns a tracker positioned at cfg.Home with zero heading.
func NewPoseTracker(cfg TrackerConfig) *PoseTracker {
	return &PoseTracker{
		cfg:      cfg,
		pose:     spatialmath.Pose2D{X: cfg.Home.X, Y: cfg.Home.Y},
		lastQuat: quat.Number{Real: 1},
	}
}

// Update applies one odometry sample.
func (pt *PoseTracker) Update(odom Odometry) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	rotation := odom.Orientation
	if pt.cfg.HeadingLag {
		rotation = pt.lastQuat
	}
	pt.pose = spatialmath.Pose2D{
		X:       odom.Position.X + pt.cfg.Home.X,
		Y:       odom.Position.Y + pt.cfg.Home.Y,
		Heading: spatialmath.QuatToEulerAngles(rotation).Heading(),
	}
	pt.velocity = odom.LinearVelocity
	pt.lastQuat = odom.Orientation
	pt.samples++
}

// State returns the current pose, the last measured forward speed and the number of samples
// applied so far.
func (pt *PoseTracker) State() (spatialmath.Pose2D, float64, uint64) {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.pose, pt.velocity, pt.samples
}
