package wallfollow

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/wallnav/components/lidar"
	"go.viam.com/wallnav/control"
	"go.viam.com/wallnav/spatialmath"
)

// Forward speeds, in m/s.
const (
	ForwardSpeedLow    = 0.1
	ForwardSpeedMiddle = 0.3
	ForwardSpeedHigh   = 0.5
)

// Turning rates, in rad/s, for direct turn requests. Positive turns left.
const (
	TurnLeftSpeedHigh    = 1.0
	TurnLeftSpeedMiddle  = 0.6
	TurnLeftSpeedLow     = 0.3
	TurnRightSpeedHigh   = -1.0
	TurnRightSpeedMiddle = -0.59
	TurnRightSpeedLow    = -0.3
)

// DefaultHz is the control tick rate.
const DefaultHz = 20

// MaxHz bounds the tick rate a config may ask for.
const MaxHz = 200

// Axis names the world coordinate a stage guard compares against its landmark.
type Axis string

// The axes a guard can watch.
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Of returns the coordinate of pose along the axis.
func (a Axis) Of(pose spatialmath.Pose2D) float64 {
	if a == AxisY {
		return pose.Y
	}
	return pose.X
}

// StageConfig describes one driving stage: the robot stays in the stage while its position along
// Axis is below Landmark, driving at Speed and holding the standoff measured at Bearing.
type StageConfig struct {
	Axis     Axis          `json:"axis"`
	Landmark float64       `json:"landmark"`
	Speed    float64       `json:"speed"`
	Bearing  lidar.Bearing `json:"bearing"`
}

// Holds reports whether the stay condition of the stage is still true at pose.
func (sc StageConfig) Holds(pose spatialmath.Pose2D) bool {
	return sc.Axis.Of(pose) < sc.Landmark
}

// Validate ensures the stage is usable.
func (sc StageConfig) Validate(path string) error {
	if sc.Axis != AxisX && sc.Axis != AxisY {
		return goutils.NewConfigValidationError(path, errors.Errorf("axis must be %q or %q, got %q", AxisX, AxisY, sc.Axis))
	}
	if sc.Speed < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("speed cannot be negative, got %v", sc.Speed))
	}
	if sc.Bearing < 0 || int(sc.Bearing) >= lidar.NumBearings {
		return goutils.NewConfigValidationError(path, errors.Errorf("unknown bearing %d", int(sc.Bearing)))
	}
	return nil
}

// DefaultStages returns the stage program for the charger course: climb along the right hand
// wall until y reaches 1.15, then work east through both gaps and close in on the charger using
// the front range.
func DefaultStages() []StageConfig {
	return []StageConfig{
		{Axis: AxisY, Landmark: 1.15, Speed: ForwardSpeedHigh, Bearing: lidar.Right},
		{Axis: AxisX, Landmark: 0.9, Speed: ForwardSpeedMiddle, Bearing: lidar.Right},
		{Axis: AxisX, Landmark: 1.2, Speed: ForwardSpeedMiddle, Bearing: lidar.Right},
		{Axis: AxisX, Landmark: 1.83, Speed: ForwardSpeedLow, Bearing: lidar.Right},
		{Axis: AxisX, Landmark: 2.25, Speed: ForwardSpeedLow, Bearing: lidar.Front},
	}
}

// Config describes how to build a Controller and the Loop driving it.
type Config struct {
	Hz         float64           `json:"hz"`
	Home       r3.Vector         `json:"home"`
	HeadingLag bool              `json:"heading_lag,omitempty"`
	Arena      spatialmath.Arena `json:"arena"`
	Lidar      lidar.Layout      `json:"lidar"`
	PID        control.PIDConfig `json:"pid"`
	Stages     []StageConfig     `json:"stages"`
}

// DefaultConfig returns the configuration the controller was tuned with.
func DefaultConfig() Config {
	return Config{
		Hz:     DefaultHz,
		Home:   r3.Vector{X: 0.3, Y: 0.3},
		Arena:  spatialmath.NewDefaultArena(),
		Lidar:  lidar.NewDefaultLayout(),
		PID:    control.DefaultPIDConfig(),
		Stages: DefaultStages(),
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.Hz <= 0 || cfg.Hz > MaxHz {
		return goutils.NewConfigValidationError(path, errors.Errorf("hz must be in (0, %d], got %v", MaxHz, cfg.Hz))
	}
	if err := cfg.Arena.Validate(); err != nil {
		return goutils.NewConfigValidationError(path+".arena", err)
	}
	if err := cfg.Lidar.Validate(); err != nil {
		return goutils.NewConfigValidationError(path+".lidar", err)
	}
	if err := cfg.PID.Validate(); err != nil {
		return goutils.NewConfigValidationError(path+".pid", err)
	}
	if len(cfg.Stages) == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "stages")
	}
	if len(cfg.Stages) != NumDriveStages {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("expected %d stages, got %d", NumDriveStages, len(cfg.Stages)))
	}
	for i, sc := range cfg.Stages {
		if err := sc.Validate(fmt.Sprintf("%s.stages.%d", path, i)); err != nil {
			return err
		}
	}
	return nil
}
