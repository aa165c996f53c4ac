// Package control implements the standoff distance controller used for wall following.
package control

import (
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/wallnav/components/base"
)

// PIDConfig is the tuning of a StandoffPID.
type PIDConfig struct {
	Kp        float64 `json:"kp"`
	Ki        float64 `json:"ki"`
	Kd        float64 `json:"kd"`
	Target    float64 `json:"target"`
	MaxOutput float64 `json:"max_output"`
	// TrackError stores the error, instead of the derivative, as the previous sample for the
	// next derivative term.
	TrackError bool `json:"track_error,omitempty"`
}

// DefaultPIDConfig returns the wall following tuning: hold 0.3m from the wall and never turn
// faster than 0.6rad/s.
func DefaultPIDConfig() PIDConfig {
	return PIDConfig{
		Kp:        0.01,
		Ki:        0.001,
		Kd:        0.001,
		Target:    0.3,
		MaxOutput: 0.6,
	}
}

// Validate ensures the output bound is usable.
func (cfg PIDConfig) Validate() error {
	if cfg.MaxOutput <= 0 {
		return errors.Errorf("max_output must be positive, got %v", cfg.MaxOutput)
	}
	if cfg.Kp == 0 && cfg.Ki == 0 && cfg.Kd == 0 {
		return errors.New("pid should have at least one of kp, ki or kd set")
	}
	return nil
}

// StandoffPID steers so that a range reading converges to the target standoff distance. The
// integral accumulates without bound and is never decayed; only the output is clamped. One
// instance is meant to live for the whole run, whatever bearing feeds it.
type StandoffPID struct {
	mu       sync.Mutex
	cfg      PIDConfig
	integral float64
	previous float64
}

// NewStandoffPID returns a controller with zeroed error state.
func NewStandoffPID(cfg PIDConfig) *StandoffPID {
	return &StandoffPID{cfg: cfg}
}

// Config returns the controller tuning.
func (p *StandoffPID) Config() PIDConfig {
	return p.cfg
}

// Output advances the controller by one sample and returns the clamped turning correction.
// Readings beyond the target (too far from the wall) produce a positive correction.
func (p *StandoffPID) Output(reading float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := reading - p.cfg.Target
	p.integral += err
	derivative := err - p.previous
	output := p.cfg.Kp*err + p.cfg.Ki*p.integral + p.cfg.Kd*derivative
	if p.cfg.TrackError {
		p.previous = err
	} else {
		p.previous = derivative
	}
	return clamp(output, -p.cfg.MaxOutput, p.cfg.MaxOutput)
}

// Next returns a command that drives forward at moveSpeed while correcting toward the target
// standoff using reading.
func (p *StandoffPID) Next(moveSpeed, reading float64) base.VelocityCommand {
	return base.VelocityCommand{LinearX: moveSpeed, AngularZ: p.Output(reading)}
}

// State returns the accumulated integral and the stored previous sample.
func (p *StandoffPID) State() (integral, previous float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.integral, p.previous
}

// Reset zeroes the error state.
func (p *StandoffPID) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.integral = 0
	p.previous = 0
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
