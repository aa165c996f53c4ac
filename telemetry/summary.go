package telemetry

import (
	"time"

	"github.com/golang/geo/r2"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Summary condenses a run into the figures worth logging after it ends.
type Summary struct {
	Ticks    int
	Duration time.Duration
	// MeanVelocity and MaxVelocity are over the measured forward speed.
	MeanVelocity float64
	MaxVelocity  float64
	// PathLength is the distance travelled along the trajectory.
	PathLength float64
	Final      r2.Point
	// ClosestRange is the shortest positive coarse reading of the run, zero if there was none.
	ClosestRange float64
}

// Summarize computes the summary of run. A run without any tick has no summary.
func Summarize(run *Run) (Summary, error) {
	if len(run.Velocity) == 0 {
		return Summary{}, errors.New("run has no ticks")
	}

	velocities := make([]float64, len(run.Velocity))
	for i, s := range run.Velocity {
		velocities[i] = s.Velocity
	}
	mean, err := stats.Mean(velocities)
	if err != nil {
		return Summary{}, err
	}
	peak, err := stats.Max(velocities)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Ticks:        len(run.Velocity),
		Duration:     run.Velocity[len(run.Velocity)-1].Elapsed,
		MeanVelocity: mean,
		MaxVelocity:  peak,
	}
	for i := 1; i < len(run.Trajectory); i++ {
		summary.PathLength += run.Trajectory[i].Sub(run.Trajectory[i-1]).Norm()
	}
	if n := len(run.Trajectory); n > 0 {
		summary.Final = run.Trajectory[n-1]
	}

	var positive []float64
	for _, ranges := range run.Laser {
		for _, rng := range ranges {
			if rng > 0 {
				positive = append(positive, rng)
			}
		}
	}
	if len(positive) > 0 {
		if summary.ClosestRange, err = stats.Min(positive); err != nil {
			return Summary{}, err
		}
	}
	return summary, nil
}
