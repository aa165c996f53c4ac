package lidar

import (
	"fmt"

	"github.com/pkg/errors"
)

// Defaults for a 720 sample sweep, the resolution of the scanner the controller was tuned on.
const (
	DefaultSamples      = 720
	DefaultCoarseStride = 10
	DefaultCoarseCount  = 36
)

// Layout describes how a sweep is sampled: how many readings make up a full revolution and
// which readings form the coarse summary.
type Layout struct {
	Samples      int `json:"samples"`
	CoarseStride int `json:"coarse_stride"`
	CoarseCount  int `json:"coarse_count"`
}

// NewDefaultLayout returns the layout for a 720 sample sweep.
func NewDefaultLayout() Layout {
	return Layout{Samples: DefaultSamples, CoarseStride: DefaultCoarseStride, CoarseCount: DefaultCoarseCount}
}

// Validate ensures the layout can index at least one reading per named bearing.
func (l Layout) Validate() error {
	if l.Samples < NumBearings {
		return errors.Errorf("samples must be at least %d, got %d", NumBearings, l.Samples)
	}
	if l.CoarseStride <= 0 {
		return errors.Errorf("coarse_stride must be positive, got %d", l.CoarseStride)
	}
	if l.CoarseCount <= 0 {
		return errors.Errorf("coarse_count must be positive, got %d", l.CoarseCount)
	}
	return nil
}

// Index returns the sweep index sampled for bearing b. The first reading is the front; every
// other bearing takes the last reading of the preceding eighth of the sweep, which for 720
// samples gives 89, 179, 269, 359, 449, 539 and 629.
func (l Layout) Index(b Bearing) int {
	if b == Front {
		return 0
	}
	return int(b)*l.Samples/NumBearings - 1
}

// MinSamples is the shortest sweep Preprocess accepts.
func (l Layout) MinSamples() int {
	need := l.Index(MidRight) + 1
	if coarse := (l.CoarseCount-1)*l.CoarseStride + 1; coarse > need {
		need = coarse
	}
	return need
}

// ShortSweepError is returned for a sweep too short to index every named bearing.
type ShortSweepError struct {
	Got  int
	Need int
}

func (e *ShortSweepError) Error() string {
	return fmt.Sprintf("sweep has %d readings, need at least %d", e.Got, e.Need)
}

// Scan is a preprocessed sweep.
type Scan struct {
	Ranges [NumBearings]float64
	Coarse []float64
}

// Range returns the reading for bearing b.
func (s *Scan) Range(b Bearing) float64 {
	return s.Ranges[b]
}

// Preprocess picks the named bearings and the coarse summary out of a full sweep. It returns a
// *ShortSweepError rather than reading out of range.
func (l Layout) Preprocess(ranges []float64) (Scan, error) {
	if need := l.MinSamples(); len(ranges) < need {
		return Scan{}, &ShortSweepError{Got: len(ranges), Need: need}
	}

	var scan Scan
	for _, b := range Bearings {
		scan.Ranges[b] = ranges[l.Index(b)]
	}
	scan.Coarse = make([]float64, l.CoarseCount)
	for i := range scan.Coarse {
		scan.Coarse[i] = ranges[i*l.CoarseStride]
	}
	return scan, nil
}
