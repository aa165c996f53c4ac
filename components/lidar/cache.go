package lidar

import (
	"sync"
)

// RangeCache holds the most recent preprocessed scan. Updates replace the whole scan under the
// lock, so readers never see a mix of two sweeps. Before the first sweep every reading is zero.
type RangeCache struct {
	layout Layout

	mu   sync.RWMutex
	scan Scan
	seq  uint64
}

// NewRangeCache returns an empty cache for sweeps with the given layout.
func NewRangeCache(layout Layout) *RangeCache {
	return &RangeCache{
		layout: layout,
		scan:   Scan{Coarse: make([]float64, layout.CoarseCount)},
	}
}

// Layout returns the sweep layout the cache was built for.
func (c *RangeCache) Layout() Layout {
	return c.layout
}

// Update preprocesses a full sweep and replaces the cached scan. A short sweep leaves the cache
// untouched and returns a *ShortSweepError.
func (c *RangeCache) Update(ranges []float64) error {
	scan, err := c.layout.Preprocess(ranges)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scan = scan
	c.seq++
	return nil
}

// Snapshot returns a copy of the cached scan and the number of sweeps applied so far.
func (c *RangeCache) Snapshot() (Scan, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.scan
	out.Coarse = append([]float64(nil), c.scan.Coarse...)
	return out, c.seq
}
