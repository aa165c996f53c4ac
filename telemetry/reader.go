package telemetry

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// VelocitySample is one line of the velocity file.
type VelocitySample struct {
	Elapsed  time.Duration
	Velocity float64
}

// Run is the content of a run directory.
type Run struct {
	Velocity   []VelocitySample
	Trajectory []r2.Point
	// Laser holds the coarse range summary of every tick.
	Laser    [][]float64
	LaserMap []r2.Point
}

// ReadRun loads every telemetry file in dir.
func ReadRun(dir string) (*Run, error) {
	run := &Run{}

	pairs, err := readPairs(filepath.Join(dir, VelocityFile))
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		run.Velocity = append(run.Velocity, VelocitySample{
			Elapsed:  time.Duration(p.X * float64(time.Second)),
			Velocity: p.Y,
		})
	}

	if run.Trajectory, err = readPairs(filepath.Join(dir, TrajectoryFile)); err != nil {
		return nil, err
	}
	if run.Laser, err = readLaser(filepath.Join(dir, LaserFile)); err != nil {
		return nil, err
	}
	if run.LaserMap, err = readPairs(filepath.Join(dir, LaserMapFile)); err != nil {
		return nil, err
	}
	return run, nil
}

func readLines(path string, parse func(fields []string) error) (err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filepath.Base(path))
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := parse(fields); err != nil {
			return errors.Wrapf(err, "%s:%d", filepath.Base(path), lineNum)
		}
	}
	return scanner.Err()
}

func readPairs(path string) ([]r2.Point, error) {
	var points []r2.Point
	err := readLines(path, func(fields []string) error {
		if len(fields) != 2 {
			return errors.Errorf("expected 2 fields, got %d", len(fields))
		}
		values, err := parseFloats(fields)
		if err != nil {
			return err
		}
		points = append(points, r2.Point{X: values[0], Y: values[1]})
		return nil
	})
	return points, err
}

func readLaser(path string) ([][]float64, error) {
	var ticks [][]float64
	err := readLines(path, func(fields []string) error {
		if len(fields)%2 != 0 {
			return errors.Errorf("expected index range pairs, got %d fields", len(fields))
		}
		values, err := parseFloats(fields)
		if err != nil {
			return err
		}
		ranges := make([]float64, len(values)/2)
		for i := range ranges {
			if idx := int(values[2*i]); idx != i {
				return errors.Errorf("expected index %d, got %d", i, idx)
			}
			ranges[i] = values[2*i+1]
		}
		ticks = append(ticks, ranges)
		return nil
	})
	return ticks, err
}

func parseFloats(fields []string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d", i+1)
		}
		values[i] = v
	}
	return values, nil
}
