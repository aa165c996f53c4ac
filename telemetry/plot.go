package telemetry

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Names of the images Plot writes.
const (
	TrajectoryPlot = "trajectory.png"
	VelocityPlot   = "velocity.png"
	LaserPlot      = "laser.png"
	LaserMapPlot   = "laser_map.png"
)

var (
	plotColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	plotWidth = 8 * vg.Inch
)

// Plot renders the trajectory, velocity over time, coarse laser readings and projected laser map
// of run into outDir. It returns the paths written.
func Plot(run *Run, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create plot directory")
	}

	velocity := make(plotter.XYs, len(run.Velocity))
	for i, s := range run.Velocity {
		velocity[i] = plotter.XY{X: s.Elapsed.Seconds(), Y: s.Velocity}
	}
	trajectory := make(plotter.XYs, len(run.Trajectory))
	for i, p := range run.Trajectory {
		trajectory[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	var laser plotter.XYs
	for _, ranges := range run.Laser {
		for i, rng := range ranges {
			laser = append(laser, plotter.XY{X: float64(i), Y: rng})
		}
	}
	laserMap := make(plotter.XYs, len(run.LaserMap))
	for i, p := range run.LaserMap {
		laserMap[i] = plotter.XY{X: p.X, Y: p.Y}
	}

	charts := []struct {
		file, title, xLabel, yLabel string
		data                        plotter.XYs
		line                        bool
	}{
		{TrajectoryPlot, "Odometry Trajectory", "Position X", "Position Y", trajectory, true},
		{VelocityPlot, "Velocity over Time", "Time (s)", "Velocity (m/s)", velocity, true},
		{LaserPlot, "Laser Scan Data", "Index", "Range (m)", laser, false},
		{LaserMapPlot, "Transformed Laser Map Data", "Global X", "Global Y", laserMap, false},
	}

	written := make([]string, 0, len(charts))
	for _, c := range charts {
		p := plot.New()
		p.Title.Text = c.title
		p.X.Label.Text = c.xLabel
		p.Y.Label.Text = c.yLabel
		p.Add(plotter.NewGrid())

		if len(c.data) > 0 {
			if c.line {
				line, points, err := plotter.NewLinePoints(c.data)
				if err != nil {
					return written, errors.Wrapf(err, "plot %s", c.file)
				}
				line.Color = plotColor
				line.Width = vg.Points(1)
				points.Color = plotColor
				points.Radius = vg.Points(1.5)
				p.Add(line, points)
				p.Legend.Add(c.title, line, points)
			} else {
				scatter, err := plotter.NewScatter(c.data)
				if err != nil {
					return written, errors.Wrapf(err, "plot %s", c.file)
				}
				scatter.Color = plotColor
				scatter.Radius = vg.Points(1.5)
				p.Add(scatter)
				p.Legend.Add(c.title, scatter)
			}
		}
		p.Legend.Top = true

		path := filepath.Join(outDir, c.file)
		if err := p.Save(plotWidth, 6*vg.Inch, path); err != nil {
			return written, errors.Wrapf(err, "save %s", c.file)
		}
		written = append(written, path)
	}
	return written, nil
}
