package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/wallnav/logging"
)

func testRecord(i int) Record {
	coarse := make([]float64, 36)
	for j := range coarse {
		coarse[j] = float64(i) + float64(j)/100
	}
	return Record{
		Elapsed:   time.Duration(i) * 50 * time.Millisecond,
		Velocity:  0.5,
		Position:  r2.Point{X: 0.3, Y: 0.3 + float64(i)*0.025},
		Coarse:    coarse,
		MapPoints: []r2.Point{{X: 1, Y: 2}, {X: 0, Y: 2.5}, {X: 0.25, Y: 0}, {X: 1.5, Y: 1.5}, {X: 2.5, Y: 0.75}},
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	logger := logging.NewTestLogger(t)
	rec, err := NewRecorder(t.TempDir(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rec.RunID(), test.ShouldNotBeEmpty)
	test.That(t, filepath.Base(rec.Dir()), test.ShouldEqual, rec.RunID())

	for i := 0; i < 3; i++ {
		test.That(t, rec.Record(testRecord(i)), test.ShouldBeNil)
	}
	test.That(t, rec.Records(), test.ShouldEqual, 3)
	test.That(t, rec.Close(), test.ShouldBeNil)
	test.That(t, rec.Close(), test.ShouldBeNil)
	test.That(t, rec.Record(testRecord(3)), test.ShouldBeError, "recorder is closed")

	//nolint:gosec
	raw, err := os.ReadFile(filepath.Join(rec.Dir(), VelocityFile))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(raw), test.ShouldEqual, "0 0.5\n0.05 0.5\n0.1 0.5\n")

	//nolint:gosec
	raw, err = os.ReadFile(filepath.Join(rec.Dir(), LaserFile))
	test.That(t, err, test.ShouldBeNil)
	first := strings.SplitN(string(raw), "\n", 2)[0]
	test.That(t, strings.HasPrefix(first, "0 0 1 0.01 2 0.02 "), test.ShouldBeTrue)
	test.That(t, len(strings.Fields(first)), test.ShouldEqual, 72)

	run, err := ReadRun(rec.Dir())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, run.Velocity, test.ShouldHaveLength, 3)
	test.That(t, run.Velocity[2].Elapsed.Seconds(), test.ShouldAlmostEqual, 0.1)
	test.That(t, run.Trajectory, test.ShouldHaveLength, 3)
	test.That(t, run.Trajectory[2].Y, test.ShouldAlmostEqual, 0.35)
	test.That(t, run.Laser, test.ShouldHaveLength, 3)
	test.That(t, run.Laser[1], test.ShouldResemble, testRecord(1).Coarse)
	test.That(t, run.LaserMap, test.ShouldHaveLength, 15)
	test.That(t, run.LaserMap[:5], test.ShouldResemble, testRecord(0).MapPoints)
}

func TestReadRunMalformed(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		test.That(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600), test.ShouldBeNil)
	}
	write(VelocityFile, "0 0.1\n")
	write(TrajectoryFile, "0.3 0.3\n0.3\n")
	write(LaserFile, "")
	write(LaserMapFile, "")

	_, err := ReadRun(dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, TrajectoryFile+":2")

	write(TrajectoryFile, "0.3 0.3\n")
	write(LaserFile, "0 1.0 2 1.0\n")
	_, err = ReadRun(dir)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected index 1, got 2")

	_, err = ReadRun(filepath.Join(dir, "missing"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlot(t *testing.T) {
	logger := logging.NewTestLogger(t)
	rec, err := NewRecorder(t.TempDir(), logger)
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 10; i++ {
		test.That(t, rec.Record(testRecord(i)), test.ShouldBeNil)
	}
	test.That(t, rec.Close(), test.ShouldBeNil)

	run, err := ReadRun(rec.Dir())
	test.That(t, err, test.ShouldBeNil)

	out := filepath.Join(t.TempDir(), "plots")
	written, err := Plot(run, out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, written, test.ShouldHaveLength, 4)
	for _, path := range written {
		info, err := os.Stat(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
	}

	// an empty run still renders empty axes
	written, err = Plot(&Run{}, filepath.Join(t.TempDir(), "empty"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, written, test.ShouldHaveLength, 4)
}

func TestSummarize(t *testing.T) {
	run := &Run{}
	for i := 0; i < 3; i++ {
		r := testRecord(i)
		run.Velocity = append(run.Velocity, VelocitySample{Elapsed: r.Elapsed, Velocity: r.Velocity + float64(i)*0.1})
		run.Trajectory = append(run.Trajectory, r.Position)
		run.Laser = append(run.Laser, r.Coarse)
	}

	summary, err := Summarize(run)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, summary.Ticks, test.ShouldEqual, 3)
	test.That(t, summary.Duration, test.ShouldEqual, 100*time.Millisecond)
	test.That(t, summary.MeanVelocity, test.ShouldAlmostEqual, 0.6)
	test.That(t, summary.MaxVelocity, test.ShouldAlmostEqual, 0.7)
	test.That(t, summary.PathLength, test.ShouldAlmostEqual, 0.05)
	test.That(t, summary.Final.Y, test.ShouldAlmostEqual, 0.35)
	// the zero front reading of the first tick is ignored
	test.That(t, summary.ClosestRange, test.ShouldAlmostEqual, 0.01)

	_, err = Summarize(&Run{})
	test.That(t, err, test.ShouldBeError, "run has no ticks")
}
