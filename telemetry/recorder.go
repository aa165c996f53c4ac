package telemetry

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/wallnav/logging"
)

type telemetryFile struct {
	f *os.File
	w *bufio.Writer
}

// Recorder writes records into a fresh run directory.
type Recorder struct {
	runID  string
	dir    string
	logger logging.Logger

	mu       sync.Mutex
	vel      telemetryFile
	traj     telemetryFile
	laser    telemetryFile
	laserMap telemetryFile
	records  int
	closed   bool
}

// NewRecorder creates root/<run id> and opens the four telemetry files inside it.
func NewRecorder(root string, logger logging.Logger) (*Recorder, error) {
	runID := uuid.NewString()
	dir := filepath.Join(root, runID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create telemetry directory")
	}

	r := &Recorder{runID: runID, dir: dir, logger: logger}
	for name, tf := range map[string]*telemetryFile{
		VelocityFile:   &r.vel,
		TrajectoryFile: &r.traj,
		LaserFile:      &r.laser,
		LaserMapFile:   &r.laserMap,
	} {
		//nolint:gosec
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, multierr.Combine(errors.Wrapf(err, "failed to open %s", name), r.closeFiles())
		}
		*tf = telemetryFile{f: f, w: bufio.NewWriter(f)}
	}
	logger.Infow("recording telemetry", "run_id", runID, "dir", dir)
	return r, nil
}

// RunID returns the identifier of the run directory.
func (r *Recorder) RunID() string {
	return r.runID
}

// Dir returns the run directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// Record appends one tick to every file and flushes them, so a killed run keeps all completed ticks.
func (r *Recorder) Record(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("recorder is closed")
	}

	var buf []byte
	buf = appendPair(buf[:0], rec.Elapsed.Seconds(), rec.Velocity)
	_, errVel := r.vel.w.Write(buf)

	buf = appendPair(buf[:0], rec.Position.X, rec.Position.Y)
	_, errTraj := r.traj.w.Write(buf)

	buf = buf[:0]
	for i, rng := range rec.Coarse {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(i), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, rng, 'g', -1, 64)
	}
	buf = append(buf, '\n')
	_, errLaser := r.laser.w.Write(buf)

	buf = buf[:0]
	for _, p := range rec.MapPoints {
		buf = appendPair(buf, p.X, p.Y)
	}
	_, errMap := r.laserMap.w.Write(buf)

	r.records++
	return multierr.Combine(errVel, errTraj, errLaser, errMap, r.flush())
}

// Records returns the number of records written.
func (r *Recorder) Records() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records
}

// Close flushes and closes every file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := multierr.Combine(r.flush(), r.closeFiles())
	r.logger.Infow("closed telemetry", "run_id", r.runID, "records", r.records)
	return err
}

func (r *Recorder) files() []telemetryFile {
	return []telemetryFile{r.vel, r.traj, r.laser, r.laserMap}
}

func (r *Recorder) flush() error {
	var err error
	for _, tf := range r.files() {
		if tf.w != nil {
			err = multierr.Append(err, tf.w.Flush())
		}
	}
	return err
}

func (r *Recorder) closeFiles() error {
	var err error
	for _, tf := range r.files() {
		if tf.f != nil {
			err = multierr.Append(err, tf.f.Close())
		}
	}
	return err
}

func appendPair(buf []byte, a, b float64) []byte {
	buf = strconv.AppendFloat(buf, a, 'g', -1, 64)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, b, 'g', -1, 64)
	return append(buf, '\n')
}
