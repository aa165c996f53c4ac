package ros

import (
	"context"
	"sort"
	"time"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"

	"go.viam.com/wallnav/components/movementsensor"
	"go.viam.com/wallnav/telemetry"
)

// SensorEvent is one recorded sensor message. Exactly one of Odometry and Ranges is set.
type SensorEvent struct {
	// At is the offset of the message from the first message of the recording.
	At       time.Duration
	Odometry *movementsensor.Odometry
	Ranges   []float64
}

// SensorEvents merges odometry and scan messages into one timeline. Messages recorded at the
// same instant keep odometry first.
func SensorEvents(odoms []OdometryMessage, scans []LaserScanMessage) []SensorEvent {
	type stamped struct {
		at    time.Time
		event SensorEvent
	}
	all := make([]stamped, 0, len(odoms)+len(scans))
	for i := range odoms {
		odom := odoms[i].Odometry()
		all = append(all, stamped{odoms[i].Meta.Time(), SensorEvent{Odometry: &odom}})
	}
	for i := range scans {
		all = append(all, stamped{scans[i].Meta.Time(), SensorEvent{Ranges: scans[i].Ranges()}})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].at.Before(all[j].at)
	})

	events := make([]SensorEvent, len(all))
	for i, s := range all {
		events[i] = s.event
		events[i].At = s.at.Sub(all[0].at)
	}
	return events
}

// ReadSensorEvents loads the odometry and scan topics of a bag as one timeline.
func ReadSensorEvents(rb *rosbag.RosBag, odomTopic, scanTopic string) ([]SensorEvent, error) {
	odoms, err := MessagesForTopic[OdometryMessage](rb, odomTopic)
	if err != nil {
		return nil, err
	}
	scans, err := MessagesForTopic[LaserScanMessage](rb, scanTopic)
	if err != nil {
		return nil, err
	}
	return SensorEvents(odoms, scans), nil
}

// A ReplayTarget consumes sensor messages and control ticks.
type ReplayTarget interface {
	HandleOdometry(odom movementsensor.Odometry)
	HandleScan(ranges []float64) error
	Tick(ctx context.Context, elapsed time.Duration) (telemetry.Record, error)
}

// ReplayStats summarizes a replay.
type ReplayStats struct {
	Ticks      int
	Odometry   int
	Scans      int
	Dropped    int
	TickErrors int
}

// Replay feeds events to target in recorded order, ticking it every period of recording time. A
// tick at time t sees every event recorded strictly before t. One final tick follows the last
// event. Records go to sink, which may be nil.
func Replay(
	ctx context.Context,
	events []SensorEvent,
	period time.Duration,
	target ReplayTarget,
	sink telemetry.Sink,
) (ReplayStats, error) {
	var stats ReplayStats
	if period <= 0 {
		return stats, errors.Errorf("replay period must be positive, got %v", period)
	}
	if sink == nil {
		sink = telemetry.Discard
	}

	var next time.Duration
	tick := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := target.Tick(ctx, next)
		if err != nil {
			stats.TickErrors++
		}
		if err := sink.Record(rec); err != nil {
			return errors.Wrap(err, "failed to record telemetry")
		}
		stats.Ticks++
		next += period
		return nil
	}

	for _, ev := range events {
		for next <= ev.At {
			if err := tick(); err != nil {
				return stats, err
			}
		}
		switch {
		case ev.Odometry != nil:
			target.HandleOdometry(*ev.Odometry)
			stats.Odometry++
		default:
			if err := target.HandleScan(ev.Ranges); err != nil {
				stats.Dropped++
				continue
			}
			stats.Scans++
		}
	}
	return stats, tick()
}
