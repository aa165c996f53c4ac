package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/wallnav/components/base/fake"
	"go.viam.com/wallnav/ros"
	"go.viam.com/wallnav/services/navigation/wallfollow"
	"go.viam.com/wallnav/telemetry"
)

func replayAction(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return errors.New("replay takes exactly one bag file")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, closeLog, err := cfg.Log.NewLogger("wallnav", c.Bool(flagDebug))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, closeLog())
	}()

	rb, err := ros.ReadBag(c.Args().First())
	if err != nil {
		return err
	}
	events, err := ros.ReadSensorEvents(rb, c.String(flagOdomTopic), c.String(flagScanTopic))
	if err != nil {
		return err
	}

	b := fake.NewBase()
	ctrl, err := wallfollow.NewController(cfg.Navigation, b, logger.Sublogger("controller"))
	if err != nil {
		return err
	}

	sink := telemetry.Discard
	if cfg.Telemetry.Enabled() {
		var recorder *telemetry.Recorder
		recorder, err = telemetry.NewRecorder(cfg.Telemetry.Dir, logger.Sublogger("telemetry"))
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Combine(err, recorder.Close())
		}()
		sink = recorder
	}

	period := time.Duration(float64(time.Second) / cfg.Navigation.Hz)
	stats, err := ros.Replay(c.Context, events, period, ctrl, sink)
	if err != nil {
		return err
	}
	last, _ := b.Last()
	logger.Infow("replay finished",
		"events", len(events),
		"ticks", stats.Ticks,
		"odometry", stats.Odometry,
		"scans", stats.Scans,
		"dropped", stats.Dropped,
		"stage", ctrl.Stage().String(),
		"commands", len(b.Commands()),
		"last_command", last.String(),
	)
	return nil
}
