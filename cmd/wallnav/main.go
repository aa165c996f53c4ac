// Package main runs the wall following controller against a robot reachable over UDP, and plots
// the telemetry of past runs.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/wallnav/config"
	"go.viam.com/wallnav/logging"
	"go.viam.com/wallnav/services/navigation/wallfollow"
	"go.viam.com/wallnav/telemetry"
	"go.viam.com/wallnav/transport/udp"
	"go.viam.com/wallnav/utils"
)

const (
	flagConfig       = "config"
	flagHz           = "hz"
	flagListen       = "listen"
	flagCommandAddr  = "command-addr"
	flagTelemetryDir = "telemetry-dir"
	flagDebug        = "debug"
	flagOut          = "out"
	flagStatusPeriod = "status-period"
	flagOdomTopic    = "odom-topic"
	flagScanTopic    = "scan-topic"
)

func main() {
	app := &cli.App{
		Name:  "wallnav",
		Usage: "drive a robot through a staged wall following program",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the controller until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagConfig,
						Aliases: []string{"c"},
						Usage:   "load configuration from `FILE`",
					},
					&cli.Float64Flag{
						Name:  flagHz,
						Usage: "control tick rate",
					},
					&cli.StringFlag{
						Name:  flagListen,
						Usage: "`ADDR` to receive sensor datagrams on",
					},
					&cli.StringFlag{
						Name:  flagCommandAddr,
						Usage: "`ADDR` to send velocity commands to",
					},
					&cli.StringFlag{
						Name:  flagTelemetryDir,
						Usage: "write telemetry runs under `DIR`; empty disables telemetry",
					},
					&cli.DurationFlag{
						Name:  flagStatusPeriod,
						Value: 5 * time.Second,
						Usage: "how often to log controller status",
					},
					&cli.BoolFlag{
						Name:    flagDebug,
						Aliases: []string{"vvv"},
						Usage:   "enable debug logging",
					},
				},
				Action: runAction,
			},
			{
				Name:      "replay",
				Usage:     "run the controller offline against the odometry and scans recorded in a ROS bag",
				ArgsUsage: "<bag file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagConfig,
						Aliases: []string{"c"},
						Usage:   "load configuration from `FILE`",
					},
					&cli.Float64Flag{
						Name:  flagHz,
						Usage: "control tick rate, in recording time",
					},
					&cli.StringFlag{
						Name:  flagTelemetryDir,
						Usage: "write the replayed run under `DIR`; empty disables telemetry",
					},
					&cli.StringFlag{
						Name:  flagOdomTopic,
						Value: "/odom",
						Usage: "odometry `TOPIC`",
					},
					&cli.StringFlag{
						Name:  flagScanTopic,
						Value: "/scan",
						Usage: "laser scan `TOPIC`",
					},
					&cli.BoolFlag{
						Name:    flagDebug,
						Aliases: []string{"vvv"},
						Usage:   "enable debug logging",
					},
				},
				Action: replayAction,
			},
			{
				Name:      "plot",
				Usage:     "render the telemetry of a run as images",
				ArgsUsage: "<run directory>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagOut,
						Usage: "write images to `DIR` instead of the run directory",
					},
				},
				Action: plotAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet(flagHz) {
		cfg.Navigation.Hz = c.Float64(flagHz)
	}
	if c.IsSet(flagListen) {
		cfg.Transport.Listen = c.String(flagListen)
	}
	if c.IsSet(flagCommandAddr) {
		cfg.Transport.CommandAddr = c.String(flagCommandAddr)
	}
	if c.IsSet(flagTelemetryDir) {
		cfg.Telemetry.Dir = c.String(flagTelemetryDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAction(c *cli.Context) (err error) {
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

	sender, err := udp.NewCommandSender(cfg.Transport.CommandAddr, logger.Sublogger("udp"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, sender.Close())
	}()

	ctrl, err := wallfollow.NewController(cfg.Navigation, sender, logger.Sublogger("controller"))
	if err != nil {
		return err
	}

	listener, err := udp.NewListener(cfg.Transport.Listen, cfg.Transport.ReadBufferSize, ctrl, logger.Sublogger("udp"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, listener.Close())
	}()

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

	loop, err := wallfollow.NewLoop(ctrl, cfg.Navigation.Hz, clock.New(), sink, logger.Sublogger("loop"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers := utils.NewStoppableWorkersWithContext(ctx, func(ctx context.Context) {
		reportStatus(ctx, c.Duration(flagStatusPeriod), ctrl, loop, listener, logger)
	})
	defer workers.Stop()

	if runErr := loop.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// leave the robot stationary on the way out
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return errors.Wrap(ctrl.Stop(stopCtx), "failed to stop base")
}

func reportStatus(
	ctx context.Context,
	period time.Duration,
	ctrl *wallfollow.Controller,
	loop *wallfollow.Loop,
	listener *udp.Listener,
	logger logging.Logger,
) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		snap := ctrl.Snapshot()
		stats := listener.Stats()
		logger.Infow("status",
			"stage", ctrl.Stage().String(),
			"pose", snap.Pose.String(),
			"heading_deg", utils.RadToDeg(snap.Pose.Heading),
			"ticks", loop.Ticks(),
			"tick_errors", loop.TickErrors(),
			"odometry", stats.Odometry,
			"scans", stats.Scans,
			"dropped", stats.Dropped,
			"short_sweeps", ctrl.ShortSweeps(),
		)
	}
}

func plotAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("plot takes exactly one run directory")
	}
	dir := c.Args().First()
	out := c.String(flagOut)
	if out == "" {
		out = dir
	}

	run, err := telemetry.ReadRun(dir)
	if err != nil {
		return err
	}
	written, err := telemetry.Plot(run, out)
	if err != nil {
		return err
	}
	logger := logging.NewLogger("wallnav")
	for _, path := range written {
		logger.Infow("wrote plot", "path", path)
	}
	if summary, err := telemetry.Summarize(run); err == nil {
		logger.Infow("run summary",
			"ticks", summary.Ticks,
			"duration", summary.Duration,
			"mean_velocity", summary.MeanVelocity,
			"max_velocity", summary.MaxVelocity,
			"path_length", summary.PathLength,
			"final", summary.Final.String(),
			"closest_range", summary.ClosestRange,
		)
	}
	return nil
}
