// Package config defines the structures to configure the wall following controller and the
// collaborators around it.
package config

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/wallnav/logging"
	"go.viam.com/wallnav/services/navigation/wallfollow"
)

// Config describes a whole run: the controller, how it talks to the robot, where telemetry goes
// and how it logs.
type Config struct {
	Navigation wallfollow.Config `json:"navigation"`
	Transport  TransportConfig   `json:"transport"`
	Telemetry  TelemetryConfig   `json:"telemetry"`
	Log        LogConfig         `json:"log"`

	// ConfigFilePath is the path the config was read from, if any.
	ConfigFilePath string `json:"-"`
}

// TransportConfig describes the UDP endpoints.
type TransportConfig struct {
	// Listen is where sensor datagrams arrive.
	Listen string `json:"listen"`
	// CommandAddr is where velocity commands are sent.
	CommandAddr string `json:"command_addr"`
	// ReadBufferSize bounds the size of one sensor datagram.
	ReadBufferSize int `json:"read_buffer_size,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *TransportConfig) Validate(path string) error {
	if cfg.Listen == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "listen")
	}
	if cfg.CommandAddr == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "command_addr")
	}
	if cfg.ReadBufferSize < 0 {
		return goutils.NewConfigValidationError(path, errors.New("read_buffer_size cannot be negative"))
	}
	return nil
}

// TelemetryConfig describes where per tick records are written.
type TelemetryConfig struct {
	// Dir holds one subdirectory per run. Telemetry is disabled when empty.
	Dir string `json:"dir"`
}

// Enabled reports whether telemetry should be recorded.
func (cfg *TelemetryConfig) Enabled() bool {
	return cfg.Dir != ""
}

// LogConfig describes logging.
type LogConfig struct {
	Level logging.Level `json:"level"`
	// File additionally receives every log line when set. It is rotated once it reaches
	// MaxSizeMB, keeping at most MaxBackups old files (zero keeps them all).
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
}

// Default returns a config with the controller tuning of the charger course, listening on
// localhost.
func Default() *Config {
	return &Config{
		Navigation: wallfollow.DefaultConfig(),
		Transport: TransportConfig{
			Listen:      "127.0.0.1:9870",
			CommandAddr: "127.0.0.1:9871",
		},
		Telemetry: TelemetryConfig{Dir: "telemetry"},
		Log:       LogConfig{Level: logging.INFO},
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate() error {
	if err := cfg.Navigation.Validate("navigation"); err != nil {
		return err
	}
	if err := cfg.Transport.Validate("transport"); err != nil {
		return err
	}
	return cfg.Log.Validate("log")
}
