package robot

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/gwillem/vexdrive/pkg/drive"
)

const DefaultConfigFile = "vexdrive.json"

// Backend names.
const (
	BackendSerial  = "serial"
	BackendFeetech = "feetech"
	BackendSim     = "sim"
)

// Default serial settings.
const (
	DefaultSerialBaudRate  = 115200
	DefaultFeetechBaudRate = 1_000_000
)

// Config holds the drivetrain configuration
type Config struct {
	Backend    string         `json:"backend"`
	Port       string         `json:"port,omitempty"`
	BaudRate   int            `json:"baud_rate,omitempty"`
	IntervalMS int            `json:"interval_ms"`
	Mapping    drive.Mapping  `json:"mapping"`
	Layout     drive.Layout   `json:"layout"`
	Bindings   drive.Bindings `json:"bindings"`
	Left       GroupConfig    `json:"left"`
	Right      GroupConfig    `json:"right"`
}

// GroupConfig holds configuration for one side of the drivetrain
type GroupConfig struct {
	Ports       []Port      `json:"ports"`
	Calibration Calibration `json:"calibration,omitempty"`
}

// DefaultConfig returns the stock robot: four motors per side, arcade
// controls, A for tank and B for arcade.
func DefaultConfig() *Config {
	return &Config{
		Backend:    BackendSim,
		IntervalMS: 15,
		Mapping:    drive.Arcade,
		Layout:     drive.DefaultLayout(),
		Bindings:   drive.DefaultBindings(),
		Left:       GroupConfig{Ports: append([]Port(nil), DefaultLeftPorts...)},
		Right:      GroupConfig{Ports: append([]Port(nil), DefaultRightPorts...)},
	}
}

// Interval returns the control loop period
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Group returns the configuration of one side
func (c *Config) Group(name GroupName) GroupConfig {
	if name == Right {
		return c.Right
	}
	return c.Left
}

// Baud returns the configured baud rate or the backend default
func (c *Config) Baud() int {
	if c.BaudRate > 0 {
		return c.BaudRate
	}
	if c.Backend == BackendFeetech {
		return DefaultFeetechBaudRate
	}
	return DefaultSerialBaudRate
}

// Validate checks the configuration for mistakes that would only show up
// once the robot is moving.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSerial, BackendFeetech:
		if c.Port == "" {
			return errors.Errorf("backend %q needs a port", c.Backend)
		}
	case BackendSim:
	default:
		return errors.Errorf("unknown backend %q", c.Backend)
	}

	if c.IntervalMS <= 0 {
		return errors.Errorf("interval_ms must be positive, got %d", c.IntervalMS)
	}

	if _, err := c.Mapping.MarshalText(); err != nil {
		return errors.Wrap(err, "mapping")
	}

	for _, a := range []drive.Axis{c.Layout.Forward, c.Layout.Turn, c.Layout.Left, c.Layout.Right, c.Layout.RightHorizontal} {
		if _, err := drive.ParseAxis(string(a)); err != nil {
			return errors.Wrap(err, "layout")
		}
	}

	for i, b := range c.Bindings {
		if _, err := drive.ParseButton(string(b.Button)); err != nil {
			return errors.Wrapf(err, "binding %d", i)
		}
	}

	seen := make(map[int]GroupName)
	for _, name := range AllGroups() {
		group := c.Group(name)
		if len(group.Ports) == 0 {
			return errors.Errorf("%s group has no motors", name)
		}
		for _, p := range group.Ports {
			if p == 0 {
				return errors.Errorf("%s group: port 0 is not a motor port", name)
			}
			if other, ok := seen[p.Number()]; ok {
				return errors.Errorf("port %d is used by both %s and %s", p.Number(), other, name)
			}
			seen[p.Number()] = name
		}
		for _, sc := range group.Calibration {
			if sc.MaxSpeed < 0 || sc.MaxSpeed > ServoSpeedLimit {
				return errors.Errorf("%s group: servo %d max_speed %d outside [0, %d]", name, sc.ID, sc.MaxSpeed, ServoSpeedLimit)
			}
		}
	}
	return nil
}

// LoadConfigFrom loads configuration from a specific file. Fields missing
// from the file keep their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
