package robot

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
)

// Drivetrain is an opened backend with its two motor groups.
type Drivetrain struct {
	Left  Group
	Right Group

	closers []io.Closer
	stop    func(context.Context) error
}

// Open connects to the backend named in cfg.
func Open(ctx context.Context, cfg *Config) (*Drivetrain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch cfg.Backend {
	case BackendSerial:
		bus, err := OpenSerial(cfg.Port, cfg.Baud())
		if err != nil {
			return nil, err
		}
		return &Drivetrain{
			Left:    bus.Group(cfg.Left.Ports),
			Right:   bus.Group(cfg.Right.Ports),
			closers: []io.Closer{bus},
		}, nil

	case BackendFeetech:
		bus, err := OpenServoBus(cfg.Port, cfg.Baud())
		if err != nil {
			return nil, err
		}
		return NewServoDrivetrain(ctx, bus, cfg)

	default:
		return NewSimDrivetrain(cfg), nil
	}
}

// NewServoDrivetrain puts the servos of both groups in wheel mode. Closing
// the drivetrain stops them, releases torque and closes bus.
func NewServoDrivetrain(ctx context.Context, bus *ServoBus, cfg *Config) (*Drivetrain, error) {
	left := bus.Group(cfg.Left.Ports, cfg.Left.Calibration)
	right := bus.Group(cfg.Right.Ports, cfg.Right.Calibration)
	if err := multierr.Combine(left.WheelMode(ctx), right.WheelMode(ctx)); err != nil {
		bus.Close()
		return nil, fmt.Errorf("wheel mode: %w", err)
	}
	return &Drivetrain{
		Left:    left,
		Right:   right,
		closers: []io.Closer{bus},
		stop: func(ctx context.Context) error {
			return multierr.Combine(left.Disable(ctx), right.Disable(ctx))
		},
	}, nil
}

// NewSimDrivetrain returns a drivetrain backed by SimGroups.
func NewSimDrivetrain(cfg *Config) *Drivetrain {
	return &Drivetrain{
		Left:  NewSimGroup(cfg.Left.Ports),
		Right: NewSimGroup(cfg.Right.Ports),
	}
}

// Group returns one side of the drivetrain.
func (d *Drivetrain) Group(name GroupName) Group {
	if name == Right {
		return d.Right
	}
	return d.Left
}

// Pulse runs one side at command for dur, then stops it. Halfway through
// it reads back motor speeds if the group can report them; otherwise the
// returned map is nil.
func (d *Drivetrain) Pulse(ctx context.Context, name GroupName, command int32, dur time.Duration) (map[int]int32, error) {
	g := d.Group(name)
	if err := g.Move(ctx, command); err != nil {
		return nil, err
	}

	var speeds map[int]int32
	var err error
	if wait(ctx, dur/2) {
		if s, ok := g.(SpeedSensor); ok {
			speeds, err = s.Speeds(ctx)
		}
		wait(ctx, dur-dur/2)
	}
	return speeds, multierr.Append(err, g.Move(context.Background(), 0))
}

// wait sleeps for d and reports whether ctx is still live.
func wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// Close stops both groups and releases the backend.
func (d *Drivetrain) Close() error {
	ctx := context.Background()
	err := multierr.Combine(d.Left.Move(ctx, 0), d.Right.Move(ctx, 0))
	if d.stop != nil {
		err = multierr.Append(err, d.stop(ctx))
	}
	for _, c := range d.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
