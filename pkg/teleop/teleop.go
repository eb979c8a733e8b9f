// Package teleop provides the operator control loop for a two-sided drivetrain.
package teleop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/gwillem/vexdrive/pkg/drive"
)

// DefaultInterval is the pause between ticks.
const DefaultInterval = 15 * time.Millisecond

// Input is the controller the loop reads from.
type Input = drive.Source

// Actuator is a motor group that accepts a signed velocity command.
type Actuator interface {
	Move(ctx context.Context, command int32) error
}

// State is published after every tick.
type State struct {
	Command   drive.Command
	Mapping   drive.Mapping
	Axes      drive.ControllerState
	Timestamp time.Time
}

// Config holds configuration for the controller.
type Config struct {
	Interval time.Duration
	Mapping  drive.Mapping // active until a binding selects another
	Layout   drive.Layout
	Bindings drive.Bindings
	Clock    clock.Clock
	Logger   *zap.SugaredLogger
}

// Controller manages the teleoperation control loop.
type Controller struct {
	input    Input
	left     Actuator
	right    Actuator
	interval time.Duration
	layout   drive.Layout
	bindings drive.Bindings
	clock    clock.Clock
	logger   *zap.SugaredLogger

	mu      sync.RWMutex
	active  drive.Mapping
	running bool
	stateCh chan State
	logCh   chan string
}

// New creates a controller driving left and right from in.
// Zero config fields fall back to the defaults.
func New(in Input, left, right Actuator, cfg Config) *Controller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Layout == (drive.Layout{}) {
		cfg.Layout = drive.DefaultLayout()
	}
	if cfg.Bindings == nil {
		cfg.Bindings = drive.DefaultBindings()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	return &Controller{
		input:    in,
		left:     left,
		right:    right,
		interval: cfg.Interval,
		layout:   cfg.Layout,
		bindings: cfg.Bindings,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		active:   cfg.Mapping,
		stateCh:  make(chan State, 1),
		logCh:    make(chan string, 10),
	}
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Interval returns the tick period.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Active returns the mapping used for the next tick.
func (c *Controller) Active() drive.Mapping {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", c.clock.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the control loop until ctx is cancelled. The first tick runs
// immediately; the loop has no exit condition of its own.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.logger.Infow("teleop started", "interval", c.interval, "mapping", c.Active())
	c.log("Teleop started with %s controls (%s)", c.Active(), c.interval)

	ticker := c.clock.Ticker(c.interval)
	defer ticker.Stop()

	for {
		c.step(ctx)

		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Controller) step(ctx context.Context) {
	c.mu.RLock()
	active := c.active
	c.mu.RUnlock()

	axes := drive.Sample(c.input)
	cmd := active.Apply(axes, c.layout)

	if err := c.left.Move(ctx, cmd.Left); err != nil {
		c.logger.Errorw("move left group", "command", cmd.Left, "error", err)
		c.log("Left write error: %v", err)
	}
	if err := c.right.Move(ctx, cmd.Right); err != nil {
		c.logger.Errorw("move right group", "command", cmd.Right, "error", err)
		c.log("Right write error: %v", err)
	}

	// A new selection applies from the next tick on.
	next := c.bindings.Select(active, c.input.Digital)
	if next != active {
		c.mu.Lock()
		c.active = next
		c.mu.Unlock()
		c.logger.Infow("control mapping changed", "from", active, "to", next)
		c.log("Switched to %s controls", next)
	}

	c.sendState(State{
		Command:   cmd,
		Mapping:   active,
		Axes:      axes,
		Timestamp: c.clock.Now(),
	})
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		select {
		case c.stateCh <- s:
		default:
		}
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	ctx := context.Background()
	if err := c.left.Move(ctx, 0); err != nil {
		c.logger.Warnw("stop left group", "error", err)
	}
	if err := c.right.Move(ctx, 0); err != nil {
		c.logger.Warnw("stop right group", "error", err)
	}
	c.logger.Infow("teleop stopped")
	c.log("Teleop stopped")
}
