package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/gwillem/vexdrive/pkg/drive"
)

// DefaultTimeout is how long Lines keeps axes deflected without new input.
const DefaultTimeout = 250 * time.Millisecond

// Lines is a controller fed by a line-oriented text protocol:
//
//	axis <name> <value>
//	press <button>
//	release <button>
//	center
//	wait <ms>
//
// If nothing arrives for Timeout, all axes return to center. A wait holds
// the current state for the given time before the next line is read, so a
// recorded session replays at its original pace.
type Lines struct {
	Timeout time.Duration

	clock  clock.Clock
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	axes    map[drive.Axis]int32
	buttons map[drive.Button]bool
}

// NewLines creates a line protocol source.
func NewLines(clk clock.Clock, logger *zap.SugaredLogger) *Lines {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Lines{
		Timeout: DefaultTimeout,
		clock:   clk,
		logger:  logger,
		axes:    make(map[drive.Axis]int32),
		buttons: make(map[drive.Button]bool),
	}
}

// Analog returns the last value received for axis.
func (l *Lines) Analog(axis drive.Axis) int32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.axes[axis]
}

// Digital reports whether button was last pressed.
func (l *Lines) Digital(button drive.Button) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buttons[button]
}

// Apply parses and applies one protocol line.
func (l *Lines) Apply(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "axis":
		if len(fields) != 3 {
			return fmt.Errorf("axis: want 'axis <name> <value>', got %q", line)
		}
		axis, err := drive.ParseAxis(fields[1])
		if err != nil {
			return err
		}
		v, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return fmt.Errorf("axis %s: %w", axis, err)
		}
		if int32(v) < drive.AxisMin || int32(v) > drive.AxisMax {
			return fmt.Errorf("axis %s: value %d outside [%d, %d]", axis, v, drive.AxisMin, drive.AxisMax)
		}
		l.mu.Lock()
		l.axes[axis] = int32(v)
		l.mu.Unlock()

	case "press", "release":
		if len(fields) != 2 {
			return fmt.Errorf("%s: want '%s <button>', got %q", fields[0], fields[0], line)
		}
		button, err := drive.ParseButton(fields[1])
		if err != nil {
			return err
		}
		l.mu.Lock()
		l.buttons[button] = fields[0] == "press"
		l.mu.Unlock()

	case "center":
		l.center()

	default:
		return fmt.Errorf("unsupported command %q", line)
	}
	return nil
}

func (l *Lines) center() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for a := range l.axes {
		l.axes[a] = 0
	}
}

// Run reads commands from r until ctx is cancelled or r is exhausted.
// Bad lines are logged and skipped.
func (l *Lines) Run(ctx context.Context, r io.Reader) error {
	incoming := make(chan string)
	ioerr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case incoming <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		ioerr <- err
	}()

	for {
		timeout := l.clock.Timer(l.Timeout)

		select {
		case <-ctx.Done():
			timeout.Stop()
			return ctx.Err()

		case line := <-incoming:
			timeout.Stop()
			d, isWait, err := parseWait(line)
			if isWait && err == nil {
				if !l.hold(ctx, d) {
					return ctx.Err()
				}
				continue
			}
			if err == nil {
				err = l.Apply(line)
			}
			if err != nil {
				l.logger.Warnw("ignoring input line", "line", line, "error", err)
			}

		case <-timeout.C:
			l.center()

		case err := <-ioerr:
			timeout.Stop()
			l.center()
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
	}
}

// parseWait reports whether line is a wait command and its duration.
func parseWait(line string) (time.Duration, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "wait" {
		return 0, false, nil
	}
	if len(fields) != 2 {
		return 0, true, fmt.Errorf("wait: want 'wait <ms>', got %q", line)
	}
	ms, err := strconv.ParseUint(fields[1], 10, 31)
	if err != nil {
		return 0, true, fmt.Errorf("wait: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, true, nil
}

// hold sleeps for d on the source clock and reports whether ctx is still live.
func (l *Lines) hold(ctx context.Context, d time.Duration) bool {
	t := l.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

