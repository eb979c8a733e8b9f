// Package robot provides the drivetrain hardware: motor groups, configuration and backends.
package robot

import (
	"context"
	"fmt"
)

// Port is a motor port number. A negative port drives its motor reversed.
type Port int

// Number returns the physical port number.
func (p Port) Number() int {
	if p < 0 {
		return int(-p)
	}
	return int(p)
}

// Reversed reports whether the motor on this port spins backwards.
func (p Port) Reversed() bool {
	return p < 0
}

// Apply returns the command as seen by the motor on this port.
func (p Port) Apply(command int32) int32 {
	if p.Reversed() {
		return -command
	}
	return command
}

func (p Port) String() string {
	if p.Reversed() {
		return fmt.Sprintf("%d (reversed)", p.Number())
	}
	return fmt.Sprintf("%d", p.Number())
}

// GroupName identifies a side of the drivetrain.
type GroupName string

// Drivetrain sides.
const (
	Left  GroupName = "left"
	Right GroupName = "right"
)

// AllGroups returns both sides in order.
func AllGroups() []GroupName {
	return []GroupName{Left, Right}
}

// Ports of the default drivetrain, front wheel first.
var (
	DefaultLeftPorts  = []Port{16, 15, 14, 13}
	DefaultRightPorts = []Port{-17, -18, -19, -20}
)

// Group is a set of motors driven with one shared command.
type Group interface {
	Move(ctx context.Context, command int32) error
}

// SpeedSensor is a group that can report how fast its motors turn. Speeds
// are in command units with port reversal undone, keyed by motor number.
type SpeedSensor interface {
	Speeds(ctx context.Context) (map[int]int32, error)
}
