package robot

import (
	"math"

	"github.com/gwillem/vexdrive/pkg/drive"
)

// Wheel mode speed limits of an STS servo, in steps per second. Goal
// velocity is a 15 bit magnitude with a sign bit.
const (
	DefaultServoSpeed = 2400
	ServoSpeedLimit   = 1<<15 - 1
)

// ServoCalibration holds the speed a full stick deflection maps to on one
// servo. A zero MaxSpeed means DefaultServoSpeed.
type ServoCalibration struct {
	ID       int `json:"id"`
	MaxSpeed int `json:"max_speed"`
}

// DefaultServoCalibration maps full deflection to DefaultServoSpeed.
func DefaultServoCalibration(id int) ServoCalibration {
	return ServoCalibration{ID: id, MaxSpeed: DefaultServoSpeed}
}

func (c ServoCalibration) maxSpeed() int {
	if c.MaxSpeed <= 0 {
		return DefaultServoSpeed
	}
	return c.MaxSpeed
}

// Normalize converts a measured servo velocity to a command in the axis
// range.
func (c ServoCalibration) Normalize(raw int) int32 {
	v := float64(raw) / float64(c.maxSpeed()) * float64(drive.AxisMax)
	return clampAxis(int32(math.Round(v)))
}

// Denormalize converts a command to a goal velocity. Commands outside the
// axis range saturate at MaxSpeed; zero is always a stop.
func (c ServoCalibration) Denormalize(command int32) int {
	command = clampAxis(command)
	return int(math.Round(float64(command) / float64(drive.AxisMax) * float64(c.maxSpeed())))
}

func clampAxis(v int32) int32 {
	if v > drive.AxisMax {
		return drive.AxisMax
	}
	if v < drive.AxisMin {
		return drive.AxisMin
	}
	return v
}

// Calibration holds calibration data for the servos of a group.
type Calibration []ServoCalibration

// ByID returns the calibration for a servo, or the default if it has none.
func (c Calibration) ByID(id int) ServoCalibration {
	for _, sc := range c {
		if sc.ID == id {
			return sc
		}
	}
	return DefaultServoCalibration(id)
}
