// Package drive maps controller readings to drivetrain commands.
package drive

import "fmt"

// Axis identifies an analog stick axis on the controller.
type Axis string

// Controller axes.
const (
	LeftX  Axis = "left_x"
	LeftY  Axis = "left_y"
	RightX Axis = "right_x"
	RightY Axis = "right_y"
)

// Bounds of an analog axis reading.
const (
	AxisMin int32 = -127
	AxisMax int32 = 127
)

// AllAxes returns all axes in a stable order.
func AllAxes() []Axis {
	return []Axis{LeftX, LeftY, RightX, RightY}
}

// ParseAxis returns the axis with the given name.
func ParseAxis(name string) (Axis, error) {
	for _, a := range AllAxes() {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown axis %q", name)
}

// Button identifies a digital button on the controller.
type Button string

// Controller buttons.
const (
	ButtonA     Button = "a"
	ButtonB     Button = "b"
	ButtonX     Button = "x"
	ButtonY     Button = "y"
	ButtonL1    Button = "l1"
	ButtonL2    Button = "l2"
	ButtonR1    Button = "r1"
	ButtonR2    Button = "r2"
	ButtonUp    Button = "up"
	ButtonDown  Button = "down"
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// AllButtons returns all buttons in a stable order.
func AllButtons() []Button {
	return []Button{
		ButtonA, ButtonB, ButtonX, ButtonY,
		ButtonL1, ButtonL2, ButtonR1, ButtonR2,
		ButtonUp, ButtonDown, ButtonLeft, ButtonRight,
	}
}

// ParseButton returns the button with the given name.
func ParseButton(name string) (Button, error) {
	for _, b := range AllButtons() {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown button %q", name)
}

// Source is anything that can be sampled for controller readings.
// Reads never fail; a disconnected controller reports centered axes.
type Source interface {
	Analog(Axis) int32
	Digital(Button) bool
}

// ControllerState is a snapshot of every axis, taken once per tick.
type ControllerState map[Axis]int32

// Sample reads all axes from src.
func Sample(src Source) ControllerState {
	s := make(ControllerState, len(AllAxes()))
	for _, a := range AllAxes() {
		s[a] = src.Analog(a)
	}
	return s
}
