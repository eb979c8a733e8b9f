// Package vexdrive drives a two-sided robot drivetrain from a game
// controller.
//
// A control loop samples the controller every 15ms, turns the stick
// readings into one command per side using the active mapping (arcade or
// tank), and sends those commands to the left and right motor groups.
// Buttons switch mappings while driving: A selects tank, X selects tank on
// the horizontal right axis, and B selects arcade.
//
// # Installation
//
//	go install github.com/gwillem/vexdrive/cmd/vexdrive@latest
//
// # Usage
//
// Find the motor controller and write vexdrive.json:
//
//	vexdrive setup
//
// Drive with the keyboard:
//
//	vexdrive drive
//
// Or pipe controller lines into stdin, one reading per line:
//
//	gamepad-bridge | vexdrive drive --headless
//
// Lines are applied as they arrive. A recorded session replays at its own
// pace when it spaces readings with wait lines:
//
//	axis left_y 80
//	wait 500
//	press a
//	wait 15
//	release a
//
// The robot stops when input ends or goes quiet for 250ms.
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/vexdrive: CLI with setup, drive and mappings commands
//   - pkg/drive: Controller readings, mappings and button bindings
//   - pkg/input: Keyboard and line protocol controller sources
//   - pkg/robot: Motor groups, backends and configuration
//   - pkg/teleop: Teleoperation control loop
package vexdrive
