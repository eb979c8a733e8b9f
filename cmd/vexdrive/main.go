package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gwillem/vexdrive/pkg/robot"
)

type Options struct {
	Config   string          `long:"config" short:"c" description:"Configuration file (default vexdrive.json)"`
	Drive    DriveCommand    `command:"drive" alias:"teleop" description:"Drive the robot with arcade or tank controls"`
	Setup    SetupCommand    `command:"setup" description:"Find the motor controller and write a configuration"`
	Mappings MappingsCommand `command:"mappings" description:"List control mappings and button bindings"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func configPath() string {
	if opts.Config == "" {
		return robot.DefaultConfigFile
	}
	return opts.Config
}

func main() {
	parser.LongDescription = "vexdrive - teleoperation for a two-sided drivetrain"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
