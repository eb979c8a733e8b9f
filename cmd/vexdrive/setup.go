package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/vexdrive/pkg/drive"
	"github.com/gwillem/vexdrive/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const (
	scanFirstID  = 1
	scanLastID   = 20
	testCommand  = 40
	testDuration = 500 * time.Millisecond
)

type SetupCommand struct {
	SkipTest bool `long:"skip-test" description:"Do not pulse the motors after configuring"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("vexdrive setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := robot.LoadConfigFrom(configPath())
	if errors.Is(err, os.ErrNotExist) {
		cfg = robot.DefaultConfig()
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", configPath(), err)
		os.Exit(1)
	}

	// Step 1: Find the motor controller
	fmt.Println(subHeaderStyle.Render("━━━ Motor controller ━━━"))
	fmt.Println()
	candidates := findControllers()
	choosePort(cfg, candidates)

	// Step 2: Controls
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Controls ━━━"))
	fmt.Println()
	chooseMapping(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Step 3: Check motor directions
	if !c.SkipTest && cfg.Backend != robot.BackendSim {
		fmt.Println()
		fmt.Println(subHeaderStyle.Render("━━━ Motor test ━━━"))
		fmt.Println()
		if err := testMotors(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Motor test failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cfg.SaveTo(configPath()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", configPath())
	fmt.Println()
	fmt.Println("Start driving with: " + headerStyle.Render("vexdrive drive"))

	return nil
}

type controllerInfo struct {
	port   string
	servos []int // feetech IDs answering a scan, empty for plain serial
}

func findControllers() []controllerInfo {
	fmt.Println("Scanning serial ports...")

	ports, err := robot.ListPorts()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var found []controllerInfo
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		info := controllerInfo{port: port}
		if bus, err := robot.OpenServoBus(port, robot.DefaultFeetechBaudRate); err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			ids, err := bus.Scan(ctx, scanFirstID, scanLastID)
			cancel()
			bus.Close()
			if err == nil {
				info.servos = ids
			}
		}

		if len(info.servos) > 0 {
			fmt.Printf("  Found %d servo(s) on %s\n", len(info.servos), port)
		} else {
			fmt.Printf("  Found %s\n", port)
		}
		found = append(found, info)
	}

	if len(found) == 0 {
		fmt.Println("No serial ports found. Connect the motor controller or use the simulator.")
	}
	fmt.Println()
	return found
}

func choosePort(cfg *robot.Config, candidates []controllerInfo) {
	options := []huh.Option[string]{huh.NewOption("Simulator (no hardware)", "")}
	for _, c := range candidates {
		label := c.port
		if len(c.servos) > 0 {
			label = fmt.Sprintf("%s (servos %v)", c.port, c.servos)
		}
		options = append(options, huh.NewOption(label, c.port))
	}

	port := cfg.Port
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port is the motor controller on?").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	if port == "" {
		cfg.Backend = robot.BackendSim
		cfg.Port = ""
		cfg.BaudRate = 0
		return
	}
	cfg.Port = port

	var servos []int
	for _, c := range candidates {
		if c.port == port {
			servos = c.servos
		}
	}

	backend := robot.BackendSerial
	if len(servos) > 0 {
		backend = robot.BackendFeetech
	}
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What is connected to " + port + "?").
				Options(
					huh.NewOption("Motor controller speaking the line protocol", robot.BackendSerial),
					huh.NewOption("Feetech servo bus", robot.BackendFeetech),
				).
				Value(&backend),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	cfg.Backend = backend
	cfg.BaudRate = 0

	if backend == robot.BackendFeetech && len(servos) >= 2 {
		left, right := splitServos(servos)
		useScan := true
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Use servos %v for left and %v for right?", left, right)).
					Description("Right side servos are mounted mirrored and run reversed").
					Value(&useScan),
			),
		)
		if err := confirm.Run(); err != nil {
			fmt.Println()
			os.Exit(0)
		}
		if useScan {
			cfg.Left = robot.GroupConfig{Ports: left}
			cfg.Right = robot.GroupConfig{Ports: right}
		}
	}
}

// splitServos gives the lower half of the scanned IDs to the left side and
// the upper half, reversed, to the right side.
func splitServos(ids []int) (left, right []robot.Port) {
	half := len(ids) / 2
	for _, id := range ids[:half] {
		left = append(left, robot.Port(id))
	}
	for _, id := range ids[half:] {
		right = append(right, robot.Port(-id))
	}
	return left, right
}

func chooseMapping(cfg *robot.Config) {
	var options []huh.Option[drive.Mapping]
	for _, m := range drive.AllMappings() {
		options = append(options, huh.NewOption(m.String(), m))
	}

	mapping := cfg.Mapping
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[drive.Mapping]().
				Title("Which control mapping should be active at start?").
				Description(bindingHelp(cfg.Bindings)).
				Options(options...).
				Value(&mapping),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	cfg.Mapping = mapping
}

func bindingHelp(bindings drive.Bindings) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, fmt.Sprintf("%s switches to %s", strings.ToUpper(string(b.Button)), b.Mapping))
	}
	return strings.Join(parts, ", ")
}

func testMotors(cfg *robot.Config) error {
	run := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Pulse each side forward to check directions?").
				Description("Lift the robot so the wheels spin freely").
				Value(&run),
		),
	)
	if err := form.Run(); err != nil || !run {
		return nil
	}

	ctx := context.Background()
	dt, err := robot.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer dt.Close()

	fmt.Println("Testing motors...")
	for _, name := range robot.AllGroups() {
		fmt.Printf("  %s side %v\n", name, cfg.Group(name).Ports)
		speeds, err := dt.Pulse(ctx, name, testCommand, testDuration)
		if err != nil {
			return fmt.Errorf("%s side: %w", name, err)
		}
		for _, line := range speedReport(cfg.Group(name).Ports, speeds) {
			fmt.Println(line)
		}
	}
	fmt.Println(successStyle.Render("Both sides should have turned forward."))
	fmt.Println(dimStyle.Render("If one turned backward, negate its ports in " + configPath()))
	return nil
}

// speedReport describes measured motor speeds during a forward pulse. A
// motor reading backward most likely needs its port negated.
func speedReport(ports []robot.Port, speeds map[int]int32) []string {
	var lines []string
	for _, p := range ports {
		v, ok := speeds[p.Number()]
		if !ok {
			continue
		}
		line := fmt.Sprintf("    motor %d: %+d", p.Number(), v)
		if v < 0 {
			line += "  " + dimStyle.Render("turning backward")
		}
		lines = append(lines, line)
	}
	return lines
}

