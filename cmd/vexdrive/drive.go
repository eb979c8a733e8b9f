package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/vexdrive/pkg/drive"
	"github.com/gwillem/vexdrive/pkg/input"
	"github.com/gwillem/vexdrive/pkg/robot"
	"github.com/gwillem/vexdrive/pkg/teleop"
)

type DriveCommand struct {
	Interval int    `long:"interval" description:"Loop interval in milliseconds (overrides config)"`
	Mapping  string `long:"mapping" choice:"arcade" choice:"tank" choice:"tank_horizontal" description:"Initial control mapping (overrides config)"`
	Backend  string `long:"backend" choice:"serial" choice:"feetech" choice:"sim" description:"Motor backend (overrides config)"`
	Port     string `long:"port" description:"Serial port (overrides config)"`
	Headless bool   `long:"headless" description:"Read controller commands from stdin instead of the keyboard"`
	LogFile  string `long:"log-file" default:"vexdrive.log" description:"Log file"`
	Debug    bool   `long:"debug" description:"Verbose logging"`
}

const (
	headerHeight = 3 // title + status + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Group colors
var groupColors = map[robot.GroupName]string{
	robot.Left:  "51",  // cyan
	robot.Right: "208", // orange
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mappingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

type driveModel struct {
	ctrl     *teleop.Controller
	keyboard *input.Keyboard
	chart    *streamlinechart.Model
	width    int       // terminal width
	height   int       // terminal height
	logs     []string  // last N log messages
	state    teleop.State
	status   string
	quitting bool
}

func (m *driveModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg teleop.State
type logMsg string

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *driveModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *driveModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func newDriveModel(ctrl *teleop.Controller, kb *input.Keyboard, status string) driveModel {
	// Arcade sums reach twice the axis range.
	limit := float64(2 * drive.AxisMax)
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-limit, limit),
	)

	for _, name := range robot.AllGroups() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(groupColors[name]))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return driveModel{
		ctrl:     ctrl,
		keyboard: kb,
		chart:    &chart,
		status:   status,
		state:    teleop.State{Mapping: ctrl.Active()},
	}
}

func (m driveModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m driveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			m.keyboard.HandleKey(msg.String())
		}

	case stateMsg:
		m.state = teleop.State(msg)
		m.chart.PushDataSet(string(robot.Left), float64(m.state.Command.Left))
		m.chart.PushDataSet(string(robot.Right), float64(m.state.Command.Right))
		m.chart.DrawAll()
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m driveModel) View() string {
	if m.quitting {
		return "Teleop stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("vexdrive"))
	sb.WriteString(fmt.Sprintf(" - %s", m.ctrl.Interval()))
	sb.WriteString("  " + mappingStyle.Render(m.state.Mapping.String()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(m.status))
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend(m.state.Command))
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render(strings.Join(input.KeyHelp(), " · ") + " · q quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend(cmd drive.Command) string {
	values := map[robot.GroupName]int32{robot.Left: cmd.Left, robot.Right: cmd.Right}
	var items []string
	for _, name := range robot.AllGroups() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(groupColors[name])).Bold(true)
		item := colorStyle.Render("━━") + fmt.Sprintf(" %s %+4d", name, values[name])
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

// loadDriveConfig reads the config file, falling back to the simulator,
// and applies command line overrides.
func (c *DriveCommand) loadDriveConfig(path string) (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "No configuration at %s, using the simulator. Run 'vexdrive setup' to configure hardware.\n", path)
		cfg = robot.DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if c.Interval > 0 {
		cfg.IntervalMS = c.Interval
	}
	if c.Mapping != "" {
		m, err := drive.ParseMapping(c.Mapping)
		if err != nil {
			return nil, err
		}
		cfg.Mapping = m
	}
	if c.Backend != "" {
		cfg.Backend = c.Backend
	}
	if c.Port != "" {
		cfg.Port = c.Port
	}
	return cfg, cfg.Validate()
}

func (c *DriveCommand) Execute(args []string) error {
	cfg, err := c.loadDriveConfig(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(c.LogFile, c.Debug, c.Headless)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dt, err := robot.Open(ctx, cfg)
	if err != nil {
		logger.Errorw("open drivetrain", "backend", cfg.Backend, "port", cfg.Port, "error", err)
		return fmt.Errorf("open %s drivetrain: %w", cfg.Backend, err)
	}
	defer func() {
		if err := dt.Close(); err != nil {
			logger.Warnw("close drivetrain", "error", err)
		}
	}()
	logger.Infow("drivetrain ready", "backend", cfg.Backend, "port", cfg.Port,
		"left", cfg.Left.Ports, "right", cfg.Right.Ports)

	if c.Headless {
		return c.runHeadless(ctx, cfg, dt, logger)
	}
	return c.runTUI(ctx, cfg, dt, logger)
}

func newController(cfg *robot.Config, in teleop.Input, dt *robot.Drivetrain, logger *zap.SugaredLogger) *teleop.Controller {
	return teleop.New(in, dt.Left, dt.Right, teleop.Config{
		Interval: cfg.Interval(),
		Mapping:  cfg.Mapping,
		Layout:   cfg.Layout,
		Bindings: cfg.Bindings,
		Logger:   logger,
	})
}

func (c *DriveCommand) runHeadless(ctx context.Context, cfg *robot.Config, dt *robot.Drivetrain, logger *zap.SugaredLogger) error {
	lines := input.NewLines(nil, logger)
	ctrl := newController(cfg, lines, dt, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := lines.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("controller input stopped", "error", err)
		}
	}()

	if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (c *DriveCommand) runTUI(ctx context.Context, cfg *robot.Config, dt *robot.Drivetrain, logger *zap.SugaredLogger) error {
	kb := input.NewKeyboard(nil)
	ctrl := newController(cfg, kb, dt, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("controller error", "error", err)
		}
	}()

	status := fmt.Sprintf("%s backend · left %v · right %v", cfg.Backend, cfg.Left.Ports, cfg.Right.Ports)
	p := tea.NewProgram(newDriveModel(ctrl, kb, status), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	cancel()
	<-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
