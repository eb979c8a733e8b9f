package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/vexdrive/pkg/drive"
	"github.com/gwillem/vexdrive/pkg/robot"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

type MappingsCommand struct{}

func (c *MappingsCommand) Execute(args []string) error {
	cfg, err := robot.LoadConfigFrom(configPath())
	if errors.Is(err, os.ErrNotExist) {
		cfg = robot.DefaultConfig()
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", configPath(), err)
		os.Exit(1)
	}

	fmt.Println(renderMappings(cfg))
	return nil
}

func renderMappings(cfg *robot.Config) string {
	var rows [][]string
	for _, m := range drive.AllMappings() {
		rows = append(rows, []string{
			m.String(),
			formula(m, cfg.Layout),
			buttonsFor(cfg.Bindings, m),
		})
	}
	active := int(cfg.Mapping)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Mapping", "Left / Right", "Button").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0 && row == active:
				return tableActiveStyle
			case col == 0:
				return tableNameStyle
			default:
				return tableCellStyle
			}
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Active at start: %s. When several buttons are held the last binding wins.", cfg.Mapping)))
	return sb.String()
}

func formula(m drive.Mapping, l drive.Layout) string {
	switch m {
	case drive.Tank:
		return fmt.Sprintf("%s / %s", l.Left, l.Right)
	case drive.TankHorizontal:
		return fmt.Sprintf("%s / %s", l.Left, l.RightHorizontal)
	default:
		return fmt.Sprintf("%[1]s + %[2]s / %[1]s - %[2]s", l.Forward, l.Turn)
	}
}

func buttonsFor(bindings drive.Bindings, m drive.Mapping) string {
	var buttons []string
	for _, b := range bindings {
		if b.Mapping == m {
			buttons = append(buttons, strings.ToUpper(string(b.Button)))
		}
	}
	if len(buttons) == 0 {
		return "-"
	}
	return strings.Join(buttons, ", ")
}
