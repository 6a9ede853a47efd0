package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	infoColorConstant    = "#0099FF"
	successColorConstant = "#00AA00"
	warningColorConstant = "#FFAA00"
	dimColorConstant     = "#888888"
)

type consoleStyles struct {
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	heading lipgloss.Style
	dim     lipgloss.Style
	branch  lipgloss.Style
}

// newConsoleStyles binds styles to the writer so colors are dropped when it is not a terminal.
func newConsoleStyles(writer io.Writer) consoleStyles {
	renderer := lipgloss.NewRenderer(writer)
	return consoleStyles{
		info:    renderer.NewStyle().Foreground(lipgloss.Color(infoColorConstant)),
		success: renderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		warning: renderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		heading: renderer.NewStyle().Bold(true),
		dim:     renderer.NewStyle().Foreground(lipgloss.Color(dimColorConstant)),
		branch:  renderer.NewStyle().Bold(true),
	}
}
