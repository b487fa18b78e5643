package cli

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent  lipgloss.Color = "#cba6f7"
	colorSuccess lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorWarning lipgloss.Color = "#f9e2af"
	colorMuted   lipgloss.Color = "#7f849c"
)

// styles groups the printers used by every command. The plain set renders
// text unchanged.
type styles struct {
	Title   lipgloss.Style
	Path    lipgloss.Style
	OK      lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Rule    lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{
			Title: plain, Path: plain, OK: plain, Error: plain,
			Warning: plain, Muted: plain, Rule: plain,
		}
	}
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Path:    lipgloss.NewStyle().Bold(true),
		OK:      lipgloss.NewStyle().Foreground(colorSuccess),
		Error:   lipgloss.NewStyle().Foreground(colorError),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Rule:    lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(2),
	}
}
