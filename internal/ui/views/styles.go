package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Pane          lipgloss.Style
	FocusedPane   lipgloss.Style
	Slide         lipgloss.Style
	SlideDragging lipgloss.Style
	Label         lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	Selected      lipgloss.Style
	Disabled      lipgloss.Style
	Playing       lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	HelpBox       lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
		FocusedPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Slide: lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center).
			Padding(1, 2),
		SlideDragging: lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center).
			Padding(1, 2).
			Foreground(lipgloss.Color("214")),
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Selected:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Disabled:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true),
		Playing:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
	}
}
