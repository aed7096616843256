package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/etymon/internal/models"
)

// Theme holds the color scheme for the explorer.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Border  lipgloss.Color
	Focus   lipgloss.Color
	Dim     lipgloss.Color

	Root       lipgloss.Color
	Ancestor   lipgloss.Color
	Current    lipgloss.Color
	Cognate    lipgloss.Color
	Derivative lipgloss.Color
	Borrowing  lipgloss.Color
	Unknown    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Border:  lipgloss.Color("#3A3A3A"), // dark gray
	Focus:   lipgloss.Color("#AF87FF"), // violet
	Dim:     lipgloss.Color("#4E4E4E"),

	Root:       lipgloss.Color("#FFAF00"), // amber
	Ancestor:   lipgloss.Color("#D7875F"), // clay
	Current:    lipgloss.Color("#00D787"), // green
	Cognate:    lipgloss.Color("#5FAFD7"), // light blue
	Derivative: lipgloss.Color("#D787D7"), // pink
	Borrowing:  lipgloss.Color("#D7D75F"), // olive
	Unknown:    lipgloss.Color("#8A8A8A"),
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dim)
}

func (t Theme) paneStyle(focused bool) lipgloss.Style {
	border := t.Border
	if focused {
		border = t.Focus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

// nodeColor maps every node kind to a color. Unknown kinds from the model
// fall back to a neutral gray.
func (t Theme) nodeColor(k models.NodeKind) lipgloss.Color {
	switch k {
	case models.NodeRoot:
		return t.Root
	case models.NodeAncestor:
		return t.Ancestor
	case models.NodeCurrent:
		return t.Current
	case models.NodeCognate:
		return t.Cognate
	case models.NodeDerivative:
		return t.Derivative
	}
	return t.Unknown
}

func (t Theme) stepColor(k models.StepKind) lipgloss.Color {
	switch k {
	case models.StepRoot:
		return t.Root
	case models.StepAncestor:
		return t.Ancestor
	case models.StepDerived:
		return t.Derivative
	case models.StepCognate:
		return t.Cognate
	case models.StepBorrowing:
		return t.Borrowing
	case models.StepCurrent:
		return t.Current
	}
	return t.Unknown
}

func (t Theme) linkColor(k models.LinkKind) lipgloss.Color {
	switch k {
	case models.LinkDerived:
		return t.Ancestor
	case models.LinkBorrowed:
		return t.Borrowing
	case models.LinkCognate:
		return t.Cognate
	}
	return t.Unknown
}

// nodeGlyph returns the marker drawn at a node's position.
func nodeGlyph(k models.NodeKind) rune {
	switch k {
	case models.NodeRoot:
		return '◆'
	case models.NodeAncestor:
		return '●'
	case models.NodeCurrent:
		return '★'
	case models.NodeCognate:
		return '○'
	case models.NodeDerivative:
		return '◇'
	}
	return '•'
}

// stepGlyph returns the bullet drawn before a timeline step.
func stepGlyph(k models.StepKind) rune {
	switch k {
	case models.StepRoot:
		return '◆'
	case models.StepAncestor:
		return '●'
	case models.StepDerived:
		return '◇'
	case models.StepCognate:
		return '○'
	case models.StepBorrowing:
		return '↪'
	case models.StepCurrent:
		return '★'
	}
	return '•'
}
