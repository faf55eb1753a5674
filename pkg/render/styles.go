package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	fieldNameStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	fieldKindStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	outputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(mutedGray).
			PaddingLeft(1)
)
