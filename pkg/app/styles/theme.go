package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#E0A458")
	Secondary  = lipgloss.Color("#8FB8DE")
	Success    = lipgloss.Color("#A3BE8C")
	Warning    = lipgloss.Color("#EBCB8B")
	Error      = lipgloss.Color("#BF616A")
	Info       = lipgloss.Color("#81A1C1")
	Muted      = lipgloss.Color("#616E88")
	Background = lipgloss.Color("#2E3440")
	Foreground = lipgloss.Color("#ECEFF4")

	// Border styles
	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

// Base styles
var (
	// Title style for headings
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	// Book titles inside cards
	BookTitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	FavoriteStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	CardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 2)

	// Active/focused card
	ActiveCardStyle = lipgloss.NewStyle().
			Border(ThickBorder).
			BorderForeground(Primary).
			Padding(0, 2)

	// Status styles
	StatusLoading = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	StatusSuccess = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusEmpty = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Background(lipgloss.Color("#3B4252")).
			Padding(0, 2).
			Bold(true)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Padding(0, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginTop(1)

	InputStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Primary).
				Padding(0, 1)
)

// StatusStyle picks the style for a search status name.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "loading":
		return StatusLoading
	case "success":
		return StatusSuccess
	case "empty":
		return StatusEmpty
	case "error":
		return StatusError
	default:
		return MutedStyle
	}
}
