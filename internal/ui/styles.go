package ui

import "github.com/charmbracelet/lipgloss"

const defaultCardWidth = 36

var (
	colorAccent    = lipgloss.Color("#1677ff")
	colorCompleted = lipgloss.Color("#16a34a")
	colorMuted     = lipgloss.Color("#808080")
	colorWarning   = lipgloss.Color("#faad14")
	colorError     = lipgloss.Color("#ff4d4f")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	focusedCardStyle = cardStyle.
				BorderForeground(colorAccent)

	cardTitleStyle = lipgloss.NewStyle().Bold(true)

	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bfbfbf"))

	doneButtonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	disabledStyle = lipgloss.NewStyle().Faint(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	noticeStyles = map[NoticeLevel]lipgloss.Style{
		NoticeInfo:    lipgloss.NewStyle().Foreground(colorAccent),
		NoticeWarning: lipgloss.NewStyle().Foreground(colorWarning),
		NoticeError:   lipgloss.NewStyle().Foreground(colorError),
	}
)

// doneColor mirrors the web card: green once completed, grey otherwise.
func doneColor(completed bool) lipgloss.Color {
	if completed {
		return colorCompleted
	}
	return colorMuted
}
