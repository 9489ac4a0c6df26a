package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalType determines the color and styling of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

func modalWidthFor(desired, width int) int {
	if width < desired+10 {
		return max(width-10, 10)
	}
	return desired
}

// RenderThreeSectionModal renders the borderless title / message / footer
// layout shared by every small modal.
func RenderThreeSectionModal(title string, messageLines []string, footer string, modalType ModalType, desiredWidth, width, height int) string {
	modalWidth := modalWidthFor(desiredWidth, width)

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(title)

	lines := []string{strings.Repeat(" ", modalWidth)}
	lines = append(lines, messageLines...)
	lines = append(lines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// centeredLines wraps each line of message to the modal width.
func centeredLines(message string, desiredWidth, width int) []string {
	style := lipgloss.NewStyle().
		Width(modalWidthFor(desiredWidth, width)).
		Align(lipgloss.Center)

	var lines []string
	for _, line := range strings.Split(message, "\n") {
		lines = append(lines, style.Render(line))
	}
	return lines
}

// RenderAcknowledgeModal renders a modal that requires only acknowledgement (Enter to dismiss)
func RenderAcknowledgeModal(title, message string, modalType ModalType, width, height int) string {
	return RenderThreeSectionModal(
		title,
		centeredLines(message, 60, width),
		"Press Enter to acknowledge",
		modalType,
		60,
		width,
		height,
	)
}

// renderSpinner renders a simple one-line spinner modal (no borders)
func renderSpinner(message, spinnerView string, width, height int) string {
	content := spinnerView + " " + message
	paddedContent := lipgloss.NewStyle().
		Width(modalWidthFor(40, width)).
		Align(lipgloss.Center).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, paddedContent)
}
