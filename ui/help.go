package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.cfg.Keybindings

	title := TitleStyle.Foreground(successColor).Render(appTitle + " - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global Actions"),
		fmt.Sprintf("• %-13s Search messages", kb.DisplayActionKey("search")),
		fmt.Sprintf("• %-13s Settings", kb.DisplayActionKey("settings")),
		fmt.Sprintf("• %-13s Reload history", kb.DisplayActionKey("reload_history")),
		fmt.Sprintf("• %-13s Clear history", kb.DisplayActionKey("clear_history")),
		fmt.Sprintf("• %-13s Toggle theme", kb.DisplayActionKey("toggle_theme")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	chatNavigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Navigation"),
		fmt.Sprintf("• %-13s Scroll down 1 line", kb.DisplayActionKey("scroll_down")),
		fmt.Sprintf("• %-13s Scroll up 1 line", kb.DisplayActionKey("scroll_up")),
		fmt.Sprintf("• %-13s Half page down", kb.DisplayActionKey("half_page_down")),
		fmt.Sprintf("• %-13s Half page up", kb.DisplayActionKey("half_page_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey("scroll_to_bottom")),
	)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Actions"),
		"• Enter         Send message",
		"• Alt+Enter     New line",
		fmt.Sprintf("• %-13s Send suggestion 1-4", kb.DisplayActionKey("chip_1")+"..4"),
		fmt.Sprintf("• %-13s Copy last response", kb.DisplayActionKey("yank_last_response")),
		fmt.Sprintf("• %-13s Copy conversation", kb.DisplayActionKey("yank_conversation")),
		fmt.Sprintf("• %-13s Export transcript", kb.DisplayActionKey("export_transcript")),
	)

	searchActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Search"),
		fmt.Sprintf("• %-13s Next match", kb.DisplayActionKey("search_next")),
		fmt.Sprintf("• %-13s Previous match", kb.DisplayActionKey("search_prev")),
		"• Esc           Close search",
	)

	column1 := lipgloss.JoinVertical(lipgloss.Left, globalActions, "", searchActions)
	column2 := lipgloss.JoinVertical(lipgloss.Left, chatNavigation, "", chatActions)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"  ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Modifiers: %s / %s  •  Press %s or Esc to close this help",
			kb.PrimaryDisplay(), kb.SecondaryDisplay(), kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Width(min(96, max(width-4, 20)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
