package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cichat/config"
)

type settingAction int

const (
	settingTheme settingAction = iota
	settingReload
	settingClear
	settingServer
)

type settingItem struct {
	Label  string
	Action settingAction
}

var settingItems = []settingItem{
	{Label: "Theme", Action: settingTheme},
	{Label: "Reload history", Action: settingReload},
	{Label: "Clear history", Action: settingClear},
	{Label: "Server", Action: settingServer},
}

type themeSavedMsg struct {
	theme string
	err   error
}

func (a AppView) settingValue(item settingItem) string {
	switch item.Action {
	case settingTheme:
		return a.snap.Theme
	case settingServer:
		return a.cfg.ServerURL
	case settingClear:
		return "wipes the server-side memory"
	default:
		return ""
	}
}

func (a AppView) handleSettingsKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	kb := a.cfg.Keybindings

	switch msg.String() {
	case "esc", kb.GetActionKey("settings"):
		a.showSettings = false
		return a, nil

	case kb.GetActionKey("settings_down"), "down":
		a.selectedSettingIdx = (a.selectedSettingIdx + 1) % len(settingItems)
		return a, nil

	case kb.GetActionKey("settings_up"), "up":
		a.selectedSettingIdx = (a.selectedSettingIdx - 1 + len(settingItems)) % len(settingItems)
		return a, nil

	case "enter", " ":
		switch settingItems[a.selectedSettingIdx].Action {
		case settingTheme:
			return a.toggleTheme()
		case settingReload:
			a.showSettings = false
			return a, a.session.LoadHistoryCmd(a.ctx)
		case settingClear:
			a.showSettings = false
			a.confirmClear = clearHistoryConfirmation()
			return a, nil
		}
	}

	return a, nil
}

func (a AppView) toggleTheme() (AppView, tea.Cmd) {
	theme := a.session.ToggleTheme()
	ApplyTheme(theme)
	a.snap = a.session.Snapshot()
	a.updateViewportContent(false)
	return a, saveThemeCmd(a.cfg, theme)
}

func saveThemeCmd(cfg *config.Config, theme string) tea.Cmd {
	return func() tea.Msg {
		return themeSavedMsg{theme: theme, err: cfg.SaveTheme(theme)}
	}
}

func (a AppView) renderSettings(width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := min(max(width-10, 40), 70)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(fmt.Sprintf("Settings (%s)", a.cfg.Keybindings.DisplayActionKey("settings")))

	separator := DimStyle.Render(strings.Repeat("─", modalWidth))

	const labelWidth = 20
	var lines []string
	for i, item := range settingItems {
		indicator := "  "
		if i == a.selectedSettingIdx {
			indicator = "▶ "
		}

		label := indicator + item.Label
		label += strings.Repeat(" ", max(labelWidth-lipgloss.Width(label), 1))

		value := a.settingValue(item)
		if maxValue := modalWidth - labelWidth - 4; lipgloss.Width(value) > maxValue && maxValue > 3 {
			value = value[:maxValue-3] + "..."
		}

		lineStyle := lipgloss.NewStyle().Width(modalWidth)
		if i == a.selectedSettingIdx {
			lineStyle = lineStyle.Foreground(successColor).Bold(true)
		}
		lines = append(lines, lineStyle.Render(label+DimStyle.Render(value)))
	}

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close"))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		separator,
		"",
		strings.Join(lines, "\n"),
		"",
		separator,
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
