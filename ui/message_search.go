package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cichat/model"
)

func (a AppView) renderSearchBar() string {
	counter := a.snap.Counter()
	counterStyle := DimStyle
	if len(a.snap.Results) > 0 {
		counterStyle = SelectedStyle
	}

	hint := FormatFooter("Enter", "Next", a.cfg.Keybindings.DisplayActionKey("search_prev"), "Prev", "Esc", "Close")
	bar := a.searchInput.View() + "  " + counterStyle.Render(counter)

	gap := a.width - lipgloss.Width(bar) - lipgloss.Width(hint)
	if gap < 2 {
		return bar
	}
	return bar + lipgloss.NewStyle().Width(gap).Render("") + hint
}

func (a AppView) openSearch() (AppView, tea.Cmd) {
	a.showSearch = true
	a.textarea.Blur()
	a.layout()
	return a, a.searchInput.Focus()
}

func (a AppView) closeSearch() (AppView, tea.Cmd) {
	a.showSearch = false
	a.searchInput.Blur()
	a.searchInput.SetValue("")
	a.session.CloseSearch()
	a.snap = a.session.Snapshot()
	a.highlightedMessageIdx = -1
	a.highlightFlashCount = 0
	a.layout()
	a.updateViewportContent(true)
	return a, a.textarea.Focus()
}

func (a AppView) handleSearchKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	kb := a.cfg.Keybindings

	switch msg.String() {
	case "esc", kb.GetActionKey("search"):
		return a.closeSearch()

	case kb.GetActionKey("search_next"), "down":
		return a.navigate(model.Next)

	case kb.GetActionKey("search_prev"), "up":
		return a.navigate(model.Prev)

	case kb.GetActionKey("clear_input"):
		a.searchInput.SetValue("")
		return a.runSearch()
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if a.searchInput.Value() == before {
		return a, cmd
	}

	a, searchCmd := a.runSearch()
	return a, tea.Batch(cmd, searchCmd)
}

func (a AppView) runSearch() (AppView, tea.Cmd) {
	target := a.session.Search(a.searchInput.Value())
	a.snap = a.session.Snapshot()
	if target == model.NoMatch {
		a.highlightedMessageIdx = -1
		a.updateViewportContent(false)
		return a, nil
	}
	return a, a.scrollToMessage(target)
}

func (a AppView) navigate(dir model.Direction) (AppView, tea.Cmd) {
	target, ok := a.session.Navigate(dir)
	if !ok {
		return a, nil
	}
	a.snap = a.session.Snapshot()
	return a, a.scrollToMessage(target)
}
