package ui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"cichat/config"
	"cichat/model"
)

type statusClearMsg struct {
	text string
}

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != a.width {
			a.rendered = map[string]string{}
			a.pending = map[string]bool{}
		}
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true
		a.updateViewportContent(a.highlightedMessageIdx < 0)
		return a, a.renderPending()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case model.StateChangedMsg:
		return a, tea.Batch(a.refresh(), a.session.WaitForChange(a.ctx))

	case model.MarkdownRenderedMsg:
		delete(a.pending, msg.Key)
		a.rendered[msg.Key] = msg.Rendered
		atBottom := a.viewport.AtBottom()
		a.updateViewportContent(atBottom && a.highlightedMessageIdx < 0)
		return a, nil

	case model.PingMsg:
		a.connection = "online"
		if msg.Err != nil {
			a.connection = "offline"
		}
		return a, nil

	case model.HistoryLoadedMsg:
		cmd := a.refresh()
		if msg.Err == nil {
			a.connection = "online"
		}
		a.showNotice(msg.Err)
		return a, cmd

	case model.HistoryClearedMsg:
		cmd := a.refresh()
		if msg.Err != nil {
			a.showNotice(msg.Err)
			return a, cmd
		}
		return a, tea.Batch(cmd, a.setStatus("History cleared"))

	case model.ReplyMsg:
		if msg.Result.Err != nil {
			config.Log.Debug().Err(msg.Result.Err).Msg("reply replaced by error message")
		}
		return a, a.refresh()

	case model.TranscriptExportedMsg:
		if msg.Err != nil {
			a.acknowledge("Export Failed", msg.Err.Error(), ModalTypeError)
			return a, nil
		}
		a.acknowledge("Transcript Exported", "Saved to:\n"+msg.Path, ModalTypeInfo)
		return a, nil

	case model.ClipboardMsg:
		if msg.Err != nil {
			return a, a.setStatus("Copy failed: " + msg.Err.Error())
		}
		return a, a.setStatus("Copied " + msg.What)

	case themeSavedMsg:
		if msg.err != nil {
			config.Log.Error().Err(msg.err).Str("theme", msg.theme).Msg("saving theme failed")
			return a, a.setStatus("Theme not saved: " + msg.err.Error())
		}
		return a, nil

	case statusClearMsg:
		if a.statusMsg == msg.text {
			a.statusMsg = ""
		}
		return a, nil

	case model.FlashTickMsg:
		if a.highlightFlashCount > 0 && a.highlightFlashCount < 6 {
			a.highlightFlashCount++
			a.updateViewportContent(false)
			return a, flashTick()
		}
		a.highlightedMessageIdx = -1
		a.highlightFlashCount = 0
		a.updateViewportContent(false)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	if a.showSearch {
		a.searchInput, cmd = a.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// refresh pulls a fresh snapshot and redraws. New messages scroll to the
// bottom unless a search match is being shown.
func (a *AppView) refresh() tea.Cmd {
	a.snap = a.session.Snapshot()
	a.chips = a.session.Suggestions()

	grew := len(a.snap.Messages) != a.lastMessageCount
	a.lastMessageCount = len(a.snap.Messages)
	if a.highlightedMessageIdx >= len(a.snap.Messages) {
		a.highlightedMessageIdx = -1
	}

	a.updateViewportContent(grew && a.highlightedMessageIdx < 0)
	return a.renderPending()
}

func (a *AppView) showNotice(err error) {
	if err == nil {
		return
	}
	var notice *model.Notice
	if errors.As(err, &notice) {
		a.acknowledge(notice.Title, notice.Message, ModalTypeError)
		return
	}
	a.acknowledge("Error", err.Error(), ModalTypeError)
}

func (a *AppView) setStatus(text string) tea.Cmd {
	a.statusMsg = text
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{text: text}
	})
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := a.cfg.Keybindings
	keyStr := msg.String()

	if keyStr == "ctrl+c" {
		return a.quit()
	}

	if a.showAcknowledgeModal {
		if keyStr == "enter" || keyStr == "esc" {
			a.showAcknowledgeModal = false
		}
		return a, nil
	}

	if a.confirmClear.Active {
		switch keyStr {
		case "y", "Y":
			a.confirmClear = ConfirmationState{}
			return a, a.session.ClearHistoryCmd(a.ctx)
		case "n", "N", "esc":
			a.confirmClear = ConfirmationState{}
		}
		return a, nil
	}

	if a.showHelp {
		if keyStr == "esc" || keyStr == kb.GetActionKey("help") {
			a.showHelp = false
		}
		return a, nil
	}

	if a.showSettings {
		return a.handleSettingsKey(msg)
	}

	// Global actions work from both the input box and the search bar
	switch keyStr {
	case kb.GetActionKey("quit"):
		return a.quit()

	case kb.GetActionKey("help"):
		a.showHelp = true
		return a, nil

	case kb.GetActionKey("settings"):
		a.showSettings = true
		a.selectedSettingIdx = 0
		return a, nil

	case kb.GetActionKey("reload_history"):
		return a, a.session.LoadHistoryCmd(a.ctx)

	case kb.GetActionKey("clear_history"):
		a.confirmClear = clearHistoryConfirmation()
		return a, nil

	case kb.GetActionKey("toggle_theme"):
		return a.toggleTheme()

	case kb.GetActionKey("yank_last_response"):
		text, ok := a.snap.LastReply()
		if !ok {
			return a, a.setStatus("Nothing to copy yet")
		}
		return a, copyCmd("last response", text)

	case kb.GetActionKey("yank_conversation"):
		return a, copyCmd("conversation", model.FormatConversation(a.snap.Messages))

	case kb.GetActionKey("export_transcript"):
		return a, a.session.ExportTranscriptCmd(a.cfg.ServerURL, "")

	case kb.GetActionKey("scroll_down"):
		a.viewport.SetYOffset(a.viewport.YOffset + 1)
		return a, nil

	case kb.GetActionKey("scroll_up"):
		a.viewport.SetYOffset(a.viewport.YOffset - 1)
		return a, nil

	case kb.GetActionKey("half_page_down"), "pgdown":
		a.viewport.HalfViewDown()
		return a, nil

	case kb.GetActionKey("half_page_up"), "pgup":
		a.viewport.HalfViewUp()
		return a, nil

	case kb.GetActionKey("scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil

	case kb.GetActionKey("scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil
	}

	if idx, ok := chipIndex(kb, keyStr); ok {
		return a.sendChip(idx)
	}

	if a.showSearch {
		return a.handleSearchKey(msg)
	}

	switch keyStr {
	case kb.GetActionKey("search"):
		return a.openSearch()

	case kb.GetActionKey("clear_input"):
		a.textarea.Reset()
		a.session.SetInput("")
		a.chips = a.session.Suggestions()
		return a, nil

	case "enter":
		return a.send()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	a.session.SetInput(a.textarea.Value())
	a.chips = a.session.Suggestions()
	return a, cmd
}

// chipIndex maps a key to a suggestion chip slot.
func chipIndex(kb *config.KeyBindingsConfig, keyStr string) (int, bool) {
	for i := 0; i < maxChips; i++ {
		if keyStr == kb.GetActionKey("chip_"+strconv.Itoa(i+1)) {
			return i, true
		}
	}
	return 0, false
}

func (a AppView) send() (tea.Model, tea.Cmd) {
	text := a.textarea.Value()
	if strings.TrimSpace(text) == "" {
		return a, nil
	}

	a.textarea.Reset()
	a.session.SetInput("")
	a.chips = a.session.Suggestions()
	return a, a.session.SendMessageCmd(a.ctx, text)
}

func (a AppView) sendChip(idx int) (tea.Model, tea.Cmd) {
	if idx >= len(a.chips) {
		return a, nil
	}
	chip := a.chips[idx]

	a.textarea.Reset()
	a.session.SetInput("")
	a.chips = a.session.Suggestions()
	return a, a.session.SendSuggestionCmd(a.ctx, chip)
}

func (a AppView) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	return a, tea.Quit
}

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return model.ClipboardMsg{What: what, Err: clipboard.WriteAll(text)}
	}
}
