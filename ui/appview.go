package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cichat/config"
	"cichat/model"
)

const (
	appTitle    = "CI Chat Advisor"
	appSubtitle = "Powered by Advanced Intelligence"
)

type AppView struct {
	cfg     *config.Config
	session *model.Session
	host    string

	// ctx is cancelled on quit so in-flight requests stop with the program
	ctx    context.Context
	cancel context.CancelFunc

	// UI Components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Latest session state and the chips that match the draft
	snap  model.Snapshot
	chips []string

	// Markdown cache keyed by width and text
	rendered map[string]string
	pending  map[string]bool

	showHelp bool

	showSearch  bool
	searchInput textinput.Model

	showSettings       bool
	selectedSettingIdx int

	confirmClear ConfirmationState

	// Acknowledge modal (notices, export results)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	highlightedMessageIdx int
	highlightFlashCount   int

	statusMsg        string
	lastMessageCount int

	// connection is the last known backend state shown in the header
	connection string
}

func NewAppView(cfg *config.Config, session *model.Session) AppView {
	ctx, cancel := context.WithCancel(context.Background())

	ApplyTheme(session.Theme())

	ta := textarea.New()
	ta.Placeholder = "Ask about a competitor, a market or a strategy..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone sends (handled in Update)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	searchInput := textinput.New()
	searchInput.Prompt = "Search: "
	searchInput.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	snap := session.Snapshot()

	return AppView{
		cfg:                   cfg,
		session:               session,
		host:                  cfg.Host(),
		ctx:                   ctx,
		cancel:                cancel,
		viewport:              viewport.New(0, 0),
		textarea:              ta,
		spinner:               sp,
		searchInput:           searchInput,
		snap:                  snap,
		chips:                 session.Suggestions(),
		rendered:              map[string]string{},
		pending:               map[string]bool{},
		highlightedMessageIdx: -1,
		lastMessageCount:      len(snap.Messages),
		connection:            "connecting",
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.spinner.Tick,
		a.session.WaitForChange(a.ctx),
		a.session.PingCmd(a.ctx),
		a.session.LoadHistoryCmd(a.ctx),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading " + appTitle + "..."
	}

	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(
			a.acknowledgeModalTitle,
			a.acknowledgeModalMsg,
			a.acknowledgeModalType,
			a.width,
			a.height,
		)
	}

	if a.confirmClear.Active {
		return RenderConfirmationModal(a.confirmClear, a.width, a.height)
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.showSettings {
		return a.renderSettings(a.width, a.height)
	}

	if a.snap.Loading {
		return renderSpinner("Loading...", a.spinner.View(), a.width, a.height)
	}

	parts := []string{
		a.renderHeader(),
		"",
		a.viewport.View(),
		a.renderTypingLine(),
	}
	if a.showSearch {
		parts = append(parts, a.renderSearchBar())
	}
	parts = append(parts,
		renderChips(a.chips, a.cfg.Keybindings, a.width),
		a.textarea.View(),
		a.renderStatusBar(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a AppView) renderHeader() string {
	title := AssistantStyle.Bold(true).Render(appTitle)
	subtitle := DimStyle.Render(" - " + appSubtitle)

	state := a.connection
	if a.snap.Typing {
		state = "waiting for reply"
	}
	info := DimStyle.Render(fmt.Sprintf("%s | %s", a.host, state))

	left := title + subtitle
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(info)
	if gap < 1 {
		return left
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + info
}

func (a AppView) renderTypingLine() string {
	if !a.snap.Typing {
		return ""
	}
	return AssistantStyle.Render(a.spinner.View() + " Advisor is typing…")
}

func (a AppView) renderStatusBar() string {
	if a.statusMsg != "" {
		return StatusStyle.Render(a.statusMsg)
	}

	kb := a.cfg.Keybindings
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  Enter %s  %s %s",
		kb.DisplayActionKey("quit"), descStyle.Render("Quit"),
		kb.DisplayActionKey("search"), descStyle.Render("Search"),
		kb.DisplayActionKey("settings"), descStyle.Render("Settings"),
		kb.DisplayActionKey("yank_last_response"), descStyle.Render("Copy"),
		descStyle.Render("Send"),
		kb.DisplayActionKey("help"), descStyle.Render("Help"),
	)
	return StatusStyle.Render(statusBar)
}

// layout sizes the viewport to whatever the fixed rows leave over.
func (a *AppView) layout() {
	// header, separator, typing line, chips, textarea (3), status bar
	fixed := 8
	if a.showSearch {
		fixed++
	}
	a.viewport.Width = a.width
	a.viewport.Height = max(a.height-fixed, 1)
	a.textarea.SetWidth(a.width)
	a.searchInput.Width = max(a.width-20, 10)
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showSettings = false
	a.showAcknowledgeModal = false
	a.confirmClear = ConfirmationState{}
}

func (a *AppView) acknowledge(title, message string, modalType ModalType) {
	a.closeAllModals()
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = message
	a.acknowledgeModalType = modalType
}
