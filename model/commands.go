package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func (s *Session) LoadHistoryCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return HistoryLoadedMsg{Err: s.LoadHistory(ctx)}
	}
}

func (s *Session) ClearHistoryCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return HistoryClearedMsg{Err: s.ClearHistory(ctx)}
	}
}

func (s *Session) SendMessageCmd(ctx context.Context, text string) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: s.SendMessage(ctx, text)}
	}
}

func (s *Session) SendSuggestionCmd(ctx context.Context, chip string) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: s.SendSuggestion(ctx, chip)}
	}
}

func (s *Session) PingCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return PingMsg{Err: s.Ping(ctx)}
	}
}

// WaitForChange blocks until the session signals a change. Re-issue it
// after every StateChangedMsg to keep listening.
func (s *Session) WaitForChange(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.changed:
			return StateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
