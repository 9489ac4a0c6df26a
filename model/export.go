package model

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cichat/storage"
)

func senderLabel(sender Sender) string {
	if sender == SenderUser {
		return "You"
	}
	return "Advisor"
}

// FormatConversation renders messages as plain text for the clipboard.
func FormatConversation(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", msg.Timestamp.Format("15:04"), senderLabel(msg.Sender), msg.Text)
	}
	return b.String()
}

// Transcript converts the current conversation to its export form, named
// after the first question asked.
func (s Snapshot) Transcript(server string, at time.Time) *storage.Transcript {
	var firstQuestion string
	messages := make([]storage.Message, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if firstQuestion == "" && msg.IsUser() {
			firstQuestion = msg.Text
		}
		messages = append(messages, storage.Message{
			Sender:    string(msg.Sender),
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		})
	}
	return storage.NewTranscript(storage.TranscriptName(firstQuestion, at), server, messages)
}

// ExportTranscript writes the conversation to path, or to a generated file
// in Downloads when path is empty. It returns the path written.
func (s *Session) ExportTranscript(server, path string) (string, error) {
	now := s.now()
	t := s.Snapshot().Transcript(server, now)
	if path == "" {
		path = storage.GenerateExportPath(t.Name, now)
	}
	if err := storage.ExportTranscript(t, path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Session) ExportTranscriptCmd(server, path string) tea.Cmd {
	return func() tea.Msg {
		written, err := s.ExportTranscript(server, path)
		return TranscriptExportedMsg{Path: written, Err: err}
	}
}
