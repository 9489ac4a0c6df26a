package model

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one transcript entry. Text is raw markdown for bot messages.
type Message struct {
	Sender    Sender
	Text      string
	Timestamp time.Time
}

func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

func (m Message) IsBot() bool {
	return m.Sender == SenderBot
}
