package model

import (
	"strings"
	"time"
)

const codeFence = "```"

// StripFence drops one trailing code fence from a bot reply. The service
// tends to leave an unterminated ``` at the end of its answers.
func StripFence(text string) string {
	return strings.TrimSuffix(text, codeFence)
}

// DecodeHistory turns the service's flat history list into messages. Even
// positions are user turns and odd positions bot turns; a trailing user turn
// with no answer is dropped.
func DecodeHistory(raw []string, at time.Time) []Message {
	pairs := len(raw) / 2
	messages := make([]Message, 0, pairs*2)

	for i := 0; i+1 < len(raw); i += 2 {
		messages = append(messages,
			Message{Sender: SenderUser, Text: raw[i], Timestamp: at},
			Message{Sender: SenderBot, Text: StripFence(raw[i+1]), Timestamp: at},
		)
	}

	return messages
}
