package model

import (
	"errors"
	"fmt"
	"strings"

	"cichat/client"
)

// Notice is a failure the user has to acknowledge. LoadHistory and
// ClearHistory report their errors this way; SendMessage never does.
type Notice struct {
	Title   string
	Message string
	Err     error
}

func (n *Notice) Error() string {
	return n.Message
}

func (n *Notice) Unwrap() error {
	return n.Err
}

func loadNotice(err error) *Notice {
	return &Notice{
		Title:   "Could not load history",
		Message: "Failed to load messages: " + reason(err),
		Err:     err,
	}
}

func clearNotice(err error) *Notice {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		msg := fmt.Sprintf("Failed to clear chat history. Server returned: %d", statusErr.StatusCode)
		if body := strings.TrimSpace(statusErr.Body); body != "" {
			msg += " - " + body
		}
		return &Notice{Title: "Clear failed", Message: msg, Err: err}
	}

	return &Notice{
		Title:   "Clear failed",
		Message: fmt.Sprintf("Network error when clearing history: %s. Check your connection and server.", reason(err)),
		Err:     err,
	}
}

// sendErrorText is what the bot "says" when a send fails.
func sendErrorText(err error) string {
	return fmt.Sprintf("Sorry, I encountered an error: %s. Please check your network connection.", reason(err))
}

// reason renders err without the client's op prefix.
func reason(err error) string {
	var (
		statusErr    *client.StatusError
		transportErr *client.TransportError
		payloadErr   *client.PayloadError
	)

	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server error: %d", statusErr.StatusCode)
	case errors.As(err, &transportErr):
		return transportErr.Err.Error()
	case errors.As(err, &payloadErr):
		if payloadErr.ServerMessage != "" {
			return payloadErr.ServerMessage
		}
		return "Invalid response from server: " + payloadErr.Reason
	default:
		return err.Error()
	}
}
