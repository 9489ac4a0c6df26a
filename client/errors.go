package client

import (
	"fmt"
	"strings"
)

// TransportError means the request never produced an HTTP response
// (connection refused, DNS, TLS, timeout, cancelled context).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a response with a status other than 200.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: server error: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server error: %d: %s", e.Op, e.StatusCode, body)
}

// PayloadError is a 200 response whose body does not have the expected shape.
// ServerMessage carries the backend's {"error": "..."} text when it sent one.
type PayloadError struct {
	Op            string
	Reason        string
	ServerMessage string
}

func (e *PayloadError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("%s: %s (server said: %s)", e.Op, e.Reason, e.ServerMessage)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
