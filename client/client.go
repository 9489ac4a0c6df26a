package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"cichat/config"
)

const (
	DefaultTimeout = 120 * time.Second

	// maxBodyBytes bounds how much of a response we read. Bot replies are
	// markdown documents, not downloads.
	maxBodyBytes = 8 << 20
)

// Client talks to the Competitive Intelligence chatbot service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Response *string `json:"response"`
	Error    string  `json:"error,omitempty"`
}

type memoryResponse struct {
	Messages json.RawMessage `json:"messages"`
	Error    string          `json:"error,omitempty"`
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultServerURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid server URL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if parsedURL.Host == "" {
		return nil, errors.Errorf("invalid server URL %q: missing host", baseURL)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Memory fetches the flat, alternating user/bot history list.
func (c *Client) Memory(ctx context.Context) ([]string, error) {
	const op = "load history"

	body, err := c.do(ctx, op, http.MethodGet, "/memory", nil)
	if err != nil {
		return nil, err
	}

	var resp memoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &PayloadError{Op: op, Reason: "response is not a JSON object"}
	}
	if len(resp.Messages) == 0 || string(resp.Messages) == "null" {
		return nil, &PayloadError{Op: op, Reason: "missing messages field", ServerMessage: resp.Error}
	}

	var entries []*string
	if err := json.Unmarshal(resp.Messages, &entries); err != nil {
		return nil, &PayloadError{Op: op, Reason: "messages is not a list of strings", ServerMessage: resp.Error}
	}
	messages := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			return nil, &PayloadError{Op: op, Reason: "messages is not a list of strings", ServerMessage: resp.Error}
		}
		messages = append(messages, *e)
	}

	return messages, nil
}

// ClearMemory wipes the server-side history.
func (c *Client) ClearMemory(ctx context.Context) error {
	_, err := c.do(ctx, "clear history", http.MethodPost, "/clear-memory", nil)
	return err
}

// Chat sends one user query and returns the raw bot reply.
func (c *Client) Chat(ctx context.Context, query string) (string, error) {
	const op = "send message"

	body, err := c.do(ctx, op, http.MethodPost, "/chat", chatRequest{Query: query})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &PayloadError{Op: op, Reason: "response is not a JSON object"}
	}
	if resp.Response == nil {
		return "", &PayloadError{Op: op, Reason: "missing response field", ServerMessage: resp.Error}
	}

	return *resp.Response, nil
}

// Ping checks the service root answers.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.do(ctx, "ping", http.MethodGet, "/", nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: encode request", op)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: build request", op)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		config.Log.Debug().Str("op", op).Str("request_id", requestID).Err(err).Msg("request failed")
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: errors.Wrap(err, "read response")}
	}

	config.Log.Debug().
		Str("op", op).
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(respBody)).
		Msg("request done")

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
