package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cichat/testutil"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		expectError bool
		expectURL   string
	}{
		{name: "default URL", baseURL: "", expectURL: "https://crayond.onrender.com"},
		{name: "trailing slash trimmed", baseURL: "http://localhost:8000/", expectURL: "http://localhost:8000"},
		{name: "unsupported scheme", baseURL: "ftp://example.com", expectError: true},
		{name: "missing host", baseURL: "http://", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.baseURL, 0)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectURL, c.BaseURL())
		})
	}
}

func TestClientAgainstFakeBackend(t *testing.T) {
	fb := testutil.NewFakeBackend("hi", "hello ```")
	defer fb.Close()

	c, err := NewClient(fb.URL(), time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	messages, err := c.Memory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "hello ```"}, messages)

	reply, err := c.Chat(ctx, "Market Trends")
	require.NoError(t, err)
	assert.Equal(t, "You asked: Market Trends", reply)

	require.NoError(t, c.ClearMemory(ctx))
	assert.Empty(t, fb.Memory())

	require.NoError(t, c.Ping(ctx))

	ids := fb.RequestIDs()
	require.Len(t, ids, 4)
	for _, id := range ids {
		assert.Len(t, id, 36)
	}
}

func TestClientStatusError(t *testing.T) {
	fb := testutil.NewFakeBackend()
	defer fb.Close()
	fb.FailWith("/clear-memory", http.StatusInternalServerError)

	c, err := NewClient(fb.URL(), time.Second)
	require.NoError(t, err)

	err = c.ClearMemory(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "induced failure", statusErr.Body)
	assert.Contains(t, err.Error(), "500")
}

func TestClientPayloadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		call   func(c *Client) error
		server string
	}{
		{
			name: "memory missing field",
			body: `{"error": "supabase down"}`,
			call: func(c *Client) error {
				_, err := c.Memory(context.Background())
				return err
			},
			server: "supabase down",
		},
		{
			name: "memory not a list",
			body: `{"messages": "nope"}`,
			call: func(c *Client) error {
				_, err := c.Memory(context.Background())
				return err
			},
		},
		{
			name: "memory list of numbers",
			body: `{"messages": [1, 2]}`,
			call: func(c *Client) error {
				_, err := c.Memory(context.Background())
				return err
			},
		},
		{
			name: "memory list with null",
			body: `{"messages": ["what about X?", null, "answer"]}`,
			call: func(c *Client) error {
				_, err := c.Memory(context.Background())
				return err
			},
		},
		{
			name: "chat missing response",
			body: `{"error": "quota exceeded"}`,
			call: func(c *Client) error {
				_, err := c.Chat(context.Background(), "x")
				return err
			},
			server: "quota exceeded",
		},
		{
			name: "chat not json",
			body: `<html>bad gateway</html>`,
			call: func(c *Client) error {
				_, err := c.Chat(context.Background(), "x")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(srv.URL, time.Second)
			require.NoError(t, err)

			err = tt.call(c)
			var payloadErr *PayloadError
			require.True(t, errors.As(err, &payloadErr), "got %T: %v", err, err)
			assert.Equal(t, tt.server, payloadErr.ServerMessage)
		})
	}
}

func TestClientEmptyMemoryIsNotAnError(t *testing.T) {
	fb := testutil.NewFakeBackend()
	defer fb.Close()

	c, err := NewClient(fb.URL(), time.Second)
	require.NoError(t, err)

	messages, err := c.Memory(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second)
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "hello")
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "send message", transportErr.Op)
}

func TestClientSendsQueryBody(t *testing.T) {
	var gotContentType, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		var body struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotQuery = body.Query
		_, _ = w.Write([]byte(`{"response": "ok"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), "SWOT Analysis")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "SWOT Analysis", gotQuery)
}
