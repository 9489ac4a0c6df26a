package plain

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cichat/client"
	"cichat/model"
	"cichat/storage"
	"cichat/testutil"
)

func run(t *testing.T, fb *testutil.FakeBackend, input string, opts Options) (string, *model.Session) {
	t.Helper()

	c, err := client.NewClient(fb.URL(), 5*time.Second)
	require.NoError(t, err)
	session := model.NewSession(c, model.Options{
		Greeting:    "Hello, how can I help?",
		Suggestions: []string{"Analyze Competitor X", "Market Trends"},
	})

	var out bytes.Buffer
	err = NewRunner(session, strings.NewReader(input), &out, opts).Run(context.Background())
	require.NoError(t, err)
	return out.String(), session
}

func TestRunLoadsHistoryFirst(t *testing.T) {
	fb := testutil.NewFakeBackend("old question", "old answer ```")
	defer fb.Close()

	out, session := run(t, fb, "", Options{})

	assert.Contains(t, out, "Loading...")
	assert.Contains(t, out, "Advisor: Hello, how can I help?")
	assert.Contains(t, out, "You: old question")
	assert.Contains(t, out, "Advisor: old answer \n")
	assert.Len(t, session.Snapshot().Messages, 3)
}

func TestRunSendsLines(t *testing.T) {
	fb := testutil.NewFakeBackend()
	defer fb.Close()

	out, session := run(t, fb, "Market Trends\n\n   \n/quit\nnever sent\n", Options{})

	assert.Contains(t, out, "Advisor is typing...")
	assert.Contains(t, out, "Advisor: You asked: Market Trends")
	assert.Equal(t, 1, fb.Requests("/chat"))
	assert.Len(t, session.Snapshot().Messages, 3)
}

func TestRunChip(t *testing.T) {
	fb := testutil.NewFakeBackend()
	defer fb.Close()
	fb.SetReply(func(string) string { return "Competitor X is ```" })

	out, session := run(t, fb, "/chips\n/chip 1\n/chip 9\n", Options{})

	assert.Contains(t, out, "1. Analyze Competitor X")
	assert.Contains(t, out, "Advisor: Competitor X is \n")
	assert.Contains(t, out, "Pick a suggestion between 1 and 2.")

	msgs := session.Snapshot().Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "Analyze Competitor X", msgs[1].Text)
	assert.Equal(t, "Competitor X is ", msgs[2].Text)
}

func TestRunSearch(t *testing.T) {
	fb := testutil.NewFakeBackend("market share", "Market is flat", "pricing", "cheap")
	defer fb.Close()

	out, session := run(t, fb, "/search MARKET\n/next\n/next\n/search zebra\n/next\n", Options{})

	assert.Contains(t, out, `2 matches for "MARKET"`)
	assert.Contains(t, out, "* #1 You: market share")
	assert.Contains(t, out, "[2/2] #2")
	assert.Contains(t, out, "[1/2] #1")
	assert.Contains(t, out, `No matches for "zebra" (0/0)`)
	assert.Contains(t, out, "No search results.")
	assert.Equal(t, model.NoMatch, session.Snapshot().Cursor)
}

func TestRunClear(t *testing.T) {
	fb := testutil.NewFakeBackend("q", "a")
	defer fb.Close()

	out, session := run(t, fb, "/clear\n", Options{})

	assert.Contains(t, out, "History cleared.")
	assert.Len(t, session.Snapshot().Messages, 1)
	assert.Empty(t, fb.Memory())
}

func TestRunNotices(t *testing.T) {
	fb := testutil.NewFakeBackend("q", "a")
	defer fb.Close()
	fb.FailWith("/memory", 500)
	fb.FailWith("/clear-memory", 503)
	fb.FailWith("/chat", 502)

	out, session := run(t, fb, "/clear\nhello\n", Options{})

	assert.Contains(t, out, "! Could not load history: Failed to load messages: Server error: 500")
	assert.Contains(t, out, "Failed to clear chat history. Server returned: 503")
	assert.Contains(t, out, "Sorry, I encountered an error")

	msgs := session.Snapshot().Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello", msgs[1].Text)
}

func TestRunThemeAndExport(t *testing.T) {
	fb := testutil.NewFakeBackend()
	defer fb.Close()

	var saved string
	path := filepath.Join(t.TempDir(), "chat.json")
	out, session := run(t, fb, "Pricing Strategy\n/theme\n/export "+path+"\n", Options{
		Server:    "https://ci.example.test",
		SaveTheme: func(theme string) error { saved = theme; return nil },
	})

	assert.Contains(t, out, "Theme: light")
	assert.Equal(t, "light", saved)
	assert.Equal(t, "light", session.Theme())
	assert.Contains(t, out, "Saved to "+path)

	tr, err := storage.LoadTranscript(path)
	require.NoError(t, err)
	assert.Equal(t, "https://ci.example.test", tr.Server)
	assert.Len(t, tr.Messages, 3)
}

func TestRunUnknownCommandAndHelp(t *testing.T) {
	fb := testutil.NewFakeBackend()
	defer fb.Close()

	out, _ := run(t, fb, "/bogus\n/help\n", Options{})

	assert.Contains(t, out, "Unknown command /bogus")
	assert.Contains(t, out, "/search <text>")
	assert.Equal(t, 0, fb.Requests("/chat"))
}

func TestRunStopsWhenCancelled(t *testing.T) {
	fb := testutil.NewFakeBackend()
	defer fb.Close()

	c, err := client.NewClient(fb.URL(), 5*time.Second)
	require.NoError(t, err)
	session := model.NewSession(c, model.Options{Greeting: "Hi"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err = NewRunner(session, strings.NewReader("hello\n"), &out, Options{}).Run(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, fb.Requests("/chat"))
}
