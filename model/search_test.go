package model

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cichat/storage"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Competitor X is ```", "Competitor X is "},
		{"no fence", "no fence"},
		{"```go\ncode\n``````", "```go\ncode\n```"},
		{"```leading only", "```leading only"},
		{"fence ``` in the middle", "fence ``` in the middle"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFence(tt.in), "input %q", tt.in)
	}
}

func TestDecodeHistory(t *testing.T) {
	got := DecodeHistory([]string{"ask ```", "answer ```", "dangling"}, fixedNow)

	require.Len(t, got, 2)
	assert.Equal(t, Message{Sender: SenderUser, Text: "ask ```", Timestamp: fixedNow}, got[0])
	assert.Equal(t, Message{Sender: SenderBot, Text: "answer ", Timestamp: fixedNow}, got[1])

	assert.Empty(t, DecodeHistory(nil, fixedNow))
	assert.Empty(t, DecodeHistory([]string{"only"}, fixedNow))
}

func searchSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(&mockBackend{memory: []string{"hi", "HELLO again"}}, Options{Greeting: "Hello there"})
	require.NoError(t, s.LoadHistory(context.Background()))
	return s
}

func TestSearchAndNavigate(t *testing.T) {
	s := searchSession(t)

	assert.Equal(t, 0, s.Search("hello"))
	snap := s.Snapshot()
	assert.Equal(t, []int{0, 2}, snap.Results)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, "1/2", snap.Counter())

	target, ok := s.Navigate(Next)
	assert.True(t, ok)
	assert.Equal(t, 2, target)

	target, _ = s.Navigate(Next)
	assert.Equal(t, 0, target, "next wraps to the first result")

	target, _ = s.Navigate(Prev)
	assert.Equal(t, 2, target, "prev wraps to the last result")
	assert.Equal(t, "2/2", s.Snapshot().Counter())
}

func TestSearchNoResults(t *testing.T) {
	s := searchSession(t)

	for _, q := range []string{"", "   ", "zebra"} {
		assert.Equal(t, NoMatch, s.Search(q))
		snap := s.Snapshot()
		assert.Empty(t, snap.Results)
		assert.Equal(t, NoMatch, snap.Cursor)
		assert.Equal(t, "0/0", snap.Counter())

		_, ok := s.Navigate(Next)
		assert.False(t, ok)
		assert.Equal(t, NoMatch, s.Snapshot().Cursor)
	}
}

func TestSearchIsLiteral(t *testing.T) {
	s := NewSession(&mockBackend{reply: "price (USD) is 4.5"}, Options{Greeting: "Hi"})
	s.SendMessage(context.Background(), "what is 4x5?")

	assert.Equal(t, NoMatch, s.Search("4.5?"))
	assert.Equal(t, 2, s.Search("(usd)"))
	assert.Equal(t, []int{2}, s.Snapshot().Results)
}

func TestSearchRecomputedOnTranscriptChange(t *testing.T) {
	backend := &mockBackend{reply: "Competitor X leads", memory: []string{}}
	s := NewSession(backend, Options{Greeting: "Hi"})
	ctx := context.Background()

	s.Search("competitor")
	assert.Empty(t, s.Snapshot().Results)

	s.SendMessage(ctx, "Analyze Competitor X")
	snap := s.Snapshot()
	assert.Equal(t, []int{1, 2}, snap.Results)

	s.Navigate(Prev)
	assert.Equal(t, 1, s.Snapshot().Cursor)

	require.NoError(t, s.ClearHistory(ctx))
	snap = s.Snapshot()
	assert.Equal(t, "competitor", snap.Query)
	assert.Empty(t, snap.Results)
	assert.Equal(t, NoMatch, snap.Cursor)
}

func TestCloseSearch(t *testing.T) {
	s := searchSession(t)
	s.Search("hello")

	s.CloseSearch()

	snap := s.Snapshot()
	assert.False(t, snap.SearchActive())
	assert.Empty(t, snap.Results)
	assert.Equal(t, NoMatch, snap.CurrentMatch())
}

func TestMatchesPreview(t *testing.T) {
	long := strings.Repeat("market ", 40)
	s := NewSession(&mockBackend{memory: []string{"market?", long}}, Options{Greeting: "Hi"})
	require.NoError(t, s.LoadHistory(context.Background()))
	s.Search("MARKET")

	matches := s.Matches()
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].MessageIndex)
	assert.Equal(t, SenderUser, matches[0].Sender)
	assert.Equal(t, "market?", matches[0].Preview)
	assert.True(t, strings.HasSuffix(matches[1].Preview, "..."))
	assert.LessOrEqual(t, len(matches[1].Preview), 100)
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  []Segment
	}{
		{
			name:  "case insensitive",
			text:  "Hello hello HELLO",
			query: "hello",
			want: []Segment{
				{Text: "Hello", Match: true},
				{Text: " "},
				{Text: "hello", Match: true},
				{Text: " "},
				{Text: "HELLO", Match: true},
			},
		},
		{
			name:  "regex characters are literal",
			text:  "a.b a*b",
			query: "a*b",
			want:  []Segment{{Text: "a.b "}, {Text: "a*b", Match: true}},
		},
		{
			name:  "blank query",
			text:  "anything",
			query: "  ",
			want:  []Segment{{Text: "anything"}},
		},
		{
			name:  "no match",
			text:  "anything",
			query: "zzz",
			want:  []Segment{{Text: "anything"}},
		},
		{
			name:  "unicode",
			text:  "Straße und STRASSE",
			query: "straße",
			want:  []Segment{{Text: "Straße", Match: true}, {Text: " und STRASSE"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Highlight(tt.text, tt.query)
			assert.Equal(t, tt.want, got)

			var joined strings.Builder
			for _, seg := range got {
				joined.WriteString(seg.Text)
			}
			assert.Equal(t, tt.text, joined.String())
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("SWOT Analysis", "swot"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("short", "shorter"))
	assert.True(t, ContainsFold("ÉCOLE", "école"))
}

func TestFilterSuggestions(t *testing.T) {
	chips := []string{"Analyze Competitor X", "Market Trends", "SWOT Analysis", "Pricing Strategy"}

	assert.Equal(t, chips, FilterSuggestions(chips, ""))
	assert.Equal(t, chips, FilterSuggestions(chips, "qqqq"))

	got := FilterSuggestions(chips, "swot")
	require.NotEmpty(t, got)
	assert.Equal(t, "SWOT Analysis", got[0])
}

func TestExportTranscript(t *testing.T) {
	s := NewSession(&mockBackend{reply: "ok"}, Options{Greeting: "Hi", Now: func() time.Time { return fixedNow }})
	s.SendMessage(context.Background(), "Pricing Strategy")
	path := filepath.Join(t.TempDir(), "out.json")

	written, err := s.ExportTranscript("https://example.test", path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	tr, err := storage.LoadTranscript(path)
	require.NoError(t, err)
	assert.Equal(t, "Pricing Strategy", tr.Name)
	assert.Equal(t, "https://example.test", tr.Server)
	require.Len(t, tr.Messages, 3)
	assert.Equal(t, "user", tr.Messages[1].Sender)
	assert.Equal(t, "ok", tr.Messages[2].Text)
}

func TestFormatConversation(t *testing.T) {
	got := FormatConversation([]Message{
		{Sender: SenderBot, Text: "Hi", Timestamp: fixedNow},
		{Sender: SenderUser, Text: "Market Trends", Timestamp: fixedNow},
	})

	assert.Equal(t, "[09:30] Advisor:\nHi\n\n[09:30] You:\nMarket Trends\n\n", got)
}

func TestSearchCursorResetWhenResultsShrink(t *testing.T) {
	s := searchSession(t)
	s.Search("h")
	require.Equal(t, []int{0, 1, 2}, s.Snapshot().Results)

	target, _ := s.Navigate(Prev)
	require.Equal(t, 2, target)

	require.NoError(t, s.ClearHistory(context.Background()))
	snap := s.Snapshot()
	assert.Equal(t, []int{0}, snap.Results)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, "1/1", snap.Counter())
}
