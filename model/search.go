package model

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// NoMatch is the cursor value when there is no current search result.
const NoMatch = -1

const previewWidth = 100

type Direction int

const (
	Next Direction = iota
	Prev
)

// MessageMatch is one search hit, with a short preview for list views.
type MessageMatch struct {
	MessageIndex int
	Sender       Sender
	Preview      string
}

// Segment is a piece of message text. Match segments are occurrences of the
// search query and are drawn highlighted.
type Segment struct {
	Text  string
	Match bool
}

type searchState struct {
	query   string
	results []int
	cursor  int
}

func newSearchState() searchState {
	return searchState{cursor: NoMatch}
}

// reindex recomputes results against the transcript. The cursor is kept
// when still in range and reset to the first result otherwise; with no
// cursor yet, the next Navigate picks the first or last result.
func (s *searchState) reindex(messages []Message) {
	s.results = searchMessages(messages, s.query)
	switch {
	case len(s.results) == 0:
		s.cursor = NoMatch
	case s.cursor >= len(s.results):
		s.cursor = 0
	}
}

func (s *searchState) current() int {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return NoMatch
	}
	return s.results[s.cursor]
}

func (s *searchState) step(dir Direction) bool {
	n := len(s.results)
	if n == 0 {
		return false
	}
	switch {
	case s.cursor < 0 && dir == Prev:
		s.cursor = n - 1
	case s.cursor < 0:
		s.cursor = 0
	case dir == Prev:
		s.cursor = (s.cursor - 1 + n) % n
	default:
		s.cursor = (s.cursor + 1) % n
	}
	return true
}

// searchMessages returns the ascending transcript indices whose text
// contains query, ignoring case. A blank query matches nothing.
func searchMessages(messages []Message, query string) []int {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	var results []int
	for i, msg := range messages {
		if ContainsFold(msg.Text, query) {
			results = append(results, i)
		}
	}
	return results
}

// ContainsFold reports whether substr occurs in s under Unicode case folding.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	for i := 0; i < len(s); {
		if end := foldPrefix(s, i, substr); end >= 0 {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return false
}

// foldPrefix returns the end offset of substr matched at s[start:], or -1.
func foldPrefix(s string, start int, substr string) int {
	end := start
	for n := utf8.RuneCountInString(substr); n > 0; n-- {
		if end >= len(s) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	if strings.EqualFold(s[start:end], substr) {
		return end
	}
	return -1
}

// Highlight splits text into plain and matching segments. Query is taken
// literally and compared without case. Joining the segment texts always
// gives back text.
func Highlight(text, query string) []Segment {
	if text == "" {
		return nil
	}
	if strings.TrimSpace(query) == "" {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	last := 0
	for i := 0; i < len(text); {
		if end := foldPrefix(text, i, query); end >= 0 {
			if i > last {
				segments = append(segments, Segment{Text: text[last:i]})
			}
			segments = append(segments, Segment{Text: text[i:end], Match: true})
			i, last = end, end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

func matchPreview(msg Message) string {
	preview := strings.Join(strings.Fields(msg.Text), " ")
	return runewidth.Truncate(preview, previewWidth, "...")
}
