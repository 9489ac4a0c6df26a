package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cichat/config"
)

// Backend is the remote chatbot service.
type Backend interface {
	Memory(ctx context.Context) ([]string, error)
	ClearMemory(ctx context.Context) error
	Chat(ctx context.Context, query string) (string, error)
}

// Pinger is implemented by backends that can report whether they are
// reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Greeting    string
	Theme       string
	Suggestions []string

	// Now stamps new messages. Defaults to time.Now.
	Now func() time.Time
}

// Session owns the transcript and everything drawn around it: the draft
// input, the loading and typing indicators, theme and search state.
//
// LoadHistory, ClearHistory and SendMessage talk to the backend and run one
// at a time. Readers take a Snapshot; writers signal on Changes.
type Session struct {
	backend     Backend
	greeting    string
	suggestions []string
	now         func() time.Time

	opMu sync.Mutex

	mu       sync.RWMutex
	messages []Message
	input    string
	loading  bool
	typing   bool
	theme    string
	search   searchState

	changed chan struct{}
}

// SendResult describes what SendMessage did. Skipped is set when the text
// was blank and nothing happened. Err is the backend failure, already shown
// to the user as Reply.
type SendResult struct {
	Skipped bool
	Reply   Message
	Err     error
}

func NewSession(backend Backend, opts Options) *Session {
	if opts.Greeting == "" {
		opts.Greeting = config.DefaultGreeting
	}
	if opts.Suggestions == nil {
		opts.Suggestions = config.DefaultSuggestions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		backend:     backend,
		greeting:    opts.Greeting,
		suggestions: append([]string{}, opts.Suggestions...),
		now:         opts.Now,
		theme:       config.NormalizeTheme(opts.Theme),
		search:      newSearchState(),
		changed:     make(chan struct{}, 1),
	}
	s.messages = []Message{s.greetingMessage()}

	return s
}

func (s *Session) greetingMessage() Message {
	return Message{Sender: SenderBot, Text: s.greeting, Timestamp: s.now()}
}

// Changes delivers a value after state changes. Bursts coalesce into one.
func (s *Session) Changes() <-chan struct{} {
	return s.changed
}

func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// update runs fn under the state lock, refreshes search results and
// signals a change.
func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	s.search.reindex(s.messages)
	s.mu.Unlock()
	s.notify()
}

// LoadHistory replaces the transcript with the greeting followed by the
// server's history. On failure the transcript is left alone and a *Notice
// is returned.
func (s *Session) LoadHistory(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.update(func() { s.loading = true })
	defer s.update(func() { s.loading = false })

	raw, err := s.backend.Memory(ctx)
	if err != nil {
		config.Log.Error().Err(err).Msg("load history failed")
		return loadNotice(err)
	}
	if len(raw)%2 != 0 {
		config.Log.Warn().Int("entries", len(raw)).Msg("history has an unanswered trailing entry; dropping it")
	}

	history := DecodeHistory(raw, s.now())
	s.update(func() {
		messages := make([]Message, 0, len(history)+1)
		messages = append(messages, s.greetingMessage())
		s.messages = append(messages, history...)
	})

	config.Log.Debug().Int("messages", len(history)).Msg("history loaded")
	return nil
}

// ClearHistory wipes the server history and resets the transcript to the
// greeting. On failure the transcript is left alone and a *Notice is
// returned.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.update(func() { s.loading = true })
	defer s.update(func() { s.loading = false })

	if err := s.backend.ClearMemory(ctx); err != nil {
		config.Log.Error().Err(err).Msg("clear history failed")
		return clearNotice(err)
	}

	s.update(func() {
		s.messages = []Message{s.greetingMessage()}
	})

	config.Log.Debug().Msg("history cleared")
	return nil
}

// Ping checks the backend is reachable. Backends without a health check
// are assumed up.
func (s *Session) Ping(ctx context.Context) error {
	p, ok := s.backend.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		config.Log.Warn().Err(err).Msg("backend unreachable")
		return err
	}
	return nil
}

// SendMessage appends text as a user message, asks the backend and appends
// its answer. Failures become a bot message explaining the error. Blank
// text is ignored.
func (s *Session) SendMessage(ctx context.Context, text string) SendResult {
	if strings.TrimSpace(text) == "" {
		return SendResult{Skipped: true}
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.update(func() {
		s.messages = append(s.messages, Message{Sender: SenderUser, Text: text, Timestamp: s.now()})
		if s.input == text {
			s.input = ""
		}
		s.typing = true
	})
	defer s.update(func() { s.typing = false })

	answer, err := s.backend.Chat(ctx, text)
	reply := Message{Sender: SenderBot, Timestamp: s.now()}
	if err != nil {
		config.Log.Error().Err(err).Msg("send message failed")
		reply.Text = sendErrorText(err)
	} else {
		reply.Text = StripFence(answer)
	}

	s.update(func() {
		s.messages = append(s.messages, reply)
		s.typing = false
	})

	return SendResult{Reply: reply, Err: err}
}

// SendSuggestion sends a suggestion chip as if it had been typed.
func (s *Session) SendSuggestion(ctx context.Context, chip string) SendResult {
	return s.SendMessage(ctx, chip)
}

// Search replaces the query and returns the transcript index of the first
// match, or NoMatch.
func (s *Session) Search(query string) int {
	s.mu.Lock()
	s.search.query = query
	s.search.results = searchMessages(s.messages, query)
	s.search.cursor = NoMatch
	if len(s.search.results) > 0 {
		s.search.cursor = 0
	}
	target := s.search.current()
	s.mu.Unlock()

	s.notify()
	return target
}

// Navigate moves the search cursor with wraparound and returns the new
// target. It does nothing when there are no results.
func (s *Session) Navigate(dir Direction) (int, bool) {
	s.mu.Lock()
	moved := s.search.step(dir)
	target := s.search.current()
	s.mu.Unlock()

	if moved {
		s.notify()
	}
	return target, moved
}

func (s *Session) CloseSearch() {
	s.mu.Lock()
	s.search = newSearchState()
	s.mu.Unlock()
	s.notify()
}

// Matches lists the current search hits with previews.
func (s *Session) Matches() []MessageMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]MessageMatch, 0, len(s.search.results))
	for _, idx := range s.search.results {
		msg := s.messages[idx]
		matches = append(matches, MessageMatch{
			MessageIndex: idx,
			Sender:       msg.Sender,
			Preview:      matchPreview(msg),
		})
	}
	return matches
}

func (s *Session) SetInput(text string) {
	s.mu.Lock()
	changed := s.input != text
	s.input = text
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Session) Input() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// ToggleTheme flips between dark and light and returns the new theme.
func (s *Session) ToggleTheme() string {
	s.mu.Lock()
	if s.theme == config.ThemeLight {
		s.theme = config.ThemeDark
	} else {
		s.theme = config.ThemeLight
	}
	theme := s.theme
	s.mu.Unlock()

	s.notify()
	return theme
}

func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Suggestions returns the chips whose text fuzzily matches the draft input.
func (s *Session) Suggestions() []string {
	return FilterSuggestions(s.suggestions, s.Input())
}

// AllSuggestions returns every configured chip in order.
func (s *Session) AllSuggestions() []string {
	return append([]string{}, s.suggestions...)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Messages: append([]Message{}, s.messages...),
		Input:    s.input,
		Loading:  s.loading,
		Typing:   s.typing,
		Theme:    s.theme,
		Query:    s.search.query,
		Results:  append([]int{}, s.search.results...),
		Cursor:   s.search.cursor,
	}
}

// Snapshot is a consistent copy of session state for rendering.
type Snapshot struct {
	Messages []Message
	Input    string
	Loading  bool
	Typing   bool
	Theme    string
	Query    string
	Results  []int
	Cursor   int
}

// CurrentMatch is the transcript index under the search cursor, or NoMatch.
func (s Snapshot) CurrentMatch() int {
	if s.Cursor < 0 || s.Cursor >= len(s.Results) {
		return NoMatch
	}
	return s.Results[s.Cursor]
}

func (s Snapshot) IsMatch(idx int) bool {
	for _, r := range s.Results {
		if r == idx {
			return true
		}
	}
	return false
}

// SearchActive reports whether a non-blank query is set.
func (s Snapshot) SearchActive() bool {
	return strings.TrimSpace(s.Query) != ""
}

// Counter renders the "n/m" search position, or "0/0".
func (s Snapshot) Counter() string {
	if len(s.Results) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", s.Cursor+1, len(s.Results))
}

// LastReply returns the newest bot message text after the greeting.
func (s Snapshot) LastReply() (string, bool) {
	for i := len(s.Messages) - 1; i > 0; i-- {
		if s.Messages[i].IsBot() {
			return s.Messages[i].Text, true
		}
	}
	return "", false
}
