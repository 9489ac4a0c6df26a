// Package plain is a line-oriented front end for pipes and terminals that
// cannot host the full-screen UI. Each input line is sent as a message;
// lines starting with a slash are commands.
package plain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"

	"cichat/config"
	"cichat/model"
)

type Options struct {
	// Server is recorded in exported transcripts.
	Server string

	// Markdown renders bot replies for a terminal. Off, replies print as sent.
	Markdown bool
	Width    int

	// SaveTheme persists a theme change. Optional.
	SaveTheme func(theme string) error
}

type Runner struct {
	session *model.Session
	in      *bufio.Scanner
	out     io.Writer
	opts    Options
}

func NewRunner(session *model.Session, in io.Reader, out io.Writer, opts Options) *Runner {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Runner{
		session: session,
		in:      scanner,
		out:     out,
		opts:    opts,
	}
}

var errQuit = errors.New("quit")

// Run loads history, prints the transcript and then serves input lines
// until EOF, /quit or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.load(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}

		if err := r.handleLine(ctx, r.in.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

func (r *Runner) handleLine(ctx context.Context, line string) error {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		r.send(ctx, line)
		return nil
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return errQuit
	case "/help":
		r.printHelp()
	case "/load":
		r.load(ctx)
	case "/clear":
		r.clear(ctx)
	case "/search":
		r.search(arg)
	case "/next":
		r.navigate(model.Next)
	case "/prev":
		r.navigate(model.Prev)
	case "/theme":
		r.toggleTheme()
	case "/chips":
		r.printChips()
	case "/chip":
		r.sendChip(ctx, arg)
	case "/export":
		r.export(arg)
	default:
		fmt.Fprintf(r.out, "Unknown command %s. Type /help for the list.\n", cmd)
	}
	return nil
}

func (r *Runner) load(ctx context.Context) {
	fmt.Fprintln(r.out, "Loading...")
	if err := r.session.LoadHistory(ctx); err != nil {
		r.printNotice(err)
		return
	}
	for _, msg := range r.session.Snapshot().Messages {
		r.printMessage(msg)
	}
}

func (r *Runner) clear(ctx context.Context) {
	if err := r.session.ClearHistory(ctx); err != nil {
		r.printNotice(err)
		return
	}
	fmt.Fprintln(r.out, "History cleared.")
	for _, msg := range r.session.Snapshot().Messages {
		r.printMessage(msg)
	}
}

func (r *Runner) send(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintln(r.out, "Advisor is typing...")
	res := r.session.SendMessage(ctx, text)
	if res.Skipped {
		return
	}
	r.printMessage(res.Reply)
}

func (r *Runner) sendChip(ctx context.Context, arg string) {
	chips := r.session.Suggestions()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(chips) {
		fmt.Fprintf(r.out, "Pick a suggestion between 1 and %d.\n", len(chips))
		return
	}

	chip := chips[n-1]
	fmt.Fprintf(r.out, "You: %s\n", chip)
	fmt.Fprintln(r.out, "Advisor is typing...")
	r.printMessage(r.session.SendSuggestion(ctx, chip).Reply)
}

func (r *Runner) search(query string) {
	target := r.session.Search(query)
	snap := r.session.Snapshot()
	if target == model.NoMatch {
		fmt.Fprintf(r.out, "No matches for %q (%s)\n", query, snap.Counter())
		return
	}

	fmt.Fprintf(r.out, "%d matches for %q\n", len(snap.Results), query)
	for i, m := range r.session.Matches() {
		marker := " "
		if i == snap.Cursor {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s #%d %s: %s\n", marker, m.MessageIndex, senderLabel(m.Sender), m.Preview)
	}
}

func (r *Runner) navigate(dir model.Direction) {
	target, ok := r.session.Navigate(dir)
	if !ok {
		fmt.Fprintln(r.out, "No search results. Use /search <text> first.")
		return
	}

	snap := r.session.Snapshot()
	fmt.Fprintf(r.out, "[%s] #%d\n", snap.Counter(), target)
	r.printMessage(snap.Messages[target])
}

func (r *Runner) toggleTheme() {
	theme := r.session.ToggleTheme()
	fmt.Fprintf(r.out, "Theme: %s\n", theme)
	if r.opts.SaveTheme == nil {
		return
	}
	if err := r.opts.SaveTheme(theme); err != nil {
		config.Log.Error().Err(err).Str("theme", theme).Msg("saving theme failed")
		fmt.Fprintf(r.out, "Theme not saved: %v\n", err)
	}
}

func (r *Runner) printChips() {
	for i, chip := range r.session.Suggestions() {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, chip)
	}
}

func (r *Runner) export(path string) {
	written, err := r.session.ExportTranscript(r.opts.Server, path)
	if err != nil {
		fmt.Fprintf(r.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "Saved to %s\n", written)
}

func (r *Runner) printNotice(err error) {
	var notice *model.Notice
	if errors.As(err, &notice) {
		fmt.Fprintf(r.out, "! %s: %s\n", notice.Title, notice.Message)
		return
	}
	fmt.Fprintf(r.out, "! %v\n", err)
}

func (r *Runner) printMessage(msg model.Message) {
	stamp := msg.Timestamp.Format("15:04")
	if msg.IsUser() {
		fmt.Fprintf(r.out, "[%s] You: %s\n", stamp, msg.Text)
		return
	}

	text := msg.Text
	if r.opts.Markdown {
		text = strings.TrimRight(string(markdown.Render(text, r.opts.Width, 0)), "\n")
	}
	fmt.Fprintf(r.out, "[%s] Advisor: %s\n", stamp, text)
}

func (r *Runner) printHelp() {
	fmt.Fprint(r.out, `Type a question and press Enter to send it.
  /load          reload history from the server
  /clear         clear the server-side history
  /search <text> find messages containing text
  /next, /prev   step through search results
  /chips         list suggestions
  /chip <n>      send suggestion n
  /theme         toggle dark/light
  /export [path] save the transcript as JSON
  /quit          leave
`)
}

func senderLabel(sender model.Sender) string {
	if sender == model.SenderUser {
		return "You"
	}
	return "Advisor"
}
