package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"cichat/config"
	"cichat/model"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const codeBar = "┃"

func renderKey(width int, text string) string {
	return fmt.Sprintf("%d\x00%s", width, text)
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	var content strings.Builder
	for i, msg := range a.snap.Messages {
		content.WriteString(a.renderMessageBlock(i, msg))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderMessageBlock renders one transcript entry including its trailing
// blank line. Matches of an active search are drawn from the raw text so
// the marks line up with what was searched.
func (a *AppView) renderMessageBlock(idx int, msg model.Message) string {
	highlightPrefix := ""
	if idx == a.highlightedMessageIdx && a.highlightFlashCount%2 == 1 {
		highlightPrefix = HighlightStyle.Render(">>> ")
	}

	timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

	var body string
	switch {
	case a.snap.SearchActive() && a.snap.IsMatch(idx):
		body = highlightText(msg.Text, a.snap.Query, idx == a.snap.CurrentMatch())
		body = lipgloss.NewStyle().Width(max(a.width-4, 10)).Render(body)
	case a.rendered[renderKey(a.width, msg.Text)] != "":
		body = a.rendered[renderKey(a.width, msg.Text)]
	default:
		body = lipgloss.NewStyle().Width(max(a.width-4, 10)).Render(msg.Text)
	}

	if msg.IsUser() {
		return formatUserMessage(highlightPrefix, timestamp, UserStyle.Render("You"), body)
	}
	return fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, AssistantStyle.Render("Advisor"), body)
}

// messageOffset is the viewport line where message idx starts.
func (a *AppView) messageOffset(idx int) int {
	offset := 0
	for i := 0; i < idx && i < len(a.snap.Messages); i++ {
		offset += strings.Count(a.renderMessageBlock(i, a.snap.Messages[i]), "\n")
	}
	return offset
}

// scrollToMessage centers message idx in the viewport and starts the
// highlight flash.
func (a *AppView) scrollToMessage(idx int) tea.Cmd {
	if idx < 0 || idx >= len(a.snap.Messages) {
		return nil
	}

	a.highlightedMessageIdx = idx
	a.highlightFlashCount = 1
	a.updateViewportContent(false)

	viewportHeight := a.viewport.Height
	centerOffset := max(a.messageOffset(idx)-(viewportHeight/2), 0)
	totalLines := a.viewport.TotalLineCount()
	if centerOffset > totalLines-viewportHeight {
		centerOffset = max(totalLines-viewportHeight, 0)
	}
	a.viewport.SetYOffset(centerOffset)

	return flashTick()
}

func flashTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return model.FlashTickMsg{}
	})
}

// highlightText paints every occurrence of query in text.
func highlightText(text, query string, current bool) string {
	mark := MarkStyle
	if current {
		mark = CurrentMarkStyle
	}

	var b strings.Builder
	for _, seg := range model.Highlight(text, query) {
		if seg.Match {
			b.WriteString(mark.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	bar := UserStyle.Render("┃")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", highlightPrefix, bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// renderPending starts markdown rendering for messages not yet cached,
// newest first since the viewport shows the bottom.
func (a *AppView) renderPending() tea.Cmd {
	var cmds []tea.Cmd
	for i := len(a.snap.Messages) - 1; i >= 0; i-- {
		k := renderKey(a.width, a.snap.Messages[i].Text)
		if _, done := a.rendered[k]; done || a.pending[k] {
			continue
		}
		a.pending[k] = true
		cmds = append(cmds, renderMarkdownAsync(k, a.snap.Messages[i].Text, a.width))
	}
	return tea.Batch(cmds...)
}

func renderMarkdownAsync(key, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		config.Log.Debug().
			Int("chars", len(content)).
			Dur("elapsed", time.Since(start)).
			Msg("markdown rendered")

		return model.MarkdownRenderedMsg{Key: key, Rendered: rendered}
	}
}

func renderMarkdown(content string, width int) string {
	// [text](url) -> url so every link shows as a plain colored URL
	content = preprocessLinks(content)

	// Autolink off: leave URL detection to the terminal
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(max(width-4, 10), 0)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, r)

	return strings.TrimRight(postProcessMarkdown(string(rendered), width), "\n")
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = fixMarkdownLinks(rendered)
	return frameCodeBlocks(rendered, width)
}

func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps the renderer's blue-background inline code for red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// code block lines keep their own colors
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}
	return strings.Join(lines, "\n")
}

func codeBorder(width int, label string) string {
	darkGray := "\x1b[90m"
	reset := "\x1b[0m"

	lineLen := max(width-4, len(label))
	if label == "" {
		return darkGray + strings.Repeat("━", lineLen) + reset
	}
	leftLen := (lineLen - len(label)) / 2
	rightLen := lineLen - len(label) - leftLen
	return darkGray + strings.Repeat("━", leftLen) + reset + label + darkGray + strings.Repeat("━", rightLen) + reset
}

// frameCodeBlocks replaces the renderer's ┃ gutter with horizontal borders
// above and below each code block.
func frameCodeBlocks(s string, width int) string {
	var result []string
	inCodeBlock := false

	closeBlock := func() {
		result = append(result, "", codeBorder(width, ""), "")
		inCodeBlock = false
	}

	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				result = append(result, "", codeBorder(width, "[code]"), "")
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}
		if inCodeBlock {
			closeBlock()
		}
		result = append(result, line)
	}
	if inCodeBlock {
		closeBlock()
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}
