package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cichat/config"
)

const maxChips = 4

// renderChips lays out numbered suggestion chips on one line, shrinking
// labels until they fit width. Chips that still do not fit are dropped
// from the end.
func renderChips(chips []string, kb *config.KeyBindingsConfig, width int) string {
	if len(chips) > maxChips {
		chips = chips[:maxChips]
	}
	if len(chips) == 0 || width <= 0 {
		return ""
	}

	labelWidth := 0
	for _, chip := range chips {
		labelWidth = max(labelWidth, runewidth.StringWidth(chip))
	}

	for ; labelWidth >= 4; labelWidth-- {
		line := chipLine(chips, kb, labelWidth)
		if lipgloss.Width(line) <= width {
			return line
		}
	}
	for n := len(chips) - 1; n > 0; n-- {
		if line := chipLine(chips[:n], kb, 4); lipgloss.Width(line) <= width {
			return line
		}
	}
	return ""
}

func chipLine(chips []string, kb *config.KeyBindingsConfig, labelWidth int) string {
	parts := make([]string, len(chips))
	for i, chip := range chips {
		label := runewidth.Truncate(chip, labelWidth, "…")
		keyHint := DimStyle.Render(chipKeyHint(kb, i))
		parts[i] = ChipStyle.Render(keyHint + " " + label)
	}
	return strings.Join(parts, " ")
}

func chipKeyHint(kb *config.KeyBindingsConfig, idx int) string {
	if kb == nil {
		return fmt.Sprintf("%d", idx+1)
	}
	return kb.DisplayActionKey(fmt.Sprintf("chip_%d", idx+1))
}
