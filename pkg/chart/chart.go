// Package chart draws horizontal bar charts for the terminal.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultWidth is the length in cells of the longest bar.
const DefaultWidth = 50

const (
	fullBlock = "█"
	halfBlock = "▌"
)

// Render writes a horizontal bar chart with one row per label. Rows keep the
// order given, so ranked input puts the highest count on top like an inverted
// category axis. Each bar is scaled against the largest value.
func Render(w io.Writer, title string, labels []string, values []int, width int) error {
	if len(labels) != len(values) {
		return fmt.Errorf("chart: %d labels but %d values", len(labels), len(values))
	}
	if width <= 0 {
		width = DefaultWidth
	}

	maxValue, labelWidth := 0, 0
	for i, v := range values {
		if v < 0 {
			return errors.New("chart: negative values are not supported")
		}
		maxValue = max(maxValue, v)
		labelWidth = max(labelWidth, utf8.RuneCountInString(labels[i]))
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(title)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("─", max(utf8.RuneCountInString(title), 1)))
		sb.WriteString("\n")
	}

	for i, label := range labels {
		pad := labelWidth - utf8.RuneCountInString(label)
		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteString(label)
		sb.WriteString(" │")
		sb.WriteString(bar(values[i], maxValue, width))
		fmt.Fprintf(&sb, " %d\n", values[i])
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// bar scales value into half-cell resolution.
func bar(value, maxValue, width int) string {
	if maxValue == 0 || value == 0 {
		return ""
	}
	halves := value * width * 2 / maxValue
	if halves == 0 {
		halves = 1 // Keep non-zero values visible
	}
	return strings.Repeat(fullBlock, halves/2) + strings.Repeat(halfBlock, halves%2)
}
