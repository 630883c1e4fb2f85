package simpleexcel

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// WidthMode selects how the rendered width of a cell value is measured.
type WidthMode string

const (
	// WidthModeRunes counts code points.
	WidthModeRunes WidthMode = "runes"
	// WidthModeDisplay counts terminal display cells, so wide CJK runes count 2.
	WidthModeDisplay WidthMode = "display"
)

// ParseWidthMode validates a configured width mode. Empty means runes.
func ParseWidthMode(s string) (WidthMode, error) {
	switch WidthMode(s) {
	case "", WidthModeRunes:
		return WidthModeRunes, nil
	case WidthModeDisplay:
		return WidthModeDisplay, nil
	}
	return "", fmt.Errorf("unknown width mode %q", s)
}

func (m WidthMode) measure(s string) int {
	if m == WidthModeDisplay {
		return runewidth.StringWidth(s)
	}
	return utf8.RuneCountInString(s)
}

// ColumnWidthTracker keeps the widest observed value per tracked column.
// Widths only grow.
type ColumnWidthTracker struct {
	widths  []int
	tracked []bool
	padding int
	mode    WidthMode
}

// NewColumnWidthTracker creates a tracker for len(tracked) columns;
// tracked[i] false leaves column i at the writer's default width.
func NewColumnWidthTracker(tracked []bool, padding int, mode WidthMode) *ColumnWidthTracker {
	t := make([]bool, len(tracked))
	copy(t, tracked)
	return &ColumnWidthTracker{
		widths:  make([]int, len(tracked)),
		tracked: t,
		padding: padding,
		mode:    mode,
	}
}

// Observe records text as a value rendered in column col.
// Untracked and out-of-range columns are ignored.
func (t *ColumnWidthTracker) Observe(col int, text string) {
	if col < 0 || col >= len(t.widths) || !t.tracked[col] {
		return
	}
	if w := t.mode.measure(text); w > t.widths[col] {
		t.widths[col] = w
	}
}

// Width returns the largest width observed so far in col.
func (t *ColumnWidthTracker) Width(col int) int {
	if col < 0 || col >= len(t.widths) {
		return 0
	}
	return t.widths[col]
}

// ColumnWidth is the final width of one column.
type ColumnWidth struct {
	Col   int // 0-based
	Width float64
}

// Finalize returns the padded width of every tracked column.
func (t *ColumnWidthTracker) Finalize() []ColumnWidth {
	var out []ColumnWidth
	for i, w := range t.widths {
		if !t.tracked[i] {
			continue
		}
		out = append(out, ColumnWidth{Col: i, Width: float64(w + t.padding)})
	}
	return out
}
