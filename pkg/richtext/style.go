package richtext

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// HyperlinkColor is the fixed color used for every hyperlink fragment.
	HyperlinkColor = "blue"
)

// Style is the attribute set carried by a fragment.
// The zero value means "no attributes"; it is comparable and safe to use as a map key.
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Href      string // set for hyperlink fragments
	Color     string // color name, e.g. "blue"
	FontSize  int    // points, 0 means unset
}

// IsZero reports whether s carries no attributes.
func (s Style) IsZero() bool {
	return s == Style{}
}

func (s Style) String() string {
	var parts []string
	if s.Bold {
		parts = append(parts, "bold")
	}
	if s.Italic {
		parts = append(parts, "italic")
	}
	if s.Underline {
		parts = append(parts, "underline")
	}
	if s.Href != "" {
		parts = append(parts, fmt.Sprintf("href=%s", s.Href))
	}
	if s.Color != "" {
		parts = append(parts, fmt.Sprintf("color=%s", s.Color))
	}
	if s.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("size=%d", s.FontSize))
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, "+")
}

// Merge returns the union of outer and inner. Boolean attributes are OR-ed,
// scalar attributes set on inner override those on outer.
func Merge(outer, inner Style) Style {
	out := outer
	out.Bold = outer.Bold || inner.Bold
	out.Italic = outer.Italic || inner.Italic
	out.Underline = outer.Underline || inner.Underline
	if inner.Href != "" {
		out.Href = inner.Href
	}
	if inner.Color != "" {
		out.Color = inner.Color
	}
	if inner.FontSize > 0 {
		out.FontSize = inner.FontSize
	}
	return out
}

// Single-attribute styles of <b>, <i> and <u>.
var (
	BoldStyle      = Style{Bold: true}
	ItalicStyle    = Style{Italic: true}
	UnderlineStyle = Style{Underline: true}
)

// HyperlinkStyle is the fixed presentation of a link: underlined and blue.
func HyperlinkStyle(href string) Style {
	return Style{Underline: true, Color: HyperlinkColor, Href: href}
}

// FontSizeStyle parses a <font size> attribute value.
// It returns false when the value is absent, not an integer, or not positive.
func FontSizeStyle(raw string) (Style, bool) {
	if raw == "" {
		return Style{}, false
	}
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || size <= 0 {
		return Style{}, false
	}
	return Style{FontSize: size}, true
}
