package simpleexcel

import (
	"fmt"
	"strings"

	"github.com/locvowork/calendar_report/pkg/richtext"
	"github.com/xuri/excelize/v2"
)

// StyleTemplate defines basic cell styling.
type StyleTemplate struct {
	Font      *FontTemplate      `yaml:"font"`
	Alignment *AlignmentTemplate `yaml:"alignment"`
}

// AlignmentTemplate is a cell alignment.
type AlignmentTemplate struct {
	Horizontal string `yaml:"horizontal"` // center, left, right
	Vertical   string `yaml:"vertical"`   // top, center, bottom
}

// FontTemplate is the font part of a cell style.
type FontTemplate struct {
	Bold      bool    `yaml:"bold"`
	Italic    bool    `yaml:"italic"`
	Underline bool    `yaml:"underline"`
	Color     string  `yaml:"color"` // Hex color or a name from namedColors
	Size      float64 `yaml:"size"`
}

var namedColors = map[string]string{
	"black":   "000000",
	"white":   "FFFFFF",
	"red":     "FF0000",
	"green":   "008000",
	"blue":    "0000FF",
	"yellow":  "FFFF00",
	"orange":  "FFA500",
	"purple":  "800080",
	"gray":    "808080",
	"grey":    "808080",
	"navy":    "000080",
	"maroon":  "800000",
	"silver":  "C0C0C0",
	"teal":    "008080",
	"cyan":    "00FFFF",
	"magenta": "FF00FF",
}

// resolveColor maps a color name or hex string to RRGGBB. Unknown values yield "".
func resolveColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return ""
	}
	if hex, ok := namedColors[strings.ToLower(c)]; ok {
		return hex
	}
	c = strings.TrimPrefix(c, "#")
	if len(c) != 6 && len(c) != 8 {
		return ""
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return ""
		}
	}
	return strings.ToUpper(c)
}

// FontTemplateFromStyle converts a fragment style to a font template.
// Href has no font representation and is ignored.
func FontTemplateFromStyle(s richtext.Style) *FontTemplate {
	if s.IsZero() {
		return nil
	}
	return &FontTemplate{
		Bold:      s.Bold,
		Italic:    s.Italic,
		Underline: s.Underline,
		Color:     s.Color,
		Size:      float64(s.FontSize),
	}
}

func (t *FontTemplate) toExcelize() *excelize.Font {
	font := &excelize.Font{
		Bold:   t.Bold,
		Italic: t.Italic,
		Color:  resolveColor(t.Color),
		Size:   t.Size,
	}
	if t.Underline {
		font.Underline = "single"
	}
	return font
}

// FormatRegistry owns the format handles of one workbook session.
// Identical requests return the same handle.
type FormatRegistry struct {
	file       *excelize.File
	fontCache  map[richtext.Style]*excelize.Font
	styleCache map[string]int
}

// NewFormatRegistry creates a registry bound to f.
func NewFormatRegistry(f *excelize.File) *FormatRegistry {
	return &FormatRegistry{
		file:       f,
		fontCache:  make(map[richtext.Style]*excelize.Font),
		styleCache: make(map[string]int),
	}
}

// Font returns the run font for style, or nil when style is unstyled.
func (r *FormatRegistry) Font(style richtext.Style) *excelize.Font {
	if style.IsZero() {
		return nil
	}
	if font, ok := r.fontCache[style]; ok {
		return font
	}
	font := FontTemplateFromStyle(style).toExcelize()
	r.fontCache[style] = font
	return font
}

// CellStyle returns the style ID for tmpl, creating it on first use.
func (r *FormatRegistry) CellStyle(tmpl *StyleTemplate) (int, error) {
	if tmpl == nil {
		return 0, nil
	}

	// Generate a unique key for this style
	var sb strings.Builder
	if tmpl.Font != nil {
		fmt.Fprintf(&sb, "f:%v:%v:%v:%s:%g|", tmpl.Font.Bold, tmpl.Font.Italic, tmpl.Font.Underline,
			resolveColor(tmpl.Font.Color), tmpl.Font.Size)
	}
	if tmpl.Alignment != nil {
		fmt.Fprintf(&sb, "a:%s:%s|", tmpl.Alignment.Horizontal, tmpl.Alignment.Vertical)
	}
	key := sb.String()

	if id, ok := r.styleCache[key]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = tmpl.Font.toExcelize()
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: tmpl.Alignment.Horizontal,
			Vertical:   tmpl.Alignment.Vertical,
		}
	}
	id, err := r.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create style %q: %w", key, err)
	}
	r.styleCache[key] = id
	return id, nil
}

// Len returns the number of distinct handles created so far.
func (r *FormatRegistry) Len() int {
	return len(r.fontCache) + len(r.styleCache)
}

func (r *FormatRegistry) release() {
	r.file = nil
	r.fontCache = nil
	r.styleCache = nil
}
