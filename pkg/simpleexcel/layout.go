package simpleexcel

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Field identifiers understood by the report writer.
const (
	FieldDate        = "date"
	FieldSummary     = "summary"
	FieldDescription = "description"
	FieldStart       = "dtstart"
	FieldEnd         = "dtend"
)

//go:embed default_layout.yaml
var defaultLayoutYAML string

// ReportLayout represents the YAML structure of a report sheet.
type ReportLayout struct {
	SheetName       string             `yaml:"sheet_name"`
	DateFormat      string             `yaml:"date_format"`      // Go time layout
	TimestampFormat string             `yaml:"timestamp_format"` // Go time layout
	WidthPadding    int                `yaml:"width_padding"`
	Alignment       *AlignmentTemplate `yaml:"alignment"`
	Columns         []ColumnLayout     `yaml:"columns"`
}

// ColumnLayout defines one column of the report.
type ColumnLayout struct {
	Field      string `yaml:"field"`
	Header     string `yaml:"header"`
	TrackWidth bool   `yaml:"track_width"` // width = longest value + padding
}

// Headers returns the header labels in column order.
func (l *ReportLayout) Headers() []string {
	headers := make([]string, len(l.Columns))
	for i, col := range l.Columns {
		headers[i] = col.Header
	}
	return headers
}

// ColumnIndex returns the 0-based index of field, or -1.
func (l *ReportLayout) ColumnIndex(field string) int {
	for i, col := range l.Columns {
		if col.Field == field {
			return i
		}
	}
	return -1
}

// Validate checks that the layout is usable.
func (l *ReportLayout) Validate() error {
	if l.SheetName == "" {
		return fmt.Errorf("layout: sheet_name is empty")
	}
	if l.DateFormat == "" || l.TimestampFormat == "" {
		return fmt.Errorf("layout: date_format and timestamp_format are required")
	}
	if l.WidthPadding < 0 {
		return fmt.Errorf("layout: width_padding must not be negative")
	}
	seen := make(map[string]bool)
	for _, col := range l.Columns {
		switch col.Field {
		case FieldDate, FieldSummary, FieldDescription, FieldStart, FieldEnd:
		default:
			return fmt.Errorf("layout: unknown field %q", col.Field)
		}
		if seen[col.Field] {
			return fmt.Errorf("layout: duplicate field %q", col.Field)
		}
		seen[col.Field] = true
	}
	if len(l.Columns) == 0 {
		return fmt.Errorf("layout: no columns")
	}
	return nil
}

// ParseLayout decodes a layout from YAML.
func ParseLayout(yamlConfig string) (*ReportLayout, error) {
	if yamlConfig == "" {
		return nil, fmt.Errorf("yaml config is empty")
	}
	var layout ReportLayout
	if err := yaml.Unmarshal([]byte(yamlConfig), &layout); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

// LoadLayoutFile reads a layout from a YAML file.
func LoadLayoutFile(path string) (*ReportLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	return ParseLayout(string(data))
}

// DefaultLayout returns the built-in events layout.
func DefaultLayout() *ReportLayout {
	layout, err := ParseLayout(defaultLayoutYAML)
	if err != nil {
		panic(fmt.Sprintf("simpleexcel: embedded layout is invalid: %v", err))
	}
	return layout
}
