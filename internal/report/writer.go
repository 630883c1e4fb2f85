package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/locvowork/calendar_report/internal/domain"
	"github.com/locvowork/calendar_report/internal/logger"
	"github.com/locvowork/calendar_report/pkg/richtext"
	"github.com/locvowork/calendar_report/pkg/simpleexcel"
)

// Writer lays events out as one spreadsheet row each, sorted by start time.
type Writer struct {
	layout    *simpleexcel.ReportLayout
	renderer  *richtext.Renderer
	widthMode simpleexcel.WidthMode
}

// Option configures a Writer.
type Option func(*Writer)

// WithLayout replaces the default events layout.
func WithLayout(l *simpleexcel.ReportLayout) Option {
	return func(w *Writer) {
		if l != nil {
			w.layout = l
		}
	}
}

// WithRenderer sets the renderer used for descriptions.
func WithRenderer(r *richtext.Renderer) Option {
	return func(w *Writer) {
		if r != nil {
			w.renderer = r
		}
	}
}

// WithWidthMode sets how column widths are measured.
func WithWidthMode(m simpleexcel.WidthMode) Option {
	return func(w *Writer) {
		w.widthMode = m
	}
}

func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		layout:    simpleexcel.DefaultLayout(),
		renderer:  richtext.NewRenderer(),
		widthMode: simpleexcel.WidthModeRunes,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ domain.ReportWriter = (*Writer)(nil)

// SortEvents returns a copy of events ordered by Start. Equal starts keep
// their input order.
func SortEvents(events []domain.Event) []domain.Event {
	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}

// Build renders events into a new workbook. The caller owns the result and
// must Close it.
func (w *Writer) Build(ctx context.Context, events []domain.Event) (*simpleexcel.Workbook, error) {
	wb, err := simpleexcel.NewWorkbook(w.layout.SheetName, w.layout.Alignment)
	if err != nil {
		return nil, err
	}
	if err := w.fill(ctx, wb, SortEvents(events)); err != nil {
		wb.Close()
		return nil, err
	}
	return wb, nil
}

func (w *Writer) fill(ctx context.Context, wb *simpleexcel.Workbook, events []domain.Event) error {
	if err := wb.WriteHeader(w.layout.Headers()); err != nil {
		return err
	}

	tracked := make([]bool, len(w.layout.Columns))
	for i, col := range w.layout.Columns {
		tracked[i] = col.TrackWidth
	}
	widths := simpleexcel.NewColumnWidthTracker(tracked, w.layout.WidthPadding, w.widthMode)

	for i, ev := range events {
		row := i + 1
		for col, c := range w.layout.Columns {
			cell := wb.Cell(col, row)
			text, err := w.writeField(cell, c.Field, ev)
			if err != nil {
				return fmt.Errorf("row %d, %s: %w", row, c.Header, err)
			}
			if n := utf8.RuneCountInString(text); n > simpleexcel.MaxCellChars {
				logger.WarnLog(ctx, "row %d, %s: %d characters cut to %d", row, c.Header, n, simpleexcel.MaxCellChars)
			}
			widths.Observe(col, text)
		}
		logger.DebugLog(ctx, "wrote row %d: %q", row, ev.Summary)
	}

	return wb.ApplyColumnWidths(widths.Finalize())
}

// writeField writes one field of ev and returns its rendered text.
func (w *Writer) writeField(cell *simpleexcel.Cell, field string, ev domain.Event) (string, error) {
	var text string
	switch field {
	case simpleexcel.FieldDate:
		text = ev.Date().Format(w.layout.DateFormat)
	case simpleexcel.FieldSummary:
		text = ev.Summary
	case simpleexcel.FieldStart:
		text = ev.Start.Format(w.layout.TimestampFormat)
	case simpleexcel.FieldEnd:
		text = ev.End.Format(w.layout.TimestampFormat)
	case simpleexcel.FieldDescription:
		var fragments []richtext.Fragment
		if ev.HasDescription {
			fragments = w.renderer.Render(ev.Description)
		} else {
			fragments = w.renderer.Render("")
		}
		return richtext.PlainText(fragments), richtext.Assemble(fragments, cell)
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}
	return text, cell.WritePlain(text)
}

// WriteTo builds the report and serializes it to out.
func (w *Writer) WriteTo(ctx context.Context, events []domain.Event, out io.Writer) error {
	wb, err := w.Build(ctx, events)
	if err != nil {
		return err
	}
	defer wb.Close()
	_, err = wb.WriteTo(out)
	return err
}

// Write builds the report and saves it to path. Nothing is written to path
// unless the whole report succeeds.
func (w *Writer) Write(ctx context.Context, events []domain.Event, path string) error {
	wb, err := w.Build(ctx, events)
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := wb.SaveAs(path); err != nil {
		return err
	}
	logger.InfoLog(ctx, "wrote %d events to %s", len(events), path)
	return nil
}
