package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/locvowork/calendar_report/pkg/richtext"
	"github.com/xuri/excelize/v2"
)

// MaxCellChars is the most characters a cell holds. Longer values are cut.
const MaxCellChars = excelize.TotalCellChars

// Workbook is one single-sheet output session. Format handles created through
// it live until Close.
type Workbook struct {
	file     *excelize.File
	sheet    string
	formats  *FormatRegistry
	baseTmpl *StyleTemplate

	colNameCache map[int]string
}

// NewWorkbook starts a session with one sheet named sheet. Every cell written
// through Cell gets the alignment in base.
func NewWorkbook(sheet string, base *AlignmentTemplate) (*Workbook, error) {
	f := excelize.NewFile()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}
	wb := &Workbook{
		file:         f,
		sheet:        sheet,
		formats:      NewFormatRegistry(f),
		colNameCache: make(map[int]string),
	}
	if base != nil {
		wb.baseTmpl = &StyleTemplate{Alignment: base}
	}
	return wb, nil
}

// getColName returns the column name for a 0-based column index, with caching.
func (w *Workbook) getColName(col int) string {
	if name, ok := w.colNameCache[col]; ok {
		return name
	}
	name, _ := excelize.ColumnNumberToName(col + 1)
	w.colNameCache[col] = name
	return name
}

// CellAddress returns the A1 reference of a 0-based (col, row).
func (w *Workbook) CellAddress(col, row int) string {
	return fmt.Sprintf("%s%d", w.getColName(col), row+1)
}

// WriteHeader writes labels unstyled into row 0.
func (w *Workbook) WriteHeader(labels []string) error {
	for i, label := range labels {
		if err := w.file.SetCellStr(w.sheet, w.CellAddress(i, 0), label); err != nil {
			return fmt.Errorf("write header %q: %w", label, err)
		}
	}
	return nil
}

// Cell returns a sink writing the 0-based (col, row) cell.
func (w *Workbook) Cell(col, row int) *Cell {
	return &Cell{wb: w, ref: w.CellAddress(col, row)}
}

// ApplyColumnWidths sets the finalized widths of a tracker, capped at the
// widest column the format allows.
func (w *Workbook) ApplyColumnWidths(widths []ColumnWidth) error {
	for _, cw := range widths {
		name := w.getColName(cw.Col)
		width := cw.Width
		if width > excelize.MaxColumnWidth {
			width = excelize.MaxColumnWidth
		}
		if err := w.file.SetColWidth(w.sheet, name, name, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}
	return nil
}

// WriteTo serializes the workbook to wr.
func (w *Workbook) WriteTo(wr io.Writer) (int64, error) {
	return w.file.WriteTo(wr)
}

// ToBytes serializes the workbook to an in-memory byte slice.
func (w *Workbook) ToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := w.file.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path. Output goes to a temp file in the same
// directory first and is renamed into place, so path never holds a partial file.
func (w *Workbook) SaveAs(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = w.file.WriteTo(tmp); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move workbook into place: %w", err)
	}
	return nil
}

// Close ends the session and releases every format handle.
func (w *Workbook) Close() error {
	w.formats.release()
	return w.file.Close()
}

// Cell writes one cell. It implements richtext.CellSink.
type Cell struct {
	wb  *Workbook
	ref string
}

var _ richtext.CellSink = (*Cell)(nil)

func (c *Cell) applyStyle(font *FontTemplate) error {
	tmpl := c.wb.baseTmpl
	if font != nil {
		tmpl = &StyleTemplate{Font: font}
		if c.wb.baseTmpl != nil {
			tmpl.Alignment = c.wb.baseTmpl.Alignment
		}
	}
	if tmpl == nil {
		return nil
	}
	id, err := c.wb.formats.CellStyle(tmpl)
	if err != nil {
		return err
	}
	return c.wb.file.SetCellStyle(c.wb.sheet, c.ref, c.ref, id)
}

// WritePlain writes text with the base style.
func (c *Cell) WritePlain(text string) error {
	if err := c.wb.file.SetCellStr(c.wb.sheet, c.ref, text); err != nil {
		return fmt.Errorf("write %s: %w", c.ref, err)
	}
	return c.applyStyle(nil)
}

// WriteStyled writes text with a cell-level font built from style.
func (c *Cell) WriteStyled(text string, style richtext.Style) error {
	if err := c.wb.file.SetCellStr(c.wb.sheet, c.ref, text); err != nil {
		return fmt.Errorf("write %s: %w", c.ref, err)
	}
	return c.applyStyle(FontTemplateFromStyle(style))
}

// WriteRich writes runs as a rich-text value; unstyled runs carry no font.
// Like plain writes, text past MaxCellChars is cut.
func (c *Cell) WriteRich(runs []richtext.Run) error {
	textRuns := make([]excelize.RichTextRun, len(runs))
	for i, run := range runs {
		textRuns[i] = excelize.RichTextRun{
			Text: run.Text,
			Font: c.wb.formats.Font(run.Style),
		}
	}
	textRuns = truncateRuns(textRuns)
	if err := c.wb.file.SetCellRichText(c.wb.sheet, c.ref, textRuns); err != nil {
		return fmt.Errorf("write rich text %s: %w", c.ref, err)
	}
	return c.applyStyle(nil)
}

// truncateRuns drops the text past MaxCellChars, keeping each run's font.
func truncateRuns(runs []excelize.RichTextRun) []excelize.RichTextRun {
	left := MaxCellChars
	for i, run := range runs {
		n := utf8.RuneCountInString(run.Text)
		if n <= left {
			left -= n
			continue
		}
		if left == 0 {
			return runs[:i]
		}
		runs[i].Text = string([]rune(run.Text)[:left])
		return runs[:i+1]
	}
	return runs
}
