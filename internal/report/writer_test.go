package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/locvowork/calendar_report/internal/domain"
	"github.com/locvowork/calendar_report/pkg/richtext"
	"github.com/locvowork/calendar_report/pkg/simpleexcel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sheet = "Events"

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func render(t *testing.T, w *Writer, events []domain.Event) *excelize.File {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, w.WriteTo(context.Background(), events, buf))
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func colWidth(t *testing.T, f *excelize.File, col string) float64 {
	t.Helper()
	w, err := f.GetColWidth(sheet, col)
	require.NoError(t, err)
	return w
}

func TestSortEvents(t *testing.T) {
	events := []domain.Event{
		{Summary: "late", Start: at(3, 9)},
		{Summary: "first tie", Start: at(1, 9)},
		{Summary: "second tie", Start: at(1, 9)},
	}
	sorted := SortEvents(events)

	var got []string
	for _, ev := range sorted {
		got = append(got, ev.Summary)
	}
	assert.Equal(t, []string{"first tie", "second tie", "late"}, got)
	// input is left alone
	assert.Equal(t, "late", events[0].Summary)
}

func TestWriteRows(t *testing.T) {
	events := []domain.Event{
		{Summary: "Review", Start: at(5, 14), End: at(5, 15)},
		{Summary: "Standup", Start: at(4, 9), End: at(4, 10), Description: "daily", HasDescription: true},
	}
	f := render(t, NewWriter(), events)

	assert.Equal(t, "DATE", cellValue(t, f, "A1"))
	assert.Equal(t, "SUMMARY", cellValue(t, f, "B1"))
	assert.Equal(t, "DESCRIPTION", cellValue(t, f, "C1"))
	assert.Equal(t, "DTSTART", cellValue(t, f, "D1"))
	assert.Equal(t, "DTEND", cellValue(t, f, "E1"))

	assert.Equal(t, "2024-03-04", cellValue(t, f, "A2"))
	assert.Equal(t, "Standup", cellValue(t, f, "B2"))
	assert.Equal(t, "daily", cellValue(t, f, "C2"))
	assert.Equal(t, "2024-03-04 09:00:00", cellValue(t, f, "D2"))
	assert.Equal(t, "2024-03-04 10:00:00", cellValue(t, f, "E2"))

	assert.Equal(t, "Review", cellValue(t, f, "B3"))
	assert.Equal(t, "", cellValue(t, f, "C3"))

	// header cells carry no format, data cells share the alignment format
	headerStyle, err := f.GetCellStyle(sheet, "A1")
	require.NoError(t, err)
	assert.Zero(t, headerStyle)
	dataStyle, err := f.GetCellStyle(sheet, "B2")
	require.NoError(t, err)
	assert.NotZero(t, dataStyle)
	style, err := f.GetStyle(dataStyle)
	require.NoError(t, err)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "left", style.Alignment.Horizontal)
	assert.Equal(t, "top", style.Alignment.Vertical)
}

func TestWriteDescriptions(t *testing.T) {
	events := []domain.Event{
		{Summary: "rich", Start: at(1, 8), End: at(1, 9), HasDescription: true,
			Description: "a <b>b</b> c"},
		{Summary: "styled", Start: at(2, 8), End: at(2, 9), HasDescription: true,
			Description: "<i>only</i>"},
		{Summary: "list", Start: at(3, 8), End: at(3, 9), HasDescription: true,
			Description: "<ul><li>x</li><li>y</li></ul>"},
	}
	f := render(t, NewWriter(), events)

	runs, err := f.GetCellRichText(sheet, "C2")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "a ", runs[0].Text)
	assert.Equal(t, "b", runs[1].Text)
	require.NotNil(t, runs[1].Font)
	assert.True(t, runs[1].Font.Bold)
	assert.Equal(t, " c", runs[2].Text)

	assert.Equal(t, "only", cellValue(t, f, "C3"))
	id, err := f.GetCellStyle(sheet, "C3")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Italic)
	assert.Equal(t, "left", style.Alignment.Horizontal)

	assert.Equal(t, "• x\n• y\n", cellValue(t, f, "C4"))
}

func TestColumnWidths(t *testing.T) {
	events := []domain.Event{
		{Summary: "short", Start: at(1, 8), End: at(1, 9), HasDescription: true,
			Description: "a very long description that is never measured"},
		{Summary: "a longer summary", Start: at(2, 8), End: at(2, 9)},
	}
	f := render(t, NewWriter(), events)

	assert.Equal(t, float64(len("2024-03-01")+2), colWidth(t, f, "A"))
	assert.Equal(t, float64(len("a longer summary")+2), colWidth(t, f, "B"))
	assert.Equal(t, float64(len("2024-03-01 08:00:00")+2), colWidth(t, f, "D"))
	assert.Equal(t, float64(len("2024-03-01 09:00:00")+2), colWidth(t, f, "E"))
	assert.Equal(t, colWidth(t, f, "Z"), colWidth(t, f, "C"))

	t.Run("LongerSummaryNeverShrinks", func(t *testing.T) {
		more := append(append([]domain.Event{}, events...),
			domain.Event{Summary: "the longest summary of them all", Start: at(3, 8), End: at(3, 9)})
		g := render(t, NewWriter(), more)
		assert.GreaterOrEqual(t, colWidth(t, g, "B"), colWidth(t, f, "B"))
	})

	t.Run("DisplayMode", func(t *testing.T) {
		wide := []domain.Event{{Summary: "日本語", Start: at(1, 8), End: at(1, 9)}}
		g := render(t, NewWriter(WithWidthMode(simpleexcel.WidthModeDisplay)), wide)
		assert.Equal(t, 8.0, colWidth(t, g, "B"))
		h := render(t, NewWriter(), wide)
		assert.Equal(t, 5.0, colWidth(t, h, "B"))
	})
}

func TestWriteOverlongText(t *testing.T) {
	long := strings.Repeat("y", simpleexcel.MaxCellChars+10)
	events := []domain.Event{{Summary: long, Start: at(1, 8), End: at(1, 9), HasDescription: true,
		Description: "<b>note</b> " + long}}

	logs := new(bytes.Buffer)
	l := zerolog.New(logs)
	ctx := l.WithContext(context.Background())
	buf := new(bytes.Buffer)
	require.NoError(t, NewWriter().WriteTo(ctx, events, buf))
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, simpleexcel.MaxCellChars, utf8.RuneCountInString(cellValue(t, f, "B2")))
	assert.Equal(t, simpleexcel.MaxCellChars, utf8.RuneCountInString(cellValue(t, f, "C2")))
	runs, err := f.GetCellRichText(sheet, "C2")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "note", runs[0].Text)

	assert.Equal(t, float64(excelize.MaxColumnWidth), colWidth(t, f, "B"))
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "row 1, SUMMARY")
	assert.Contains(t, logs.String(), "row 1, DESCRIPTION")
}

func TestWriteNoEvents(t *testing.T) {
	f := render(t, NewWriter(), nil)

	assert.Equal(t, "DATE", cellValue(t, f, "A1"))
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2.0, colWidth(t, f, "B"))
}

func TestComposedRenderer(t *testing.T) {
	events := []domain.Event{{Summary: "s", Start: at(1, 8), End: at(1, 9), HasDescription: true,
		Description: "<b><i>hi</i></b>"}}
	f := render(t, NewWriter(WithRenderer(richtext.NewRenderer(richtext.WithComposedStyles()))), events)

	id, err := f.GetCellStyle(sheet, "C2")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.True(t, style.Font.Italic)
}

func TestCustomLayout(t *testing.T) {
	layout, err := simpleexcel.ParseLayout(`
sheet_name: Agenda
date_format: "02/01/2006"
timestamp_format: "15:04"
width_padding: 1
columns:
  - field: summary
    header: What
    track_width: true
  - field: date
    header: When
    track_width: true
`)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	events := []domain.Event{{Summary: "Lunch", Start: at(7, 12), End: at(7, 13)}}
	require.NoError(t, NewWriter(WithLayout(layout)).WriteTo(context.Background(), events, buf))
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Agenda", "A1")
	require.NoError(t, err)
	assert.Equal(t, "What", v)
	v, err = f.GetCellValue("Agenda", "B2")
	require.NoError(t, err)
	assert.Equal(t, "07/03/2024", v)
	w, err := f.GetColWidth("Agenda", "A")
	require.NoError(t, err)
	assert.Equal(t, 6.0, w)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.xlsx")
	events := []domain.Event{{Summary: "s", Start: at(1, 8), End: at(1, 9)}}

	require.NoError(t, NewWriter().Write(context.Background(), events, path))
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "s", v)

	missing := filepath.Join(dir, "nope", "output.xlsx")
	assert.Error(t, NewWriter().Write(context.Background(), events, missing))
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}
