package calendar

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/locvowork/calendar_report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendarDoc(body string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//test//EN",
	}
	if body = strings.TrimSpace(body); body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestDecode(t *testing.T) {
	doc := calendarDoc(`
BEGIN:VEVENT
UID:1
DTSTART:20240305T101500Z
DTEND:20240305T111500Z
SUMMARY:Standup
DESCRIPTION:<b>daily</b>
END:VEVENT
BEGIN:VEVENT
UID:2
DTSTART;VALUE=DATE:20240306
DTEND;VALUE=DATE:20240307
SUMMARY:Holiday
END:VEVENT
BEGIN:VEVENT
UID:3
DTSTART;TZID=Europe/Paris:20240307T090000
DTEND;TZID=Europe/Paris:20240307T093000
END:VEVENT`)

	events, err := NewDecoder().Decode(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "Standup", events[0].Summary)
	assert.True(t, events[0].HasDescription)
	assert.Equal(t, "<b>daily</b>", events[0].Description)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 15, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Date(2024, 3, 5, 11, 15, 0, 0, time.UTC), events[0].End)

	// all-day events become midnight timestamps
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), events[1].Start)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), events[1].End)
	assert.False(t, events[1].HasDescription)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), events[1].Date())

	// zoned timestamps keep their wall clock
	assert.Equal(t, time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC), events[2].Start)
	assert.Equal(t, "", events[2].Summary)
}

func TestDecodeMissingTimestamps(t *testing.T) {
	noStart := calendarDoc(`
BEGIN:VEVENT
UID:1
DTEND:20240305T111500Z
END:VEVENT`)
	_, err := NewDecoder().Decode(context.Background(), strings.NewReader(noStart))
	assert.ErrorIs(t, err, domain.ErrMissingStart)

	noEnd := calendarDoc(`
BEGIN:VEVENT
UID:1
DTSTART:20240305T111500Z
END:VEVENT`)
	_, err = NewDecoder().Decode(context.Background(), strings.NewReader(noEnd))
	assert.ErrorIs(t, err, domain.ErrMissingEnd)

	badStart := calendarDoc(`
BEGIN:VEVENT
UID:1
DTSTART:yesterday
DTEND:20240305T111500Z
END:VEVENT`)
	_, err = NewDecoder().Decode(context.Background(), strings.NewReader(badStart))
	assert.ErrorIs(t, err, domain.ErrInvalidTimestamp)
}

func TestDecodeEmptyCalendar(t *testing.T) {
	events, err := NewDecoder().Decode(context.Background(), strings.NewReader(calendarDoc("")))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.ics")
	require.NoError(t, os.WriteFile(path, []byte(calendarDoc(`
BEGIN:VEVENT
UID:1
DTSTART:20240101T080000
DTEND:20240101T090000
SUMMARY:New year run
END:VEVENT`)), 0644))

	events, err := NewDecoder().DecodeFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "New year run", events[0].Summary)

	_, err = NewDecoder().DecodeFile(context.Background(), filepath.Join(t.TempDir(), "missing.ics"))
	assert.Error(t, err)
}

func TestDecodeEscapedText(t *testing.T) {
	doc := calendarDoc(`
BEGIN:VEVENT
UID:1
DTSTART:20240305T101500Z
DTEND:20240305T111500Z
SUMMARY:C:\\new
DESCRIPTION:path C:\\temp\\notes\nline two\, with comma\; and semicolon
END:VEVENT`)

	events, err := NewDecoder().Decode(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, `C:\new`, events[0].Summary)
	assert.Equal(t, "path C:\\temp\\notes\nline two, with comma; and semicolon", events[0].Description)
}
