package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrMissingStart     = errors.New("event has no DTSTART")
	ErrMissingEnd       = errors.New("event has no DTEND")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Event is one decoded calendar entry. Start and End are naive local
// timestamps (Location is always UTC and carries no meaning).
type Event struct {
	Summary        string
	Description    string
	HasDescription bool
	Start          time.Time
	End            time.Time
}

// Date returns the calendar date of Start.
func (e Event) Date() time.Time {
	y, m, d := e.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EventDecoder decodes a calendar document into events.
type EventDecoder interface {
	Decode(ctx context.Context, r io.Reader) ([]Event, error)
}

// ReportWriter lays events out into a report document.
type ReportWriter interface {
	WriteTo(ctx context.Context, events []Event, w io.Writer) error
	Write(ctx context.Context, events []Event, path string) error
}
