package calendar

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/locvowork/calendar_report/internal/domain"
	"github.com/locvowork/calendar_report/internal/logger"
)

// Decoder reads VEVENT components from an iCalendar document.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

var _ domain.EventDecoder = (*Decoder)(nil)

// DecodeFile opens path and decodes it.
func (d *Decoder) DecodeFile(ctx context.Context, path string) ([]domain.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calendar: %w", err)
	}
	defer f.Close()
	return d.Decode(ctx, f)
}

// Decode returns every event of the document in file order. A component
// without DTSTART or DTEND fails the whole decode. SUMMARY and DESCRIPTION
// arrive already unescaped by the parser.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]domain.Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	vevents := cal.Events()
	events := make([]domain.Event, 0, len(vevents))
	for i, ve := range vevents {
		start, err := timestamp(ve.GetProperty(ics.ComponentPropertyDtStart), domain.ErrMissingStart)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		end, err := timestamp(ve.GetProperty(ics.ComponentPropertyDtEnd), domain.ErrMissingEnd)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}

		ev := domain.Event{Start: start, End: end}
		if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
			ev.Summary = p.Value
		}
		if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
			ev.Description = p.Value
			ev.HasDescription = true
		}
		events = append(events, ev)
	}

	logger.DebugLog(ctx, "decoded %d events", len(events))
	return events, nil
}

var dateTimeLayouts = []string{
	"20060102T150405",
	"20060102T1504",
}

// timestamp converts a DTSTART/DTEND property into a naive local timestamp.
// Dates become midnight; TZID and a trailing Z are dropped without conversion.
func timestamp(p *ics.IANAProperty, missing error) (time.Time, error) {
	if p == nil {
		return time.Time{}, missing
	}
	raw := strings.TrimSpace(p.Value)
	if raw == "" {
		return time.Time{}, missing
	}

	if isDateValue(p) || len(raw) == 8 {
		t, err := time.Parse("20060102", raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimestamp, raw)
		}
		return t, nil
	}

	raw = strings.TrimSuffix(strings.TrimSuffix(raw, "Z"), "z")
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimestamp, p.Value)
}

func isDateValue(p *ics.IANAProperty) bool {
	for k, vs := range p.ICalParameters {
		if !strings.EqualFold(k, "VALUE") {
			continue
		}
		for _, v := range vs {
			if strings.EqualFold(v, "DATE") {
				return true
			}
		}
	}
	return false
}
