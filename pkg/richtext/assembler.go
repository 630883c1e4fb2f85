package richtext

// Run is one entry of the interleaved style/text sequence: the optional style
// handle that precedes Text. A zero Style means no handle is emitted.
type Run struct {
	Text  string
	Style Style
}

// CellSink receives the assembled form of one cell.
type CellSink interface {
	// WritePlain writes an unformatted string.
	WritePlain(text string) error
	// WriteStyled writes a single string formatted with one style.
	WriteStyled(text string, style Style) error
	// WriteRich writes a multi-run rich-text value.
	WriteRich(runs []Run) error
}

// Assemble routes fragments to the cheapest write path of sink.
//
// A single unstyled fragment is written plain. A single styled fragment is
// written with WriteStyled, since a rich-text write needs at least two blocks.
// Anything else is interleaved into runs and written rich.
func Assemble(fragments []Fragment, sink CellSink) error {
	switch {
	case len(fragments) == 0:
		return sink.WritePlain("")
	case len(fragments) == 1 && !fragments[0].HasStyle():
		return sink.WritePlain(fragments[0].Text)
	case len(fragments) == 1:
		return sink.WriteStyled(fragments[0].Text, fragments[0].Style)
	}
	return sink.WriteRich(Interleave(fragments))
}

// Interleave converts fragments to runs, preserving order.
func Interleave(fragments []Fragment) []Run {
	runs := make([]Run, len(fragments))
	for i, f := range fragments {
		runs[i] = Run{Text: f.Text, Style: f.Style}
	}
	return runs
}

// PlainText concatenates the text of all fragments.
func PlainText(fragments []Fragment) string {
	n := 0
	for _, f := range fragments {
		n += len(f.Text)
	}
	b := make([]byte, 0, n)
	for _, f := range fragments {
		b = append(b, f.Text...)
	}
	return string(b)
}
