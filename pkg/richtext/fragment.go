package richtext

import "fmt"

// Fragment is a run of already-decoded plain text with an optional style.
// A zero Style means the fragment is unstyled.
type Fragment struct {
	Text  string
	Style Style
}

// Plain returns an unstyled fragment.
func Plain(text string) Fragment {
	return Fragment{Text: text}
}

// Styled returns a fragment carrying style.
func Styled(text string, style Style) Fragment {
	return Fragment{Text: text, Style: style}
}

// HasStyle reports whether the fragment carries any style attribute.
func (f Fragment) HasStyle() bool {
	return !f.Style.IsZero()
}

func (f Fragment) String() string {
	return fmt.Sprintf("Text: %q, Style: %s", f.Text, f.Style)
}
