package richtext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renderer turns an HTML fragment into an ordered list of styled fragments.
// Only <br>, <b>, <i>, <u>, <a>, <font size> and root-level <ol>/<ul> are
// recognized; every other element is transparent.
type Renderer struct {
	composed bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithComposedStyles merges the styles of nested recognized elements instead
// of letting the innermost one replace the others.
func WithComposedStyles() Option {
	return func(r *Renderer) {
		r.composed = true
	}
}

// NewRenderer creates a Renderer. Without options nested styles do not compose:
// <b><i>x</i></b> renders "x" italic only.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render renders s with the default, non-composing renderer.
func Render(s string) []Fragment {
	return defaultRenderer.Render(s)
}

// elementHandler renders one recognized element. inherited is the style in
// effect from the enclosing recognized element, zero at the root.
type elementHandler func(r *Renderer, n *html.Node, inherited Style, out []Fragment) []Fragment

var elementHandlers map[atom.Atom]elementHandler

func init() {
	elementHandlers = map[atom.Atom]elementHandler{
		atom.Br:   renderBreak,
		atom.B:    renderStyledAs(BoldStyle),
		atom.I:    renderStyledAs(ItalicStyle),
		atom.U:    renderStyledAs(UnderlineStyle),
		atom.A:    renderLink,
		atom.Font: renderFont,
	}
}

// Render parses s and returns its fragments in document order. The result is
// never empty; empty input yields a single empty unstyled fragment.
func (r *Renderer) Render(s string) []Fragment {
	if s == "" {
		return []Fragment{Plain("")}
	}

	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		// Only reachable on reader failure; the text itself is still usable.
		return []Fragment{Plain(s)}
	}

	var out []Fragment
	for _, n := range nodes {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Ol || n.DataAtom == atom.Ul) {
			out = renderList(n, out)
			continue
		}
		out = r.visit(n, Style{}, out)
	}
	if len(out) == 0 {
		return []Fragment{Plain("")}
	}
	return out
}

func (r *Renderer) visit(n *html.Node, inherited Style, out []Fragment) []Fragment {
	switch n.Type {
	case html.TextNode:
		return append(out, Styled(n.Data, inherited))
	case html.ElementNode:
		if h, ok := elementHandlers[n.DataAtom]; ok {
			return h(r, n, inherited, out)
		}
		return r.visitChildren(n, inherited, out)
	default:
		// comments, doctypes
		return out
	}
}

func (r *Renderer) visitChildren(n *html.Node, inherited Style, out []Fragment) []Fragment {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = r.visit(c, inherited, out)
	}
	return out
}

// resolve returns the style an element applies to its own content.
func (r *Renderer) resolve(inherited, own Style) Style {
	if r.composed {
		return Merge(inherited, own)
	}
	return own
}

func renderBreak(_ *Renderer, _ *html.Node, _ Style, out []Fragment) []Fragment {
	return append(out, Plain("\n"))
}

func renderStyledAs(own Style) elementHandler {
	return func(r *Renderer, n *html.Node, inherited Style, out []Fragment) []Fragment {
		return r.renderStyled(n, r.resolve(inherited, own), out)
	}
}

// renderStyled emits the flattened text of n as a single fragment, unless n
// contains elements; then each child is rendered with style in effect so a
// recognized descendant can take over its own content.
func (r *Renderer) renderStyled(n *html.Node, style Style, out []Fragment) []Fragment {
	if !hasElementChild(n) {
		return append(out, Styled(textContent(n), style))
	}
	return r.visitChildren(n, style, out)
}

func renderLink(r *Renderer, n *html.Node, inherited Style, out []Fragment) []Fragment {
	href := attr(n, "href")
	text := textContent(n) + " (" + href + ")"
	return append(out, Styled(text, r.resolve(inherited, HyperlinkStyle(href))))
}

func renderFont(r *Renderer, n *html.Node, inherited Style, out []Fragment) []Fragment {
	own, ok := FontSizeStyle(attr(n, "size"))
	if !ok {
		if r.composed {
			return r.renderStyled(n, inherited, out)
		}
		return r.renderStyled(n, Style{}, out)
	}
	return r.renderStyled(n, r.resolve(inherited, own), out)
}

// renderList emits one unstyled fragment per direct <li> child.
func renderList(n *html.Node, out []Fragment) []Fragment {
	ordered := n.DataAtom == atom.Ol
	idx := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		idx++
		var prefix string
		if ordered {
			prefix = strconv.Itoa(idx) + ". "
		} else {
			prefix = "• "
		}
		out = append(out, Plain(prefix+textContent(c)+"\n"))
	}
	return out
}

func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// textContent concatenates all descendant text nodes with tags stripped.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
