package telegramhtml

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/teamrelay/internal/ports"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func parser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		)
	})
	return markdown
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func Escape(s string) string {
	return textEscaper.Replace(s)
}

// Render converts worker markdown to the HTML subset accepted by Telegram's
// parse_mode=HTML. Anything Telegram cannot display is flattened to escaped
// text.
func Render(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	source := []byte(input)
	document := parser().Parser().Parse(text.NewReader(source))

	r := &renderer{source: source}
	_ = ast.Walk(document, r.walk)

	return strings.TrimSpace(r.out.String())
}

type listState struct {
	ordered bool
	counter int
}

type renderer struct {
	source []byte
	out    bytes.Buffer
	lists  []listState
}

func (r *renderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Document:

	case *ast.Paragraph:
		if !entering {
			r.ensureBlankLine()
		}

	case *ast.TextBlock:
		if !entering {
			r.ensureNewline()
		}

	case *ast.Heading:
		if entering {
			r.ensureBlankLine()
			r.out.WriteString("<b>")
		} else {
			r.out.WriteString("</b>")
			r.ensureBlankLine()
		}

	case *ast.FencedCodeBlock:
		if entering {
			r.renderCode(string(n.Language(r.source)), r.lines(n))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			r.renderCode("", r.lines(n))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			r.ensureBlankLine()
			r.out.WriteString("<blockquote>")
		} else {
			r.trimTrailingNewlines()
			r.out.WriteString("</blockquote>")
			r.ensureBlankLine()
		}

	case *ast.List:
		if entering {
			r.ensureNewline()
			r.lists = append(r.lists, listState{ordered: n.IsOrdered(), counter: n.Start})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if len(r.lists) == 0 {
				r.ensureBlankLine()
			}
		}

	case *ast.ListItem:
		if entering {
			r.ensureNewline()
			r.out.WriteString(r.bullet())
		} else {
			r.trimTrailingNewlines()
			r.out.WriteByte('\n')
		}

	case *ast.ThematicBreak:
		if entering {
			r.ensureBlankLine()
			r.out.WriteString("──────────")
			r.ensureBlankLine()
		}

	case *ast.HTMLBlock:
		if entering {
			r.out.WriteString(Escape(r.lines(n)))
			r.ensureBlankLine()
			return ast.WalkSkipChildren, nil
		}

	case *ast.Text:
		if entering {
			r.out.WriteString(Escape(textValue(n.Segment.Value(r.source))))
			if n.SoftLineBreak() || n.HardLineBreak() {
				r.out.WriteByte('\n')
			}
		}

	case *ast.String:
		if entering {
			r.out.WriteString(Escape(string(n.Value)))
		}

	case *ast.Emphasis:
		tag := "i"
		if n.Level >= 2 {
			tag = "b"
		}
		r.tag(tag, entering)

	case *extast.Strikethrough:
		r.tag("s", entering)

	case *ast.CodeSpan:
		if entering {
			r.out.WriteString("<code>" + Escape(r.codeText(n)) + "</code>")
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if entering {
			fmt.Fprintf(&r.out, `<a href="%s">`, attrEscaper.Replace(string(n.Destination)))
		} else {
			r.out.WriteString("</a>")
		}

	case *ast.AutoLink:
		if entering {
			url := string(n.URL(r.source))
			label := string(n.Label(r.source))
			fmt.Fprintf(&r.out, `<a href="%s">%s</a>`, attrEscaper.Replace(url), Escape(label))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Image:
		if entering {
			alt := r.inlineText(n)
			r.out.WriteString(Escape(fmt.Sprintf("%s (%s)", alt, n.Destination)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		if entering {
			segments := n.Segments
			for i := 0; i < segments.Len(); i++ {
				segment := segments.At(i)
				r.out.WriteString(Escape(string(segment.Value(r.source))))
			}
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

func (r *renderer) tag(name string, entering bool) {
	if entering {
		r.out.WriteString("<" + name + ">")
		return
	}
	r.out.WriteString("</" + name + ">")
}

func (r *renderer) renderCode(language string, code string) {
	r.ensureBlankLine()
	code = Escape(strings.TrimRight(code, "\n"))
	if language != "" {
		fmt.Fprintf(&r.out, `<pre><code class="language-%s">%s</code></pre>`, attrEscaper.Replace(language), code)
	} else {
		r.out.WriteString("<pre>" + code + "</pre>")
	}
	r.ensureBlankLine()
}

func (r *renderer) bullet() string {
	depth := len(r.lists)
	if depth == 0 {
		return ""
	}
	indent := strings.Repeat("  ", depth-1)
	state := &r.lists[depth-1]
	if state.ordered {
		label := fmt.Sprintf("%s%d. ", indent, state.counter)
		state.counter++
		return label
	}
	return indent + "• "
}

func (r *renderer) lines(node ast.Node) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(r.source))
	}
	return b.String()
}

func (r *renderer) codeText(node ast.Node) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(r.source))
		}
	}
	return b.String()
}

func (r *renderer) inlineText(node ast.Node) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			b.WriteString(textValue(c.Segment.Value(r.source)))
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(r.inlineText(c))
		}
	}
	return b.String()
}

// Segments hold raw source, so backslash escapes and entities are still
// present.
func textValue(raw []byte) string {
	value := util.UnescapePunctuations(raw)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}

func (r *renderer) ensureNewline() {
	if r.out.Len() == 0 {
		return
	}
	if r.out.Bytes()[r.out.Len()-1] != '\n' {
		r.out.WriteByte('\n')
	}
}

func (r *renderer) ensureBlankLine() {
	if r.out.Len() == 0 {
		return
	}
	r.trimTrailingNewlines()
	r.out.WriteString("\n\n")
}

func (r *renderer) trimTrailingNewlines() {
	for r.out.Len() > 0 && r.out.Bytes()[r.out.Len()-1] == '\n' {
		r.out.Truncate(r.out.Len() - 1)
	}
}

// Formatter adapts Render to ports.Formatter.
type Formatter struct{}

var _ ports.Formatter = Formatter{}

func (Formatter) Format(markdown string) string {
	return Render(markdown)
}
