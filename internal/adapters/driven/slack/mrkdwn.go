package slack

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var markdown = goldmark.New()

// ToMrkdwn renders CommonMark as Slack mrkdwn.
// Links become <url|label>, strong text *x*, emphasis _x_, and list items are
// prefixed with a bullet or their number.
func ToMrkdwn(md string) string {
	src := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.Text:
			if entering {
				b.WriteString(mrkdwnEscaper.Replace(string(n.Segment.Value(src))))
				if n.SoftLineBreak() || n.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.WriteString(mrkdwnEscaper.Replace(string(n.Value)))
			}
		case *ast.Emphasis:
			if n.Level >= 2 {
				b.WriteByte('*')
			} else {
				b.WriteByte('_')
			}
		case *ast.CodeSpan:
			b.WriteByte('`')
		case *ast.Link:
			if entering {
				b.WriteString("<" + string(n.Destination) + "|")
			} else {
				b.WriteByte('>')
			}
		case *ast.AutoLink:
			if entering {
				b.WriteString("<" + string(n.URL(src)) + ">")
			}
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			b.WriteByte('*')
			if !entering {
				blockBreak(&b, n)
			}
		case *ast.FencedCodeBlock:
			if entering {
				writeCode(&b, n.Lines(), src)
				blockBreak(&b, n)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			if entering {
				writeCode(&b, n.Lines(), src)
				blockBreak(&b, n)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Blockquote:
			if entering {
				b.WriteString("> ")
			} else {
				blockBreak(&b, n)
			}
		case *ast.ListItem:
			if entering {
				b.WriteString(bullet(n))
			} else if n.NextSibling() != nil {
				b.WriteByte('\n')
			}
		case *ast.Paragraph, *ast.TextBlock, *ast.List:
			if !entering {
				blockBreak(&b, n)
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func blockBreak(b *strings.Builder, n ast.Node) {
	if n.NextSibling() != nil {
		b.WriteString("\n\n")
	}
}

func bullet(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "\u2022 "
	}
	idx := 0
	for s := item.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		idx++
	}
	return strconv.Itoa(list.Start+idx) + ". "
}

func writeCode(b *strings.Builder, lines *text.Segments, src []byte) {
	b.WriteString("```\n")
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	b.WriteString("```")
}
