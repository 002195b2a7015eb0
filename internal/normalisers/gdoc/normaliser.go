package gdoc

import (
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// Paragraph is one non-empty paragraph of a Google Doc.
type Paragraph struct {
	// Number is the 1-based position among non-empty paragraphs.
	Number int

	// Text is the normalised paragraph text.
	Text string

	// Heading is true when the HeadingDetector classified the paragraph as a heading.
	Heading bool

	// HeadingID is the Docs heading id, usable as a link fragment.
	HeadingID string
}

// Normaliser converts a Docs API document into passages.
type Normaliser struct {
	headings  HeadingDetector
	extractor StructureExtractor
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithHeadingDetector sets how headings are recognised.
func WithHeadingDetector(d HeadingDetector) Option {
	return func(n *Normaliser) {
		if d != nil {
			n.headings = d
		}
	}
}

// WithExtractor sets how paragraphs are grouped into passages.
func WithExtractor(e StructureExtractor) Option {
	return func(n *Normaliser) {
		if e != nil {
			n.extractor = e
		}
	}
}

// New creates a normaliser using named-style headings and Q&A pairing.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{
		headings:  NamedStyleHeadings{},
		extractor: QAExtractor{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ForSettings builds a normaliser from reader settings.
func ForSettings(s domain.ReaderSettings) *Normaliser {
	opts := []Option{WithHeadingDetector(HeadingDetectorFor(s.DocHeadings))}
	if !s.DocQAPairing {
		opts = append(opts, WithExtractor(PlainExtractor{}))
	}
	return New(opts...)
}

// Normalise returns the passages of doc in document order.
// A nil document or body yields no passages.
func (n *Normaliser) Normalise(doc *docs.Document) []domain.Passage {
	return n.extractor.Extract(n.Paragraphs(doc))
}

// Paragraphs returns the non-empty top-level paragraphs of the document body.
// Table rows are flattened into a single paragraph of "cell | cell" text.
func (n *Normaliser) Paragraphs(doc *docs.Document) []Paragraph {
	if doc == nil || doc.Body == nil {
		return nil
	}

	var out []Paragraph
	for _, el := range doc.Body.Content {
		if el == nil {
			continue
		}
		switch {
		case el.Paragraph != nil:
			txt := text.Normalise(paragraphText(el.Paragraph))
			if txt == "" {
				continue
			}
			p := Paragraph{Number: len(out) + 1, Text: txt}
			if n.headings.IsHeading(el.Paragraph) {
				p.Heading = true
				if el.Paragraph.ParagraphStyle != nil {
					p.HeadingID = el.Paragraph.ParagraphStyle.HeadingId
				}
			}
			out = append(out, p)
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				if txt := rowText(row); txt != "" {
					out = append(out, Paragraph{Number: len(out) + 1, Text: txt})
				}
			}
		}
	}

	return out
}

func paragraphText(p *docs.Paragraph) string {
	var b strings.Builder
	for _, el := range p.Elements {
		if el != nil && el.TextRun != nil {
			b.WriteString(el.TextRun.Content)
		}
	}
	return b.String()
}

func rowText(row *docs.TableRow) string {
	if row == nil {
		return ""
	}
	cells := make([]string, 0, len(row.TableCells))
	for _, cell := range row.TableCells {
		if cell == nil {
			continue
		}
		var parts []string
		for _, el := range cell.Content {
			if el != nil && el.Paragraph != nil {
				if t := text.Normalise(paragraphText(el.Paragraph)); t != "" {
					parts = append(parts, t)
				}
			}
		}
		if len(parts) > 0 {
			cells = append(cells, strings.Join(parts, " "))
		}
	}
	return strings.Join(cells, " | ")
}
