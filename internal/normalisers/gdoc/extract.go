package gdoc

import (
	"strings"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// StructureExtractor groups paragraphs into passages.
type StructureExtractor interface {
	Extract(paragraphs []Paragraph) []domain.Passage
}

// PlainExtractor emits one passage per non-heading paragraph, tagged with
// the most recent heading as its section.
type PlainExtractor struct{}

// Extract implements StructureExtractor.
func (PlainExtractor) Extract(paragraphs []Paragraph) []domain.Passage {
	var out []domain.Passage
	var sec section
	for _, p := range paragraphs {
		if p.Heading {
			sec = section{name: p.Text, id: p.HeadingID}
			continue
		}
		out = append(out, sec.passage(p.Text, p.Number))
	}
	return out
}

// QAExtractor behaves like PlainExtractor but joins a question paragraph with
// the paragraph that follows it into a single "Question: ... Answer: ..."
// passage. The follower is only taken when it is neither a heading nor a
// question itself; otherwise the question stands alone.
type QAExtractor struct{}

// Extract implements StructureExtractor.
func (QAExtractor) Extract(paragraphs []Paragraph) []domain.Passage {
	var out []domain.Passage
	var sec section
	for i := 0; i < len(paragraphs); i++ {
		p := paragraphs[i]
		if p.Heading {
			sec = section{name: p.Text, id: p.HeadingID}
			continue
		}

		if IsQuestion(p.Text) && i+1 < len(paragraphs) {
			next := paragraphs[i+1]
			if !next.Heading && !IsQuestion(next.Text) {
				out = append(out, sec.passage("Question: "+p.Text+" Answer: "+next.Text, p.Number))
				i++
				continue
			}
		}

		out = append(out, sec.passage(p.Text, p.Number))
	}
	return out
}

// IsQuestion reports whether s ends with an ASCII or full-width question mark.
func IsQuestion(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, "?") || strings.HasSuffix(s, "\uff1f")
}

type section struct {
	name string
	id   string
}

func (s section) passage(txt string, number int) domain.Passage {
	p := domain.Passage{
		Text:    txt,
		Locator: domain.ParagraphAt(number),
		Section: s.name,
	}
	if s.id != "" {
		p.Anchor = "#heading=" + s.id
	}
	return p
}
