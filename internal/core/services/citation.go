package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// DefaultPreviewWords is the number of leading words quoted in a citation.
const DefaultPreviewWords = 10

// CitationFormatter renders source citations for an answer.
type CitationFormatter struct {
	previewWords int
}

// NewCitationFormatter creates a formatter. A non-positive previewWords
// uses DefaultPreviewWords.
func NewCitationFormatter(previewWords int) *CitationFormatter {
	if previewWords <= 0 {
		previewWords = DefaultPreviewWords
	}
	return &CitationFormatter{previewWords: previewWords}
}

// LocatorPhrase describes where in its source a chunk came from.
func LocatorPhrase(l domain.Locator) string {
	n := strconv.Itoa(l.Number)
	switch l.Kind {
	case domain.LocatorPage:
		return "page " + n
	case domain.LocatorParagraph:
		return "paragraph " + n
	case domain.LocatorBlock:
		return "data block " + n
	case domain.LocatorRow:
		return "row " + n
	default:
		return "excerpt"
	}
}

// Citation renders one chunk's source link, locator phrase and leading
// words, e.g. (Source: [Handbook](https://...), paragraph 3 ... starts with: "The claims...").
// The ellipsis is only added when the preview cuts the text short.
func (f *CitationFormatter) Citation(c domain.Chunk) string {
	source := c.SourceName
	if c.SourceLink != "" {
		source = "[" + c.SourceName + "](" + c.SourceLink + ")"
	}

	where := LocatorPhrase(c.Locator)
	if c.Section != "" {
		where += `, section "` + c.Section + `"`
	}

	preview, cut := text.FirstWords(c.Text, f.previewWords)
	if cut {
		preview += "..."
	}

	return fmt.Sprintf("(Source: %s, %s \u2014 starts with: \"%s\")", source, where, preview)
}

// Format renders one citation per distinct (source, locator) pair, in
// order. An answer equal to the refusal sentence gets no citations.
func (f *CitationFormatter) Format(answer string, chunks []domain.RankedChunk) []string {
	if answer == domain.RefusalSentence || len(chunks) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(chunks))
	out := make([]string, 0, len(chunks))
	for _, rc := range chunks {
		key := rc.Chunk.CitationKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f.Citation(rc.Chunk))
	}
	return out
}
