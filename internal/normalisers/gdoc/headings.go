package gdoc

import (
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// HeadingDetector decides whether a paragraph is a section heading.
// Detection is heuristic; callers must tolerate false positives and negatives.
type HeadingDetector interface {
	IsHeading(p *docs.Paragraph) bool
}

// NamedStyleHeadings treats HEADING_1 through HEADING_6 (and TITLE) as headings.
type NamedStyleHeadings struct{}

// IsHeading implements HeadingDetector.
func (NamedStyleHeadings) IsHeading(p *docs.Paragraph) bool {
	if p == nil || p.ParagraphStyle == nil {
		return false
	}
	named := p.ParagraphStyle.NamedStyleType
	return strings.HasPrefix(named, "HEADING_") || named == "TITLE"
}

// BoldUnderlineHeadings treats a paragraph whose visible text is entirely
// bold and underlined as a heading.
type BoldUnderlineHeadings struct{}

// IsHeading implements HeadingDetector.
func (BoldUnderlineHeadings) IsHeading(p *docs.Paragraph) bool {
	if p == nil {
		return false
	}
	seen := false
	for _, el := range p.Elements {
		if el == nil || el.TextRun == nil {
			continue
		}
		if strings.TrimSpace(el.TextRun.Content) == "" {
			continue
		}
		style := el.TextRun.TextStyle
		if style == nil || !style.Bold || !style.Underline {
			return false
		}
		seen = true
	}
	return seen
}

// NoHeadings disables heading detection.
type NoHeadings struct{}

// IsHeading implements HeadingDetector.
func (NoHeadings) IsHeading(*docs.Paragraph) bool { return false }

// HeadingDetectorFor maps a configured mode to a detector.
func HeadingDetectorFor(mode domain.HeadingMode) HeadingDetector {
	switch mode {
	case domain.HeadingsBoldUnderline:
		return BoldUnderlineHeadings{}
	case domain.HeadingsOff:
		return NoHeadings{}
	default:
		return NamedStyleHeadings{}
	}
}
