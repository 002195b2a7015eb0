package domain

import "strconv"

// LocatorKind identifies how a chunk is positioned within its source file.
type LocatorKind int

// Locator kinds produced by the document readers.
const (
	// LocatorNone is used when a reader cannot position its output.
	LocatorNone LocatorKind = iota

	// LocatorParagraph is a 1-based paragraph number within a document.
	LocatorParagraph

	// LocatorPage is a 1-based page number within a PDF.
	LocatorPage

	// LocatorRow is a 1-based row number within a spreadsheet.
	LocatorRow

	// LocatorBlock is a 1-based block of spreadsheet rows.
	LocatorBlock
)

// String returns the string representation.
func (k LocatorKind) String() string {
	switch k {
	case LocatorParagraph:
		return "paragraph"
	case LocatorPage:
		return "page"
	case LocatorRow:
		return "row"
	case LocatorBlock:
		return "block"
	default:
		return "none"
	}
}

// Locator pins a chunk to a position inside its source file.
type Locator struct {
	Kind   LocatorKind
	Number int
}

// ParagraphAt returns a paragraph locator.
func ParagraphAt(n int) Locator { return Locator{Kind: LocatorParagraph, Number: n} }

// PageAt returns a page locator.
func PageAt(n int) Locator { return Locator{Kind: LocatorPage, Number: n} }

// RowAt returns a row locator.
func RowAt(n int) Locator { return Locator{Kind: LocatorRow, Number: n} }

// BlockAt returns a data block locator.
func BlockAt(n int) Locator { return Locator{Kind: LocatorBlock, Number: n} }

// Key returns a stable string form, e.g. "page:3".
func (l Locator) Key() string {
	return l.Kind.String() + ":" + strconv.Itoa(l.Number)
}

// Passage is one unit of reader output: text plus where it came from.
// Readers emit passages; the post-processing pipeline turns them into chunks.
type Passage struct {
	// Text is the raw passage text (not yet normalised).
	Text string

	// Locator positions the passage within its file.
	Locator Locator

	// Section is the heading the passage sits under, if known.
	Section string

	// Anchor is an optional URL fragment pointing at the passage.
	Anchor string
}

// Chunk is a retrievable unit of normalised text.
// Text is never empty; the pipeline drops passages that normalise to nothing.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the normalised content fed to the ranker and the prompt.
	Text string

	// SourceID is the document-store id of the originating file.
	SourceID string

	// SourceName is the display name of the originating file.
	SourceName string

	// SourceLink is a citation target, possibly with a fragment.
	SourceLink string

	// SourceType is the kind of file the chunk came from.
	SourceType FileType

	// Locator distinguishes this chunk within its source.
	Locator Locator

	// Section is auxiliary heading metadata (Docs only).
	Section string
}

// CitationKey identifies a chunk for citation deduplication.
func (c Chunk) CitationKey() string {
	return c.SourceName + "\x00" + c.Locator.Key()
}

// RankedChunk is a chunk paired with its relevance to one query.
type RankedChunk struct {
	Chunk Chunk

	// Score is the similarity to the query; higher is more relevant.
	Score float64

	// Index is the chunk's position in the collection that was ranked.
	Index int
}
