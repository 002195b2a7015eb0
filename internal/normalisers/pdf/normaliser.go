// Package pdf extracts per-page text from PDF files.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/logger"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// PageSource exposes the pages of an opened PDF.
type PageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

// Result is the outcome of normalising one PDF.
type Result struct {
	Passages []domain.Passage

	// Pages is the total page count of the file.
	Pages int

	// FailedPages lists 1-based pages whose text could not be extracted.
	FailedPages []int

	// Truncated is true when the page limit stopped extraction early.
	Truncated bool
}

// Partial reports whether some page text is missing from the result.
func (r *Result) Partial() bool {
	return len(r.FailedPages) > 0 || r.Truncated
}

// Normaliser splits a PDF into page passages.
type Normaliser struct {
	maxPages   int
	chunkWords int
}

// New creates a normaliser. A non-positive maxPages reads every page;
// a non-positive chunkWords keeps each page whole.
func New(maxPages, chunkWords int) *Normaliser {
	return &Normaliser{maxPages: maxPages, chunkWords: chunkWords}
}

// ForSettings builds a normaliser from reader settings.
func ForSettings(s domain.ReaderSettings) *Normaliser {
	return New(s.PDFMaxPages, s.ChunkWords)
}

// Normalise parses data and extracts its pages.
func (n *Normaliser) Normalise(data []byte) (*Result, error) {
	src, err := Open(data)
	if err != nil {
		return nil, err
	}
	return n.Extract(src), nil
}

// Extract reads pages from src. A page that fails is logged, recorded and
// skipped; the remaining pages are still returned.
func (n *Normaliser) Extract(src PageSource) *Result {
	res := &Result{Pages: src.NumPage()}

	last := res.Pages
	if n.maxPages > 0 && last > n.maxPages {
		last = n.maxPages
		res.Truncated = true
	}

	for page := 1; page <= last; page++ {
		raw, err := src.PageText(page)
		if err != nil {
			logger.Warn("[pdf] page %d: %v", page, err)
			res.FailedPages = append(res.FailedPages, page)
			continue
		}
		anchor := fmt.Sprintf("#page=%d", page)
		for _, piece := range text.SplitWords(text.Normalise(raw), n.chunkWords) {
			res.Passages = append(res.Passages, domain.Passage{
				Text:    piece,
				Locator: domain.PageAt(page),
				Anchor:  anchor,
			})
		}
	}

	return res
}

// Open parses PDF bytes into a PageSource.
func Open(data []byte) (PageSource, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty pdf", domain.ErrInvalidInput)
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrInvalidInput, err)
	}
	return &reader{r: r}, nil
}

type reader struct {
	r *pdf.Reader
}

func (d *reader) NumPage() int { return d.r.NumPage() }

// PageText extracts plain text of page n. The pdf library panics on some
// malformed content streams, so panics are converted to errors.
func (d *reader) PageText(n int) (txt string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("extract text: %v", rec)
		}
	}()

	p := d.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
