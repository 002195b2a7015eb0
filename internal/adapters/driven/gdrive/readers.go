package gdrive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/normalisers/gdoc"
	"github.com/custodia-labs/conahgpt/internal/normalisers/pdf"
	"github.com/custodia-labs/conahgpt/internal/normalisers/sheet"
)

// Verify interface compliance.
var (
	_ driven.Reader = (*DocReader)(nil)
	_ driven.Reader = (*SheetReader)(nil)
	_ driven.Reader = (*PDFReader)(nil)
)

// Readers returns one reader per supported file type.
func Readers(svcs *Services, s domain.ReaderSettings) []driven.Reader {
	return []driven.Reader{
		NewDocReader(svcs.Docs, gdoc.ForSettings(s)),
		NewSheetReader(svcs.Sheets, sheet.ForSettings(s)),
		NewPDFReader(svcs.Drive, svcs.DriveLimiter, pdf.ForSettings(s), s.MaxFileBytes),
	}
}

// DocReader reads Google Docs through the Docs API.
type DocReader struct {
	svc     *docs.Service
	norm    *gdoc.Normaliser
	limiter *RateLimiter
}

// NewDocReader creates a Doc reader.
func NewDocReader(svc *docs.Service, norm *gdoc.Normaliser) *DocReader {
	return &DocReader{svc: svc, norm: norm, limiter: NewRateLimiter(APIDocs)}
}

// FileType implements driven.Reader.
func (r *DocReader) FileType() domain.FileType { return domain.FileTypeDoc }

// Read fetches the document structure and extracts its passages.
func (r *DocReader) Read(ctx context.Context, file domain.FileDescriptor) (*domain.Document, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	doc, err := r.svc.Documents.Get(file.ID).Context(ctx).Do()
	if err != nil {
		return nil, observe(r.limiter, err)
	}
	return &domain.Document{
		File:     file,
		Link:     Link(file),
		Passages: r.norm.Normalise(doc),
	}, nil
}

// SheetReader reads the first worksheet of a spreadsheet.
type SheetReader struct {
	svc     *sheets.Service
	norm    *sheet.Normaliser
	limiter *RateLimiter
}

// NewSheetReader creates a Sheet reader.
func NewSheetReader(svc *sheets.Service, norm *sheet.Normaliser) *SheetReader {
	return &SheetReader{svc: svc, norm: norm, limiter: NewRateLimiter(APISheets)}
}

// FileType implements driven.Reader.
func (r *SheetReader) FileType() domain.FileType { return domain.FileTypeSheet }

// Read fetches the cell values of the first worksheet.
func (r *SheetReader) Read(ctx context.Context, file domain.FileDescriptor) (*domain.Document, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	meta, err := r.svc.Spreadsheets.Get(file.ID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, observe(r.limiter, err)
	}
	doc := &domain.Document{File: file, Link: Link(file)}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return doc, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	rng := quoteSheet(meta.Sheets[0].Properties.Title)
	vals, err := r.svc.Spreadsheets.Values.Get(file.ID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, observe(r.limiter, err)
	}

	doc.Passages = r.norm.Normalise(vals.Values)
	return doc, nil
}

// quoteSheet turns a worksheet title into an A1 range covering the whole sheet.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// PDFReader downloads PDFs from Drive and extracts page text.
type PDFReader struct {
	svc      *drive.Service
	norm     *pdf.Normaliser
	maxBytes int64
	limiter  *RateLimiter
}

// NewPDFReader creates a PDF reader. A non-positive maxBytes disables the size check.
// The limiter is normally the one shared with the Store.
func NewPDFReader(svc *drive.Service, limiter *RateLimiter, norm *pdf.Normaliser, maxBytes int64) *PDFReader {
	return &PDFReader{svc: svc, norm: norm, maxBytes: maxBytes, limiter: driveLimiter(limiter)}
}

// FileType implements driven.Reader.
func (r *PDFReader) FileType() domain.FileType { return domain.FileTypePDF }

// Read downloads the file and extracts one passage per page.
// Pages that fail to extract mark the document partial.
func (r *PDFReader) Read(ctx context.Context, file domain.FileDescriptor) (*domain.Document, error) {
	data, err := r.download(ctx, file.ID)
	if err != nil {
		return nil, err
	}

	res, err := r.norm.Normalise(data)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		File:     file,
		Link:     Link(file),
		Passages: res.Passages,
		Partial:  res.Partial(),
	}, nil
}

func (r *PDFReader) download(ctx context.Context, id string) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := r.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, observe(r.limiter, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if r.maxBytes > 0 {
		body = io.LimitReader(resp.Body, r.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read pdf body: %w", err)
	}
	if r.maxBytes > 0 && int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("%w: pdf exceeds %d bytes", domain.ErrInvalidInput, r.maxBytes)
	}
	return data, nil
}
