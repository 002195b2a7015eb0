package gdrive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/normalisers/gdoc"
	"github.com/custodia-labs/conahgpt/internal/normalisers/pdf"
	"github.com/custodia-labs/conahgpt/internal/normalisers/sheet"
)

func para(txt, style, headingID string) map[string]any {
	return map[string]any{
		"paragraph": map[string]any{
			"elements":       []any{map[string]any{"textRun": map[string]any{"content": txt + "\n"}}},
			"paragraphStyle": map[string]any{"namedStyleType": style, "headingId": headingID},
		},
	}
}

func TestDocReader_Read(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/documents/d1" {
			writeAPIError(w, http.StatusNotFound, "notFound", "no such document")
			return
		}
		writeJSON(t, w, map[string]any{
			"documentId": "d1",
			"body": map[string]any{"content": []any{
				para("Refunds", "HEADING_1", "h.ref"),
				para("How long do refunds take?", "NORMAL_TEXT", ""),
				para("Five working days.", "NORMAL_TEXT", ""),
			}},
		})
	}))
	defer srv.Close()

	r := NewDocReader(newTestServices(t, srv).Docs, gdoc.ForSettings(testReaderSettings()))
	assert.Equal(t, domain.FileTypeDoc, r.FileType())

	file := domain.FileDescriptor{ID: "d1", Name: "FAQ", MIMEType: domain.MimeTypeGoogleDoc}
	doc, err := r.Read(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, file, doc.File)
	assert.Equal(t, "https://docs.google.com/document/d/d1/edit", doc.Link)
	assert.False(t, doc.Partial)
	require.Len(t, doc.Passages, 1)
	assert.Equal(t, "Question: How long do refunds take? Answer: Five working days.", doc.Passages[0].Text)
	assert.Equal(t, domain.ParagraphAt(2), doc.Passages[0].Locator)
	assert.Equal(t, "Refunds", doc.Passages[0].Section)
	assert.Equal(t, "#heading=h.ref", doc.Passages[0].Anchor)

	_, err = r.Read(context.Background(), domain.FileDescriptor{ID: "gone", MIMEType: domain.MimeTypeGoogleDoc})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSheetReader_Read(t *testing.T) {
	var valuesPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v4/spreadsheets/s1":
			writeJSON(t, w, map[string]any{"sheets": []any{
				map[string]any{"properties": map[string]any{"title": "Contacts"}},
				map[string]any{"properties": map[string]any{"title": "Archive"}},
			}})
		case strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/s1/values/"):
			valuesPath = r.URL.Path
			writeJSON(t, w, map[string]any{
				"range":  "Contacts!A1:B3",
				"values": [][]any{{"Region", "Contact"}, {}, {"North", "Ana"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewSheetReader(newTestServices(t, srv).Sheets, sheet.New(20, 300))
	assert.Equal(t, domain.FileTypeSheet, r.FileType())

	doc, err := r.Read(context.Background(), domain.FileDescriptor{ID: "s1", MIMEType: domain.MimeTypeGoogleSheet})
	require.NoError(t, err)

	assert.Equal(t, "/v4/spreadsheets/s1/values/'Contacts'", valuesPath)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/s1/edit", doc.Link)
	require.Len(t, doc.Passages, 1)
	assert.Equal(t, "Region | Contact\nNorth | Ana", doc.Passages[0].Text)
	assert.Equal(t, domain.BlockAt(1), doc.Passages[0].Locator)
}

func TestSheetReader_NoWorksheets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"sheets": []any{}})
	}))
	defer srv.Close()

	r := NewSheetReader(newTestServices(t, srv).Sheets, sheet.New(20, 300))
	doc, err := r.Read(context.Background(), domain.FileDescriptor{ID: "s1", MIMEType: domain.MimeTypeGoogleSheet})
	require.NoError(t, err)
	assert.Empty(t, doc.Passages)
}

func TestPDFReader_Download(t *testing.T) {
	body := "%PDF-1.4 not really a pdf"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/files/p1" && r.URL.Query().Get("alt") == "media":
			_, _ = w.Write([]byte(body))
		case r.URL.Path == "/files/limited":
			writeAPIError(w, http.StatusTooManyRequests, "rateLimitExceeded", "slow down")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	drv := newTestServices(t, srv).Drive

	t.Run("body within limit is returned", func(t *testing.T) {
		r := NewPDFReader(drv, nil, pdf.New(0, 0), 1024)
		data, err := r.download(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, body, string(data))
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		r := NewPDFReader(drv, nil, pdf.New(0, 0), 8)
		_, err := r.download(context.Background(), "p1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unparseable pdf fails the read", func(t *testing.T) {
		r := NewPDFReader(drv, nil, pdf.New(0, 0), 0)
		assert.Equal(t, domain.FileTypePDF, r.FileType())
		_, err := r.Read(context.Background(), domain.FileDescriptor{ID: "p1", MIMEType: domain.MimeTypePDF})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rate limit backs off the limiter", func(t *testing.T) {
		r := NewPDFReader(drv, nil, pdf.New(0, 0), 0)
		_, err := r.download(context.Background(), "limited")
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		assert.False(t, r.limiter.Allow())
	})
}

func TestReaders_ShareDriveLimiterWithStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusTooManyRequests, "userRateLimitExceeded", "slow down")
	}))
	defer srv.Close()
	svcs := newTestServices(t, srv)

	store := NewStore(svcs.Drive, svcs.DriveLimiter, domain.DriveSettings{})
	var reader *PDFReader
	for _, r := range Readers(svcs, testReaderSettings()) {
		if p, ok := r.(*PDFReader); ok {
			reader = p
		}
	}
	require.NotNil(t, reader)
	assert.Same(t, store.limiter, reader.limiter)

	_, err := store.ListFiles(context.Background(), "root")
	require.ErrorIs(t, err, domain.ErrRateLimited)
	assert.False(t, reader.limiter.Allow(), "backoff from listing should pace downloads")
}

func TestReaders_CoverEveryFileType(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	readers := Readers(newTestServices(t, srv), testReaderSettings())
	types := make([]domain.FileType, 0, len(readers))
	for _, r := range readers {
		types = append(types, r.FileType())
	}
	assert.ElementsMatch(t, []domain.FileType{domain.FileTypeDoc, domain.FileTypeSheet, domain.FileTypePDF}, types)
}
