package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "w"
	}
	return strings.Join(w, " ")
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkWords != DefaultChunkWords {
			t.Errorf("expected chunkWords %d, got %d", DefaultChunkWords, p.chunkWords)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkWords(50))
		if p.chunkWords != 50 {
			t.Errorf("expected chunkWords 50, got %d", p.chunkWords)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkWords(10), WithOverlap(15))
		if p.overlap >= p.chunkWords {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkWords(0), WithOverlap(-1))
		if p.chunkWords != DefaultChunkWords {
			t.Errorf("expected default chunkWords, got %d", p.chunkWords)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", New().Name())
	}
}

func TestProcessor_Process_ShortChunksUnchanged(t *testing.T) {
	in := []domain.Chunk{{ID: "a", Text: "short text", Locator: domain.ParagraphAt(1)}}

	out, err := New(WithChunkWords(5)).Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Errorf("expected chunk to pass through unchanged, got %+v", out)
	}
}

func TestProcessor_Process_SplitsLongChunks(t *testing.T) {
	in := []domain.Chunk{{
		ID:         "a",
		Text:       words(25),
		SourceName: "Handbook",
		Locator:    domain.PageAt(4),
	}}

	out, err := New(WithChunkWords(10)).Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(out))
	}

	ids := make(map[string]bool)
	for i, c := range out {
		if c.Locator != domain.PageAt(4) || c.SourceName != "Handbook" {
			t.Errorf("chunk %d lost its metadata: %+v", i, c)
		}
		ids[c.ID] = true
	}
	if len(ids) != 3 {
		t.Error("expected distinct chunk ids")
	}
	if got := len(strings.Fields(out[2].Text)); got != 5 {
		t.Errorf("expected 5 words in last chunk, got %d", got)
	}
}

func TestProcessor_Process_Overlap(t *testing.T) {
	in := []domain.Chunk{{Text: "a b c d e f g h"}}

	out, err := New(WithChunkWords(4), WithOverlap(2)).Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a b c d", "c d e f", "e f g h"}
	if len(out) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(out))
	}
	for i, c := range out {
		if c.Text != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], c.Text)
		}
	}
}

func TestProcessor_Process_Empty(t *testing.T) {
	out, err := New().Process(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(out))
	}
}
