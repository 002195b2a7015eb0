// Package sheet flattens spreadsheet values into positioned passages.
package sheet

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// CellSeparator joins the cells of one row.
const CellSeparator = " | "

// Normaliser groups sheet rows into blocks and splits long blocks by words.
type Normaliser struct {
	rowsPerBlock int
	chunkWords   int
	header       bool
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithHeaderRow labels every cell with the first row's column name
// ("Region: North | Contact: ana@example.com"). The header row itself is
// not emitted.
func WithHeaderRow() Option {
	return func(n *Normaliser) { n.header = true }
}

// New creates a normaliser. Non-positive sizes fall back to one row per
// block and no word splitting.
func New(rowsPerBlock, chunkWords int, opts ...Option) *Normaliser {
	if rowsPerBlock <= 0 {
		rowsPerBlock = 1
	}
	n := &Normaliser{rowsPerBlock: rowsPerBlock, chunkWords: chunkWords}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ForSettings builds a normaliser from reader settings.
func ForSettings(s domain.ReaderSettings) *Normaliser {
	return New(s.SheetRowsPerBlock, s.ChunkWords)
}

// Normalise converts raw sheet values, as returned by the Sheets API, into
// passages. Blank rows are skipped and do not count toward a block.
// With one row per block the locator is the 1-based sheet row; otherwise it
// is the 1-based block number.
func (n *Normaliser) Normalise(values [][]interface{}) []domain.Passage {
	var header []string
	start := 0
	if n.header && len(values) > 0 {
		header = cells(values[0])
		start = 1
	}

	var out []domain.Passage
	var block []string
	blockNo := 0
	lastRow := 0

	flush := func() {
		if len(block) == 0 {
			return
		}
		blockNo++
		loc := domain.BlockAt(blockNo)
		if n.rowsPerBlock == 1 {
			loc = domain.RowAt(lastRow)
		}
		joined := strings.Join(block, "\n")
		pieces := []string{joined}
		if n.chunkWords > 0 && len(text.Words(joined)) > n.chunkWords {
			pieces = text.SplitWords(joined, n.chunkWords)
		}
		for _, piece := range pieces {
			out = append(out, domain.Passage{Text: piece, Locator: loc})
		}
		block = block[:0]
	}

	for i := start; i < len(values); i++ {
		line := n.rowText(values[i], header)
		if line == "" {
			continue
		}
		block = append(block, line)
		lastRow = i + 1
		if len(block) == n.rowsPerBlock {
			flush()
		}
	}
	flush()

	return out
}

func (n *Normaliser) rowText(row []interface{}, header []string) string {
	vals := cells(row)
	parts := make([]string, 0, len(vals))
	for i, v := range vals {
		if v == "" {
			continue
		}
		if i < len(header) && header[i] != "" {
			v = header[i] + ": " + v
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, CellSeparator)
}

func cells(row []interface{}) []string {
	out := make([]string, len(row))
	for i, c := range row {
		if c == nil {
			continue
		}
		out[i] = text.Normalise(fmt.Sprint(c))
	}
	return out
}
