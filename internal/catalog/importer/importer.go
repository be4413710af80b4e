// Package importer reads equipment spreadsheets into catalog documents.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"Caldera/internal/catalog"
)

var ErrEmptySheet = errors.New("spreadsheet has no data rows")

// Read maps each row of the first sheet to a document keyed by the header row.
// Header names are kept as written; catalog.Normalize resolves the aliases.
// Cells are read unformatted so number formats cannot change the value.
// Blank rows and blank cells are skipped.
func Read(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var docs []map[string]any
	for _, row := range rows[1:] {
		doc := make(map[string]any, len(header))
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if i >= len(header) || header[i] == "" || cell == "" {
				continue
			}
			doc[header[i]] = cell
		}
		if len(doc) > 0 {
			docs = append(docs, doc)
		}
	}
	if len(docs) == 0 {
		return nil, ErrEmptySheet
	}
	return docs, nil
}

type Summary struct {
	Kind     catalog.Kind        `json:"kind"`
	Imported int                 `json:"imported"`
	Rejected []catalog.Rejection `json:"rejected,omitempty"`
}

// Load reads a spreadsheet and ingests it as kind. Documents without an
// identity fail the whole import.
func Load(r io.Reader, kind catalog.Kind) ([]catalog.Record, Summary, error) {
	docs, err := Read(r)
	if err != nil {
		return nil, Summary{}, err
	}
	records, rejected, err := catalog.Ingest(kind, docs)
	if err != nil {
		return nil, Summary{}, err
	}
	return records, Summary{Kind: kind, Imported: len(records), Rejected: rejected}, nil
}
