package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeafMist/competency-radar/internal/models"
)

// CompetenciesColumn is the column appended to the augmented CSV.
const CompetenciesColumn = "competencies"

// WriteFile writes the annotated documents to path. ".ndjson" and ".jsonl"
// produce NDJSON, anything else CSV. table may be nil for documents that did
// not come from a CSV file, in which case the CSV carries only the document
// fields.
func WriteFile(path string, table *Table, docs []models.AnnotatedDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		err = WriteNDJSON(f, docs)
	default:
		err = WriteCSV(f, table, docs)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// WriteNDJSON writes one JSON document per line.
func WriteNDJSON(w io.Writer, docs []models.AnnotatedDocument) error {
	enc := json.NewEncoder(w)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode document %s: %w", d.ID, err)
		}
	}
	return nil
}

// WriteCSV writes the original columns of every annotated row plus a
// competencies column holding the JSON match list.
func WriteCSV(w io.Writer, table *Table, docs []models.AnnotatedDocument) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "date", "label", "text"}
	if table != nil {
		header = table.Header
	}
	if err := cw.Write(append(append([]string{}, header...), CompetenciesColumn)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, d := range docs {
		matches, err := json.Marshal(d.Competencies)
		if err != nil {
			return fmt.Errorf("encode competencies %s: %w", d.ID, err)
		}

		var row []string
		if table != nil && d.Row >= 0 && d.Row < len(table.Rows) {
			row = padded(table.Rows[d.Row], len(header))
		} else {
			row = []string{d.ID, formatDate(d), d.Label, d.Text}
		}
		if err := cw.Write(append(row, string(matches))); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func padded(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

func formatDate(d models.AnnotatedDocument) string {
	if d.Date.IsZero() {
		return ""
	}
	return d.Date.Format("2006-01-02")
}
