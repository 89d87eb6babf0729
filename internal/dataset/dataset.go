package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/DeafMist/competency-radar/internal/processing"
)

// Columns names the CSV columns the loader reads. Date and Label are
// optional: when empty or absent from the header the field stays empty.
type Columns struct {
	Text  string
	Date  string
	Label string
}

// Table is a loaded CSV file. Rows keep every original column so the
// augmented output can reproduce them.
type Table struct {
	Header []string
	Rows   [][]string
	Docs   []models.Document
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
}

// Open loads a CSV file, decoding it from charsetLabel first when set
// (for example "windows-1252").
func Open(path, charsetLabel string, cols Columns) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if label := strings.TrimSpace(charsetLabel); label != "" {
		r, err = charset.NewReaderLabel(label, f)
		if err != nil {
			return nil, fmt.Errorf("charset %q: %w", label, err)
		}
	}

	t, err := Read(r, cols)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV with a header row into a Table. The text column must be
// present; short rows yield empty fields.
func Read(r io.Reader, cols Columns) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	textCol := columnIndex(header, cols.Text)
	if textCol == -1 {
		return nil, fmt.Errorf("csv must contain a %q header column", cols.Text)
	}
	dateCol := columnIndex(header, cols.Date)
	labelCol := columnIndex(header, cols.Label)

	t := &Table{Header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}

		n := len(t.Rows)
		t.Rows = append(t.Rows, row)

		doc := models.Document{
			Row:   n,
			Text:  field(row, textCol),
			Date:  ParseDate(field(row, dateCol)),
			Label: strings.TrimSpace(field(row, labelCol)),
		}
		doc.ID = processing.BuildDocumentID(doc.Label, doc.Text, doc.Date)
		t.Docs = append(t.Docs, doc)
	}

	return t, nil
}

// ParseDate accepts the date layouts seen in job-posting exports and returns
// the zero time for anything else.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// FilterSince keeps documents dated on or after cutoff. Undated documents
// are dropped. A zero cutoff keeps everything.
func FilterSince(docs []models.Document, cutoff time.Time) []models.Document {
	if cutoff.IsZero() {
		return docs
	}
	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if d.Date.IsZero() || d.Date.Before(cutoff) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// YearCount is the number of documents dated in one year.
type YearCount struct {
	Year  int
	Count int
}

// YearCounts returns a per-year histogram, oldest year first. Undated
// documents are not counted.
func YearCounts(docs []models.Document) []YearCount {
	counts := make(map[int]int)
	for _, d := range docs {
		if d.Date.IsZero() {
			continue
		}
		counts[d.Date.Year()]++
	}

	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func columnIndex(header []string, name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
