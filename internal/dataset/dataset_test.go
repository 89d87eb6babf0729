package dataset_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DeafMist/competency-radar/internal/dataset"
	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/stretchr/testify/require"
)

var cols = dataset.Columns{
	Text:  "selectedtextincludinghtml",
	Date:  "datefound",
	Label: "positiontitlegeneralized",
}

const sample = "\ufeffpositiontitle,selectedtextincludinghtml,datefound,positiontitlegeneralized\n" +
	"Online Marketeer,\"<p>Ervaring met SEO, SEA</p>\",2021-03-04,marketeer\n" +
	"Data Analist,Kennis van SQL,2019-12-31 08:00:00,analist\n" +
	"Stagiair,,not-a-date\n"

func TestRead(t *testing.T) {
	table, err := dataset.Read(strings.NewReader(sample), cols)
	require.NoError(t, err)

	require.Equal(t, "positiontitle", table.Header[0])
	require.Len(t, table.Rows, 3)
	require.Len(t, table.Docs, 3)

	first := table.Docs[0]
	require.Equal(t, 0, first.Row)
	require.Equal(t, "<p>Ervaring met SEO, SEA</p>", first.Text)
	require.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), first.Date)
	require.Equal(t, "marketeer", first.Label)
	require.NotEmpty(t, first.ID)

	require.Equal(t, 2019, table.Docs[1].Date.Year())

	short := table.Docs[2]
	require.Equal(t, "", short.Text)
	require.True(t, short.Date.IsZero())
	require.Equal(t, "", short.Label)
}

func TestReadOptionalColumns(t *testing.T) {
	table, err := dataset.Read(strings.NewReader("text\nhallo\n"), dataset.Columns{Text: "TEXT", Date: "datefound"})
	require.NoError(t, err)
	require.Len(t, table.Docs, 1)
	require.Equal(t, "hallo", table.Docs[0].Text)
	require.True(t, table.Docs[0].Date.IsZero())
}

func TestReadErrors(t *testing.T) {
	_, err := dataset.Read(strings.NewReader(""), cols)
	require.ErrorContains(t, err, "empty csv")

	_, err = dataset.Read(strings.NewReader("a,b\n1,2\n"), cols)
	require.ErrorContains(t, err, "selectedtextincludinghtml")
}

func TestOpenDecodesCharset(t *testing.T) {
	// "één" in windows-1252
	raw := []byte("selectedtextincludinghtml\n\xe9\xe9n\n")
	path := filepath.Join(t.TempDir(), "latin.csv")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	table, err := dataset.Open(path, "windows-1252", cols)
	require.NoError(t, err)
	require.Equal(t, "één", table.Docs[0].Text)

	_, err = dataset.Open(path, "no-such-charset", cols)
	require.Error(t, err)

	_, err = dataset.Open(filepath.Join(t.TempDir(), "missing.csv"), "", cols)
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2020-01-01", want: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{raw: "2020-01-01T10:00:00Z", want: time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)},
		{raw: " 2020/02/03 ", want: time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC)},
		{raw: "03-02-2020", want: time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC)},
		{raw: "", want: time.Time{}},
		{raw: "gisteren", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			require.True(t, tt.want.Equal(dataset.ParseDate(tt.raw)))
		})
	}
}

func TestFilterSinceAndYearCounts(t *testing.T) {
	docs := []models.Document{
		{ID: "a", Date: time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c", Date: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "d", Date: time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "e"},
	}

	cutoff := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := dataset.FilterSince(docs, cutoff)
	ids := make([]string, 0, len(recent))
	for _, d := range recent {
		ids = append(ids, d.ID)
	}
	require.Equal(t, []string{"b", "c", "d"}, ids)

	require.Len(t, dataset.FilterSince(docs, time.Time{}), 5)

	require.Equal(t, []dataset.YearCount{
		{Year: 2019, Count: 1},
		{Year: 2020, Count: 1},
		{Year: 2021, Count: 2},
	}, dataset.YearCounts(docs))
}

func TestWriteCSVAugmentsRows(t *testing.T) {
	table, err := dataset.Read(strings.NewReader(sample), cols)
	require.NoError(t, err)

	docs := []models.AnnotatedDocument{
		{
			Document:     table.Docs[1],
			Competencies: []models.Match{{Phrase: "sql", Category: "data_analytics", Method: models.MethodRuleBased}},
		},
		{Document: table.Docs[2], Competencies: []models.Match{}},
	}

	var buf bytes.Buffer
	require.NoError(t, dataset.WriteCSV(&buf, table, docs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, append(append([]string{}, table.Header...), dataset.CompetenciesColumn), records[0])
	require.Equal(t, "Data Analist", records[1][0])
	require.Equal(t, `[{"competency":"sql","category":"data_analytics","method":"rule-based"}]`, records[1][4])
	require.Len(t, records[2], 5)
	require.Equal(t, "[]", records[2][4])
}

func TestWriteFileNDJSON(t *testing.T) {
	docs := []models.AnnotatedDocument{
		{Document: models.Document{ID: "x", Text: "seo"}, Competencies: []models.Match{{Phrase: "seo", Category: "technical_marketing", Method: models.MethodRuleBased}}},
		{Document: models.Document{ID: "y"}, Competencies: []models.Match{}},
	}
	path := filepath.Join(t.TempDir(), "out.ndjson")
	require.NoError(t, dataset.WriteFile(path, nil, docs))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var back models.AnnotatedDocument
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &back))
	require.Equal(t, "x", back.ID)
	require.Equal(t, docs[0].Competencies, back.Competencies)
	require.NotContains(t, lines[1], `"date"`)
}

func TestWriteFileCSVWithoutTable(t *testing.T) {
	docs := []models.AnnotatedDocument{
		{Document: models.Document{ID: "k1", Label: "marketeer", Text: "seo", Date: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)}, Competencies: []models.Match{}},
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, dataset.WriteFile(path, nil, docs))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"id", "date", "label", "text", "competencies"}, records[0])
	require.Equal(t, []string{"k1", "2024-05-06", "marketeer", "seo", "[]"}, records[1])
}
