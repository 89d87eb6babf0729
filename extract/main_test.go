package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/competency-radar/internal/config"
	"github.com/DeafMist/competency-radar/internal/dataset"
	"github.com/DeafMist/competency-radar/internal/elasticsearch"
	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/DeafMist/competency-radar/internal/source"
	"github.com/DeafMist/competency-radar/internal/taxonomy"
)

const postingsCSV = `text,date,label
"<p>SEO &amp; CRM</p>",2022-05-01,Marketing Manager
"Python and GDPR compliance",2021-03-01,Data Analyst
"Python",2018-01-01,Data Analyst
`

type stubIndexer struct {
	docs    []models.AnnotatedDocument
	reports []elasticsearch.ReportDocument
	failIDs map[string]bool
}

func (s *stubIndexer) IndexDocument(_ context.Context, doc models.AnnotatedDocument) error {
	if s.failIDs[doc.ID] {
		return errors.New("index unavailable")
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *stubIndexer) IndexReport(_ context.Context, doc elasticsearch.ReportDocument) error {
	s.reports = append(s.reports, doc)
	return nil
}

type stubSource struct {
	batch     *source.Batch
	drainErr  error
	committed []*source.Batch
}

func (s *stubSource) Drain(context.Context) (*source.Batch, error) {
	if s.drainErr != nil {
		return nil, s.drainErr
	}
	return s.batch, nil
}

func (s *stubSource) Commit(_ context.Context, b *source.Batch) error {
	s.committed = append(s.committed, b)
	return nil
}

func newPipeline(t *testing.T, out io.Writer, idx documentIndexer) (*pipeline, *dataset.Table) {
	t.Helper()

	tax, err := taxonomy.New([]taxonomy.Category{
		{Name: "digital", Phrases: []string{"SEO", "CRM"}},
		{Name: "data", Phrases: []string{"Python"}},
	}, []string{"GDPR compliance"})
	require.NoError(t, err)

	table, err := dataset.Read(strings.NewReader(postingsCSV), dataset.Columns{
		Text:  "text",
		Date:  "date",
		Label: "label",
	})
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := &config.Extract{
		Since:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		SampleSize: 0,
		SampleSeed: 42,
		Taxonomy:   "custom",
		Workers:    2,
		TopPhrases: 10,
		TopLabels:  5,
		Output:     filepath.Join(dir, "annotated.ndjson"),
		ReportCSV:  filepath.Join(dir, "report.csv"),
	}

	p := &pipeline{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:     cfg,
		tax:     tax,
		out:     out,
		indexer: idx,
		runID:   "run-1",
	}
	return p, table
}

func TestPipelineRun(t *testing.T) {
	var out bytes.Buffer
	idx := &stubIndexer{}
	p, table := newPipeline(t, &out, idx)

	rep, err := p.run(context.Background(), table.Docs, table)
	require.NoError(t, err)

	require.Equal(t, 2, rep.Documents)
	require.Equal(t, 4, rep.TotalMatches)

	names := make([]string, 0, len(rep.Phrases))
	for _, c := range rep.Phrases {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"seo", "crm", "python", "gdpr compliance"}, names)
	require.Equal(t, "digital", rep.Categories[0].Name)
	require.Equal(t, 2, rep.Categories[0].Count)

	text := out.String()
	require.Contains(t, text, "Total job descriptions analyzed: 2")
	require.Contains(t, text, "seo: 1 mentions (50.0% of job posts)")
	require.Contains(t, text, "Data Analyst (1 positions):")

	reportCSV, err := os.ReadFile(p.cfg.ReportCSV)
	require.NoError(t, err)
	require.Contains(t, string(reportCSV), "category,digital,2,100.00")

	f, err := os.Open(p.cfg.Output)
	require.NoError(t, err)
	defer f.Close()

	var written []models.AnnotatedDocument
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var d models.AnnotatedDocument
		require.NoError(t, json.Unmarshal(sc.Bytes(), &d))
		written = append(written, d)
	}
	require.NoError(t, sc.Err())
	require.Len(t, written, 2)
	require.Equal(t, "run-1", written[0].RunID)
	require.Equal(t, "Marketing Manager", written[0].Label)

	require.Len(t, idx.docs, 2)
	require.Len(t, idx.reports, 1)
	require.Equal(t, "run-1", idx.reports[0].RunID)
	require.Equal(t, "custom", idx.reports[0].Taxonomy)
	require.Equal(t, 4, idx.reports[0].TotalMatches)
}

func TestPipelineRunWithoutIndexer(t *testing.T) {
	var out bytes.Buffer
	p, table := newPipeline(t, &out, nil)
	p.cfg.Since = time.Time{}
	p.cfg.Output = ""
	p.cfg.ReportCSV = ""

	rep, err := p.run(context.Background(), table.Docs, table)
	require.NoError(t, err)
	require.Equal(t, 3, rep.Documents)
	require.Equal(t, 5, rep.TotalMatches)
}

func TestPipelineSamples(t *testing.T) {
	p, table := newPipeline(t, io.Discard, nil)
	p.cfg.Since = time.Time{}
	p.cfg.SampleSize = 2

	first, err := p.run(context.Background(), table.Docs, table)
	require.NoError(t, err)
	second, err := p.run(context.Background(), table.Docs, table)
	require.NoError(t, err)

	require.Equal(t, 2, first.Documents)
	require.Equal(t, first, second)
}

func TestPipelineIndexFailureKeepsLocalOutput(t *testing.T) {
	p, table := newPipeline(t, io.Discard, nil)
	idx := &stubIndexer{failIDs: map[string]bool{table.Docs[0].ID: true}}
	p.indexer = idx

	_, err := p.run(context.Background(), table.Docs, table)
	require.ErrorContains(t, err, "1 of 2 documents failed to index")

	_, statErr := os.Stat(p.cfg.Output)
	require.NoError(t, statErr)
	require.Len(t, idx.docs, 1)
	require.Len(t, idx.reports, 1)
}

func TestPipelineEmptyCorpus(t *testing.T) {
	var out bytes.Buffer
	p, _ := newPipeline(t, &out, &stubIndexer{})

	rep, err := p.run(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Zero(t, rep.Documents)
	require.Empty(t, rep.Phrases)
	require.Contains(t, out.String(), "Total job descriptions analyzed: 0")
}

func TestPipelineCancelled(t *testing.T) {
	p, table := newPipeline(t, io.Discard, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.run(ctx, table.Docs, table)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunKafkaAnalysesWholeBatch(t *testing.T) {
	var out bytes.Buffer
	idx := &stubIndexer{}
	p, table := newPipeline(t, &out, idx)
	p.cfg.Since = time.Time{}
	p.cfg.SampleSize = 1
	p.cfg.Output = ""

	src := &stubSource{batch: &source.Batch{Docs: table.Docs}}
	require.NoError(t, runKafka(context.Background(), p, src))

	require.Len(t, idx.docs, 3, "committed postings must all be analysed")
	require.Equal(t, 3, idx.reports[0].Documents)
	require.Len(t, src.committed, 1)
	require.Same(t, src.batch, src.committed[0])
	require.Equal(t, 1, p.cfg.SampleSize, "caller config is left untouched")
}

func TestRunKafkaSkipsCommitOnFailure(t *testing.T) {
	p, table := newPipeline(t, io.Discard, nil)
	p.cfg.Output = ""
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &stubSource{batch: &source.Batch{Docs: table.Docs}}
	require.ErrorIs(t, runKafka(ctx, p, src), context.Canceled)
	require.Empty(t, src.committed)
}

func TestRunKafkaDrainError(t *testing.T) {
	p, _ := newPipeline(t, io.Discard, nil)
	src := &stubSource{drainErr: errors.New("fetch message: broker down")}

	require.ErrorContains(t, runKafka(context.Background(), p, src), "broker down")
	require.Empty(t, src.committed)
}
