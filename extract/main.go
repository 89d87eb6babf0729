package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/DeafMist/competency-radar/internal/config"
	"github.com/DeafMist/competency-radar/internal/dataset"
	"github.com/DeafMist/competency-radar/internal/dedupe"
	"github.com/DeafMist/competency-radar/internal/elasticsearch"
	"github.com/DeafMist/competency-radar/internal/extractor"
	"github.com/DeafMist/competency-radar/internal/logger"
	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/DeafMist/competency-radar/internal/report"
	"github.com/DeafMist/competency-radar/internal/sampling"
	"github.com/DeafMist/competency-radar/internal/source"
	"github.com/DeafMist/competency-radar/internal/taxonomy"
)

type batchSource interface {
	Drain(ctx context.Context) (*source.Batch, error)
	Commit(ctx context.Context, b *source.Batch) error
}

type documentIndexer interface {
	IndexDocument(ctx context.Context, doc models.AnnotatedDocument) error
	IndexReport(ctx context.Context, doc elasticsearch.ReportDocument) error
}

// pipeline runs one extraction over an in-memory corpus.
type pipeline struct {
	log     *slog.Logger
	cfg     *config.Extract
	tax     *taxonomy.Taxonomy
	out     io.Writer
	indexer documentIndexer
	runID   string
}

func main() {
	log := logger.New("extract")
	cfg, err := config.LoadExtract()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	tax, err := taxonomy.Resolve(cfg.Taxonomy)
	if err != nil {
		log.Error("load taxonomy", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	p := &pipeline{
		log:   log,
		cfg:   cfg,
		tax:   tax,
		out:   os.Stdout,
		runID: uuid.NewString(),
	}

	if cfg.ElasticsearchEnabled() {
		esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
		if err != nil {
			log.Error("init elasticsearch", slog.Any("err", err))
			os.Exit(1)
		}
		if err := esClient.WaitReady(ctx, 5, 2*time.Second); err != nil {
			log.Error("elasticsearch unavailable", slog.Any("err", err))
			os.Exit(1)
		}
		p.indexer = esClient
	}

	log.Info("extraction started",
		slog.String("run_id", p.runID),
		slog.String("source", cfg.Source),
		slog.String("taxonomy", cfg.Taxonomy),
		slog.Int("categories", len(tax.Categories)),
		slog.Int("phrases", tax.PhraseCount()),
	)

	switch cfg.Source {
	case config.SourceKafka:
		src := dialKafka(p)
		err = runKafka(ctx, p, src)
		if cerr := src.Close(); cerr != nil {
			log.Warn("close kafka clients", slog.Any("err", cerr))
		}
	default:
		err = runCSV(ctx, p)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("context canceled, stopping")
		} else {
			log.Error("extraction failed", slog.Any("err", err))
		}
		os.Exit(1)
	}
}

func runCSV(ctx context.Context, p *pipeline) error {
	table, err := dataset.Open(p.cfg.Input, p.cfg.InputCharset, dataset.Columns{
		Text:  p.cfg.TextColumn,
		Date:  p.cfg.DateColumn,
		Label: p.cfg.LabelColumn,
	})
	if err != nil {
		return err
	}
	p.log.Info("dataset loaded", slog.String("path", p.cfg.Input), slog.Int("rows", len(table.Docs)))

	_, err = p.run(ctx, table.Docs, table)
	return err
}

func dialKafka(p *pipeline) *source.Kafka {
	p.log.Info("draining topic",
		slog.String("topic", p.cfg.Topic),
		slog.String("group", p.cfg.Consumer),
		slog.String("dlq_topic", p.cfg.Topic+"_dlq"),
	)
	return source.Dial(source.Config{
		Brokers:     p.cfg.Brokers,
		Topic:       p.cfg.Topic,
		Group:       p.cfg.Consumer,
		IdleTimeout: p.cfg.IdleTimeout,
		MaxMessages: p.cfg.MaxMessages,
	}, source.Options{
		Cache: dedupe.NewCache(p.cfg.DedupeCapacity, p.cfg.DedupeTTL),
		Log:   p.log,
	})
}

// runKafka analyses one drained batch and commits it. Committed messages are
// never read again, so the batch is not sampled: KAFKA_MAX_MESSAGES bounds it
// instead. Postings dropped by EXTRACT_SINCE are committed as well.
func runKafka(ctx context.Context, p *pipeline, src batchSource) error {
	batch, err := src.Drain(ctx)
	if err != nil {
		return err
	}

	if p.cfg.SampleSize > 0 {
		p.log.Info("sampling disabled for the kafka source",
			slog.Int("sample_size", p.cfg.SampleSize),
			slog.Int("max_messages", p.cfg.MaxMessages),
		)
		cfg := *p.cfg
		cfg.SampleSize = 0
		kp := *p
		kp.cfg = &cfg
		p = &kp
	}

	if _, err := p.run(ctx, batch.Docs, nil); err != nil {
		return err
	}
	return src.Commit(ctx, batch)
}

// run filters, samples, extracts and reports. Local outputs are written
// before indexing so an unreachable cluster does not lose the run.
func (p *pipeline) run(ctx context.Context, docs []models.Document, table *dataset.Table) (report.Report, error) {
	filtered := dataset.FilterSince(docs, p.cfg.Since)
	if !p.cfg.Since.IsZero() {
		p.log.Info("date filter applied",
			slog.String("since", p.cfg.Since.Format(time.DateOnly)),
			slog.Int("kept", len(filtered)),
			slog.Int("dropped", len(docs)-len(filtered)),
		)
	}
	for _, yc := range dataset.YearCounts(filtered) {
		p.log.Info("postings per year", slog.Int("year", yc.Year), slog.Int("count", yc.Count))
	}

	sample := sampling.Sample(filtered, p.cfg.SampleSize, p.cfg.SampleSeed)
	p.log.Info("sample drawn", slog.Int("size", len(sample)), slog.Uint64("seed", p.cfg.SampleSeed))

	ex := extractor.New(p.tax, extractor.WithWorkers(p.cfg.Workers), extractor.WithLogger(p.log))
	annotated, err := ex.Run(ctx, sample)
	if err != nil {
		return report.Report{}, fmt.Errorf("extract: %w", err)
	}
	for i := range annotated {
		annotated[i].RunID = p.runID
	}

	rep := report.FromAnnotated(annotated, p.tax)
	p.log.Info("extraction finished",
		slog.Int("documents", rep.Documents),
		slog.Int("matches", rep.TotalMatches),
		slog.Float64("average_per_document", rep.AverageMatch),
	)

	if err := report.Render(p.out, rep, report.RenderOptions{
		TopPhrases: p.cfg.TopPhrases,
		Labels:     report.ByLabel(annotated, p.cfg.TopLabels),
	}); err != nil {
		return rep, fmt.Errorf("render report: %w", err)
	}

	if p.cfg.ReportCSV != "" {
		if err := writeReportCSV(p.cfg.ReportCSV, rep); err != nil {
			return rep, err
		}
		p.log.Info("report written", slog.String("path", p.cfg.ReportCSV))
	}

	if p.cfg.Output != "" {
		if err := dataset.WriteFile(p.cfg.Output, table, annotated); err != nil {
			return rep, fmt.Errorf("write output: %w", err)
		}
		p.log.Info("annotated dataset written", slog.String("path", p.cfg.Output))
	}

	if p.indexer != nil {
		if err := p.index(ctx, annotated, rep); err != nil {
			return rep, err
		}
	}

	return rep, nil
}

func (p *pipeline) index(ctx context.Context, docs []models.AnnotatedDocument, rep report.Report) error {
	failed := 0
	for _, doc := range docs {
		if err := p.indexer.IndexDocument(ctx, doc); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			p.log.Warn("index document failed", slog.String("id", doc.ID), slog.Any("err", err))
		}
	}

	if err := p.indexer.IndexReport(ctx, elasticsearch.ReportDocument{
		RunID:    p.runID,
		Taxonomy: p.cfg.Taxonomy,
		Report:   rep,
	}); err != nil {
		return fmt.Errorf("index report: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to index", failed, len(docs))
	}
	p.log.Info("indexed run", slog.String("run_id", p.runID), slog.Int("documents", len(docs)))
	return nil
}

func writeReportCSV(path string, rep report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteCSV(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
