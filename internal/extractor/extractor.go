package extractor

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/DeafMist/competency-radar/internal/processing"
	"github.com/DeafMist/competency-radar/internal/taxonomy"
)

// progressEvery controls how often Run logs progress.
const progressEvery = 100

// Extractor matches documents against a fixed taxonomy.
type Extractor struct {
	tax     *taxonomy.Taxonomy
	workers int
	log     *slog.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithWorkers bounds how many documents are matched concurrently.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger used for progress reporting.
func WithLogger(log *slog.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an extractor for the given taxonomy. A nil taxonomy behaves
// like an empty one.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Extractor {
	if tax == nil {
		tax = &taxonomy.Taxonomy{}
	}
	e := &Extractor{
		tax:     tax,
		workers: runtime.NumCPU(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Taxonomy returns the taxonomy the extractor matches against.
func (e *Extractor) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// Extract normalizes raw text and matches it.
func (e *Extractor) Extract(text string) []models.Match {
	return e.MatchNormalized(processing.Normalize(text))
}

// MatchNormalized matches already normalized text. Every category phrase
// contained in text yields a rule-based match, in taxonomy order; trend
// phrases follow. Overlapping phrases match independently.
func (e *Extractor) MatchNormalized(text string) []models.Match {
	matches := make([]models.Match, 0)
	if text == "" {
		return matches
	}

	for _, c := range e.tax.Categories {
		for _, phrase := range c.Phrases {
			if strings.Contains(text, phrase) {
				matches = append(matches, models.Match{
					Phrase:   phrase,
					Category: c.Name,
					Method:   models.MethodRuleBased,
				})
			}
		}
	}

	for _, trend := range e.tax.Trends {
		if strings.Contains(text, trend) {
			matches = append(matches, models.Match{
				Phrase:   trend,
				Category: models.TrendCategory,
				Method:   models.MethodTrendMatching,
			})
		}
	}

	return matches
}

// Run extracts matches for every document on a bounded worker pool. The
// result has one entry per input document in input order. It stops early
// and returns ctx.Err() when ctx is cancelled.
func (e *Extractor) Run(ctx context.Context, docs []models.Document) ([]models.AnnotatedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.AnnotatedDocument, len(docs))
	if len(docs) == 0 {
		return out, nil
	}

	workers := e.workers
	if workers > len(docs) {
		workers = len(docs)
	}

	jobs := make(chan int)
	var (
		wg   sync.WaitGroup
		done atomic.Int64
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = models.AnnotatedDocument{
					Document:     docs[i],
					Competencies: e.Extract(docs[i].Text),
				}
				if n := done.Add(1); n%progressEvery == 0 {
					e.log.Info("extraction progress",
						slog.Int64("done", n),
						slog.Int("total", len(docs)),
					)
				}
			}
		}()
	}

	var err error
feed:
	for i := range docs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return out, nil
}
