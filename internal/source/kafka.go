package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/competency-radar/internal/dataset"
	"github.com/DeafMist/competency-radar/internal/dedupe"
	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/DeafMist/competency-radar/internal/processing"
)

const dlqAttempts = 3

// Fetcher is the subset of *kafka.Reader the source needs.
type Fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher is the subset of *kafka.Writer used for the dead letter topic.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Config describes the topic to drain.
type Config struct {
	Brokers     []string
	Topic       string
	Group       string
	IdleTimeout time.Duration
	MaxMessages int
}

// Options tune a Kafka source.
type Options struct {
	// IdleTimeout ends the batch when no message arrives within it.
	IdleTimeout time.Duration
	// MaxMessages caps the documents in one batch; <= 0 means no cap.
	MaxMessages int
	// Cache drops documents whose ID was already seen. Optional.
	Cache *dedupe.Cache
	// Backoff is the base delay between dead letter write attempts.
	Backoff time.Duration
	Log     *slog.Logger
}

// Kafka turns a topic into one batch of documents.
type Kafka struct {
	reader  Fetcher
	dlq     Publisher
	opts    Options
	log     *slog.Logger
	closers []io.Closer
}

// Batch is one drained set of documents plus the messages to commit once the
// caller is done with them.
type Batch struct {
	Docs    []models.Document
	pending []kafka.Message
}

type rawPosting struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Date  string `json:"date"`
	Label string `json:"label"`
}

// Dial connects a reader and a dead letter writer ("<topic>_dlq").
func Dial(cfg Config, opts Options) *Kafka {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.Group,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // commit explicitly after the batch is written
	})
	dlq := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic + "_dlq",
		MaxAttempts: 3,
	})

	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = cfg.IdleTimeout
	}
	if opts.MaxMessages == 0 {
		opts.MaxMessages = cfg.MaxMessages
	}

	k := New(reader, dlq, opts)
	k.closers = []io.Closer{reader, dlq}
	return k
}

// New builds a source on top of existing clients.
func New(reader Fetcher, dlq Publisher, opts Options) *Kafka {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 10 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Kafka{reader: reader, dlq: dlq, opts: opts, log: log}
}

// Close releases the clients opened by Dial.
func (k *Kafka) Close() error {
	var errs []error
	for _, c := range k.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Drain fetches messages until the topic stays idle for IdleTimeout or
// MaxMessages documents were collected. Malformed payloads go to the dead
// letter topic, duplicates are skipped. A malformed payload the dead letter
// topic cannot take ends the batch before it, leaving it uncommitted.
func (k *Kafka) Drain(ctx context.Context) (*Batch, error) {
	b := &Batch{}

	for k.opts.MaxMessages <= 0 || len(b.Docs) < k.opts.MaxMessages {
		fetchCtx, cancel := context.WithTimeout(ctx, k.opts.IdleTimeout)
		msg, err := k.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				k.log.Info("topic idle, closing batch", slog.Int("documents", len(b.Docs)))
				break
			}
			return nil, fmt.Errorf("fetch message: %w", err)
		}

		doc, err := decodePosting(msg.Value)
		if err != nil {
			k.log.Warn("malformed posting, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			if dlqErr := k.deadLetter(ctx, msg, err); dlqErr != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				// Committing anything fetched after msg would move the
				// partition past it, so the batch ends here.
				k.log.Error("DLQ write exhausted retries, closing batch before message",
					slog.Any("err", dlqErr),
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
					slog.Int("documents", len(b.Docs)),
				)
				break
			}
			b.pending = append(b.pending, msg)
			continue
		}

		b.pending = append(b.pending, msg)
		if k.opts.Cache != nil && !k.opts.Cache.Add(doc.ID) {
			k.log.Debug("duplicate posting", slog.String("id", doc.ID))
			continue
		}

		doc.Row = len(b.Docs)
		b.Docs = append(b.Docs, doc)
	}

	return b, nil
}

// Commit acknowledges every message consumed by the batch.
func (k *Kafka) Commit(ctx context.Context, b *Batch) error {
	if b == nil || len(b.pending) == 0 {
		return nil
	}
	if err := k.reader.CommitMessages(ctx, b.pending...); err != nil {
		return fmt.Errorf("commit messages: %w", err)
	}
	return nil
}

func (k *Kafka) deadLetter(ctx context.Context, msg kafka.Message, cause error) error {
	if k.dlq == nil {
		return errors.New("no dead letter writer")
	}

	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(append([]kafka.Header{}, msg.Headers...),
			kafka.Header{Key: "original_partition", Value: []byte(strconv.Itoa(msg.Partition))},
			kafka.Header{Key: "original_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		),
	}

	var err error
	for attempt := range dlqAttempts {
		if err = k.dlq.WriteMessages(ctx, dlqMsg); err == nil {
			return nil
		}
		backoff := k.opts.Backoff * time.Duration(1<<uint(attempt))
		k.log.Warn("DLQ write failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func decodePosting(data []byte) (models.Document, error) {
	var p rawPosting
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Document{}, fmt.Errorf("decode posting: %w", err)
	}

	id := strings.TrimSpace(p.ID)
	if id == "" && strings.TrimSpace(p.Text) == "" {
		return models.Document{}, errors.New("empty posting")
	}

	doc := models.Document{
		Text:  p.Text,
		Date:  dataset.ParseDate(p.Date),
		Label: strings.TrimSpace(p.Label),
	}
	if id == "" {
		id = processing.BuildDocumentID(doc.Label, doc.Text, doc.Date)
	}
	doc.ID = id
	return doc, nil
}
