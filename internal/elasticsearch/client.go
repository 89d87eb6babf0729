package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/DeafMist/competency-radar/internal/report"
)

// ReportSuffix is appended to the document index to name the report index.
const ReportSuffix = "_reports"

// Client wraps go-elasticsearch with helpers tailored to this project.
type Client struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

// ReportDocument is the stored form of one run's aggregate report.
type ReportDocument struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Taxonomy  string    `json:"taxonomy,omitempty"`
	report.Report
}

// New instantiates the Elasticsearch client.
func New(addr, index string, logger *slog.Logger) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{addr},
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{es: es, index: index, log: logger}, nil
}

// Index returns the index annotated documents are written to.
func (c *Client) Index() string {
	return c.index
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.Status())
	}

	return nil
}

// WaitReady pings until the cluster answers, doubling delay between attempts
// up to 30s.
func (c *Client) WaitReady(ctx context.Context, attempts int, delay time.Duration) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = c.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		c.log.Warn("elasticsearch ping failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", i+1),
			slog.Int("max_retries", attempts),
			slog.Duration("retry_in", delay),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, 30*time.Second)
	}
	return err
}

// IndexDocument writes one annotated document, keyed by its ID.
func (c *Client) IndexDocument(ctx context.Context, doc models.AnnotatedDocument) error {
	return c.put(ctx, c.index, doc.ID, doc)
}

// IndexReport stores the aggregate report of a run in the report index.
func (c *Client) IndexReport(ctx context.Context, doc ReportDocument) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return c.put(ctx, c.index+ReportSuffix, doc.RunID, doc)
}

func (c *Client) put(ctx context.Context, index, id string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("index doc: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index doc %s/%s failed: %s", index, id, strings.TrimSpace(string(data)))
	}

	c.log.Debug("indexed", slog.String("index", index), slog.String("id", id))
	return nil
}
