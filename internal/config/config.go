package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Source kinds accepted by EXTRACT_SOURCE.
const (
	SourceCSV   = "csv"
	SourceKafka = "kafka"
)

// Common contains Elasticsearch parameters. An empty address disables the sink.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Kafka configures the optional topic source.
type Kafka struct {
	Brokers     []string
	Topic       string
	Consumer    string
	IdleTimeout time.Duration
	MaxMessages int
}

// Extract holds configuration for the extraction run.
type Extract struct {
	Common
	Kafka

	Source       string
	Input        string
	InputCharset string
	TextColumn   string
	DateColumn   string
	LabelColumn  string
	Since        time.Time

	SampleSize int
	SampleSeed uint64
	Taxonomy   string
	Workers    int

	Output     string
	ReportCSV  string
	TopPhrases int
	TopLabels  int

	DedupeCapacity int
	DedupeTTL      time.Duration
}

// LoadExtract builds an Extract config from environment variables. A .env
// file in the working directory is read first; real environment wins.
func LoadExtract() (*Extract, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	c := &Extract{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", ""),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "competencies"),
		},
		Kafka: Kafka{
			Brokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
			Topic:       getEnv("KAFKA_TOPIC", "job_postings"),
			Consumer:    getEnv("KAFKA_CONSUMER_GROUP", "competency-extract"),
			IdleTimeout: getDuration("KAFKA_IDLE_TIMEOUT", "10s"),
			MaxMessages: getInt("KAFKA_MAX_MESSAGES", 5000),
		},
		Source:         strings.ToLower(getEnv("EXTRACT_SOURCE", SourceCSV)),
		Input:          getEnv("EXTRACT_INPUT", ""),
		InputCharset:   getEnv("EXTRACT_INPUT_CHARSET", ""),
		TextColumn:     getEnv("EXTRACT_TEXT_COLUMN", "selectedtextincludinghtml"),
		DateColumn:     getEnv("EXTRACT_DATE_COLUMN", "datefound"),
		LabelColumn:    getEnv("EXTRACT_LABEL_COLUMN", "positiontitlegeneralized"),
		SampleSize:     getInt("EXTRACT_SAMPLE_SIZE", 5000),
		Taxonomy:       getEnv("EXTRACT_TAXONOMY", "marketing"),
		Workers:        getInt("EXTRACT_WORKERS", runtime.NumCPU()),
		Output:         getEnv("EXTRACT_OUTPUT", ""),
		ReportCSV:      getEnv("EXTRACT_REPORT_CSV", ""),
		TopPhrases:     getInt("EXTRACT_TOP_PHRASES", 50),
		TopLabels:      getInt("EXTRACT_TOP_LABELS", 10),
		DedupeCapacity: getInt("DEDUPE_CAPACITY", 20000),
		DedupeTTL:      getDuration("DEDUPE_TTL", "24h"),
	}

	seed, err := getUint("EXTRACT_SAMPLE_SEED", 42)
	if err != nil {
		return nil, err
	}
	c.SampleSeed = seed

	if raw := getEnv("EXTRACT_SINCE", ""); raw != "" {
		since, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("EXTRACT_SINCE must be YYYY-MM-DD: %w", err)
		}
		c.Since = since
	}

	switch c.Source {
	case SourceCSV:
		if c.Input == "" {
			return nil, fmt.Errorf("EXTRACT_INPUT is required for the csv source")
		}
	case SourceKafka:
		if len(c.Brokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
		}
		if c.IdleTimeout <= 0 {
			return nil, fmt.Errorf("KAFKA_IDLE_TIMEOUT must be positive")
		}
		if c.DedupeCapacity <= 0 {
			return nil, fmt.Errorf("DEDUPE_CAPACITY must be positive")
		}
	default:
		return nil, fmt.Errorf("EXTRACT_SOURCE must be %q or %q, got %q", SourceCSV, SourceKafka, c.Source)
	}

	if c.SampleSize < 0 {
		return nil, fmt.Errorf("EXTRACT_SAMPLE_SIZE cannot be negative")
	}
	if c.Workers <= 0 {
		return nil, fmt.Errorf("EXTRACT_WORKERS must be positive")
	}
	if c.TopPhrases < 0 {
		return nil, fmt.Errorf("EXTRACT_TOP_PHRASES cannot be negative")
	}
	if c.TopLabels < 0 {
		return nil, fmt.Errorf("EXTRACT_TOP_LABELS cannot be negative")
	}
	if c.ElasticsearchAddr != "" && c.ElasticsearchIndex == "" {
		return nil, fmt.Errorf("ELASTICSEARCH_INDEX is required when ELASTICSEARCH_ADDR is set")
	}

	return c, nil
}

// ElasticsearchEnabled reports whether annotated documents should be indexed.
func (c *Common) ElasticsearchEnabled() bool {
	return c.ElasticsearchAddr != ""
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

// getUint is strict: anything but a non-negative integer is an error.
func getUint(key string, fallback uint64) (uint64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
