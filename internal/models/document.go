package models

import "time"

// Method tells how a phrase was matched.
type Method string

const (
	MethodRuleBased     Method = "rule-based"
	MethodTrendMatching Method = "trend-matching"
)

// TrendCategory is the category label attached to trend-list matches.
const TrendCategory = "latest_trends"

// Document is one job posting as handed to the extractor.
type Document struct {
	ID    string    `json:"id"`
	Row   int       `json:"row"`
	Text  string    `json:"text"`
	Date  time.Time `json:"date,omitzero"`
	Label string    `json:"label,omitempty"`
}

// Match is a single phrase hit inside a document.
type Match struct {
	Phrase   string `json:"competency"`
	Category string `json:"category"`
	Method   Method `json:"method"`
}

// AnnotatedDocument is a document together with its matches, the shape
// written to NDJSON output and Elasticsearch.
type AnnotatedDocument struct {
	Document
	RunID        string  `json:"run_id,omitempty"`
	Competencies []Match `json:"competencies"`
}
