package report

import (
	"sort"

	"github.com/DeafMist/competency-radar/internal/models"
	"github.com/DeafMist/competency-radar/internal/taxonomy"
)

// Count is one row of the aggregate report.
type Count struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Report aggregates matches over a corpus. Percentages are relative to the
// number of documents, so a phrase listed under two categories can count
// twice for the same document.
type Report struct {
	Documents    int     `json:"documents"`
	TotalMatches int     `json:"total_matches"`
	AverageMatch float64 `json:"average_per_document"`
	Phrases      []Count `json:"phrases"`
	Categories   []Count `json:"categories"`
}

// Tally accumulates match counts. Add and Merge only sum counters, so
// partial tallies can be combined in any order.
type Tally struct {
	phrases    map[string]int
	categories map[string]int
	total      int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{
		phrases:    make(map[string]int),
		categories: make(map[string]int),
	}
}

// Add counts every match of one document.
func (t *Tally) Add(matches []models.Match) {
	for _, m := range matches {
		t.phrases[m.Phrase]++
		t.categories[m.Category]++
		t.total++
	}
}

// Merge folds other into t.
func (t *Tally) Merge(other *Tally) {
	if other == nil {
		return
	}
	for k, v := range other.phrases {
		t.phrases[k] += v
	}
	for k, v := range other.categories {
		t.categories[k] += v
	}
	t.total += other.total
}

// Report turns the tally into a sorted report. Ties in count are broken by
// the position of the phrase or category in tax; names tax does not know
// sort after known ones, alphabetically.
func (t *Tally) Report(documents int, tax *taxonomy.Taxonomy) Report {
	phraseRank, categoryRank := ranks(tax)

	r := Report{
		Documents:    documents,
		TotalMatches: t.total,
		Phrases:      rows(t.phrases, phraseRank, documents),
		Categories:   rows(t.categories, categoryRank, documents),
	}
	if documents > 0 {
		r.AverageMatch = float64(t.total) / float64(documents)
	}
	return r
}

// Aggregate builds a report from per-document match lists.
func Aggregate(perDocument [][]models.Match, documents int, tax *taxonomy.Taxonomy) Report {
	t := NewTally()
	for _, matches := range perDocument {
		t.Add(matches)
	}
	return t.Report(documents, tax)
}

// FromAnnotated builds a report over annotated documents; the corpus size is
// the number of documents.
func FromAnnotated(docs []models.AnnotatedDocument, tax *taxonomy.Taxonomy) Report {
	t := NewTally()
	for _, d := range docs {
		t.Add(d.Competencies)
	}
	return t.Report(len(docs), tax)
}

// Percent returns count as a percentage of documents, 0 for an empty corpus.
func Percent(count, documents int) float64 {
	if documents <= 0 {
		return 0
	}
	return float64(count) / float64(documents) * 100
}

func rows(counts map[string]int, rank map[string]int, documents int) []Count {
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n, Percent: Percent(n, documents)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		ri, iok := rank[out[i].Name]
		rj, jok := rank[out[j].Name]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}

// ranks records first-seen positions of phrases and categories when
// iterating categories in order and then the trend list.
func ranks(tax *taxonomy.Taxonomy) (phrases, categories map[string]int) {
	phrases = make(map[string]int)
	categories = make(map[string]int)
	if tax == nil {
		return phrases, categories
	}

	see := func(m map[string]int, key string) {
		if _, ok := m[key]; !ok {
			m[key] = len(m)
		}
	}
	for _, c := range tax.Categories {
		see(categories, c.Name)
		for _, p := range c.Phrases {
			see(phrases, p)
		}
	}
	see(categories, models.TrendCategory)
	for _, p := range tax.Trends {
		see(phrases, p)
	}
	return phrases, categories
}
