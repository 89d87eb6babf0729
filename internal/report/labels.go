package report

import (
	"sort"
	"strings"

	"github.com/DeafMist/competency-radar/internal/models"
)

// LabelStat summarises the documents sharing one label, e.g. a generalized
// position title.
type LabelStat struct {
	Label          string  `json:"label"`
	Documents      int     `json:"documents"`
	AverageMatches float64 `json:"average_matches"`
}

// ByLabel returns the top most frequent labels with the average number of
// matches per document. Documents without a label are ignored. top <= 0
// returns every label.
func ByLabel(docs []models.AnnotatedDocument, top int) []LabelStat {
	type acc struct {
		docs    int
		matches int
	}
	groups := make(map[string]*acc)
	for _, d := range docs {
		label := strings.TrimSpace(d.Label)
		if label == "" {
			continue
		}
		g, ok := groups[label]
		if !ok {
			g = &acc{}
			groups[label] = g
		}
		g.docs++
		g.matches += len(d.Competencies)
	}

	out := make([]LabelStat, 0, len(groups))
	for label, g := range groups {
		out = append(out, LabelStat{
			Label:          label,
			Documents:      g.docs,
			AverageMatches: float64(g.matches) / float64(g.docs),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Documents == out[j].Documents {
			return out[i].Label < out[j].Label
		}
		return out[i].Documents > out[j].Documents
	})

	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}
