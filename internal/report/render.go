package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderOptions controls the text report.
type RenderOptions struct {
	// TopPhrases limits the phrase section; <= 0 prints every phrase.
	TopPhrases int
	// Labels, when non-empty, adds a per-label section.
	Labels []LabelStat
}

// Render writes a human readable report with thousands separators.
func Render(w io.Writer, r Report, opts RenderOptions) error {
	var buf bytes.Buffer
	p := message.NewPrinter(language.English)

	p.Fprintf(&buf, "=== Competency Analysis Results ===\n")
	p.Fprintf(&buf, "Total job descriptions analyzed: %d\n", r.Documents)
	p.Fprintf(&buf, "Total competencies found: %d\n", r.TotalMatches)
	p.Fprintf(&buf, "Average competencies per description: %.1f\n", r.AverageMatch)

	phrases := r.Phrases
	if opts.TopPhrases > 0 && opts.TopPhrases < len(phrases) {
		phrases = phrases[:opts.TopPhrases]
	}
	if opts.TopPhrases > 0 {
		p.Fprintf(&buf, "\nTop %d most mentioned competencies:\n", opts.TopPhrases)
	} else {
		p.Fprintf(&buf, "\nMentioned competencies:\n")
	}
	for _, c := range phrases {
		p.Fprintf(&buf, "%s: %d mentions (%.1f%% of job posts)\n", c.Name, c.Count, c.Percent)
	}

	p.Fprintf(&buf, "\n=== Competencies by Category ===\n")
	for _, c := range r.Categories {
		p.Fprintf(&buf, "%s: %d mentions (%.1f%% of job posts)\n", c.Name, c.Count, c.Percent)
	}

	if len(opts.Labels) > 0 {
		p.Fprintf(&buf, "\n=== Competencies per job title type ===\n")
		for _, l := range opts.Labels {
			p.Fprintf(&buf, "\n%s (%d positions):\n", l.Label, l.Documents)
			p.Fprintf(&buf, "Average competencies per position: %.1f\n", l.AverageMatches)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteCSV exports the report as kind,name,count,percent rows.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "name", "count", "percent"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	write := func(kind string, rows []Count) error {
		for _, c := range rows {
			rec := []string{kind, c.Name, strconv.Itoa(c.Count), strconv.FormatFloat(c.Percent, 'f', 2, 64)}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		return nil
	}
	if err := write("phrase", r.Phrases); err != nil {
		return err
	}
	if err := write("category", r.Categories); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
