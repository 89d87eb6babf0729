package taxonomy

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DeafMist/competency-radar/internal/processing"
)

// Category is a named set of phrases. Phrase order is the deterministic
// iteration order used by the matcher; it carries no other meaning.
type Category struct {
	Name    string   `yaml:"name"`
	Phrases []string `yaml:"phrases"`
}

// Taxonomy is an ordered list of categories plus a flat trend list.
type Taxonomy struct {
	Categories []Category `yaml:"categories"`
	Trends     []string   `yaml:"trends,omitempty"`
}

// New builds a validated taxonomy. Phrases are normalized the same way
// documents are, duplicates inside a category or the trend list are dropped
// keeping the first occurrence, and phrases that normalize to nothing are
// discarded. Category names must be unique and non-empty.
func New(categories []Category, trends []string) (*Taxonomy, error) {
	t := &Taxonomy{
		Categories: make([]Category, 0, len(categories)),
		Trends:     uniquePhrases(trends),
	}

	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("category with %d phrases has no name", len(c.Phrases))
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = struct{}{}

		t.Categories = append(t.Categories, Category{
			Name:    name,
			Phrases: uniquePhrases(c.Phrases),
		})
	}

	return t, nil
}

// Load reads a YAML taxonomy file.
func Load(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Decode parses a YAML taxonomy and validates it through New.
func Decode(r io.Reader) (*Taxonomy, error) {
	var raw Taxonomy
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return New(raw.Categories, raw.Trends)
}

// Encode writes the taxonomy as YAML.
func (t *Taxonomy) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Resolve maps a configuration value onto a taxonomy: a preset name
// ("marketing", "curriculum") or a path to a YAML file.
func Resolve(ref string) (*Taxonomy, error) {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "", PresetMarketing:
		return Marketing(), nil
	case PresetCurriculum:
		return Curriculum(), nil
	default:
		return Load(ref)
	}
}

// PhraseCount is the total number of phrases, trends included.
func (t *Taxonomy) PhraseCount() int {
	n := len(t.Trends)
	for _, c := range t.Categories {
		n += len(c.Phrases)
	}
	return n
}

func uniquePhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		norm := processing.Normalize(p)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}
