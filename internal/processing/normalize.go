package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var angleBrackets = strings.NewReplacer("<", " ", ">", " ")

// Normalize turns raw posting text into the form phrases are matched against:
// markup removed, entities decoded, lowercased, whitespace collapsed and
// trimmed. Empty input yields "". Normalize(Normalize(s)) == Normalize(s).
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	text := input
	if strings.Contains(text, "<") {
		text = StripMarkup(text)
	}

	text = decode(text)
	// Decoded brackets must not survive, otherwise a second pass would parse
	// them as tags.
	text = angleBrackets.Replace(text)

	return CollapseWhitespace(text)
}

// StripMarkup returns the text content of an HTML fragment without script
// and style bodies. Input that cannot be parsed is returned unchanged.
func StripMarkup(input string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return input
	}
	doc.Find("script,noscript,style").Remove()
	return doc.Text()
}

// CollapseWhitespace squeezes every run of Unicode whitespace into a single
// ASCII space and trims both ends.
func CollapseWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// decode lowercases and unescapes entities until neither step changes the
// text. Both orders matter: "&#65;" only becomes lowercase after decoding and
// "&AMp;" only becomes an entity after lowercasing. After the first pass every
// change decodes at least one entity, which shortens the text, so len(text)+2
// passes always reach the fixed point.
func decode(text string) string {
	lower := cases.Lower(language.Und)
	for range len(text) + 2 {
		next := html.UnescapeString(lower.String(text))
		if next == text {
			break
		}
		text = next
	}
	return text
}

// BuildDocumentID hashes the most stable fields to form deterministic IDs.
func BuildDocumentID(label, text string, ts time.Time) string {
	var stamp string
	if !ts.IsZero() {
		stamp = ts.UTC().Format(time.RFC3339)
	}
	s := sha1.Sum([]byte(label + "|" + text + "|" + stamp))
	return hex.EncodeToString(s[:])
}
