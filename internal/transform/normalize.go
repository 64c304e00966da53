package transform

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/theyify/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer lowercases sentence pairs and strips collection artifacts
type Normalizer struct {
	lower   cases.Caser
	markers *strings.Replacer
}

// NewNormalizer creates a normalizer that removes the given marker tokens.
// Empty markers are ignored.
func NewNormalizer(openMarker, closeMarker string) *Normalizer {
	var oldnew []string
	for _, m := range []string{openMarker, closeMarker} {
		if m != "" {
			oldnew = append(oldnew, m, "")
		}
	}

	return &Normalizer{
		lower:   cases.Lower(language.Und),
		markers: strings.NewReplacer(oldnew...),
	}
}

// Apply normalizes both texts of a record. Only the original text has
// markers and whitespace cleaned; the gold text is lowercased only.
func (n *Normalizer) Apply(rec model.Record) model.Record {
	rec.Original = n.Original(rec.Original)
	rec.Gold = n.Gold(rec.Gold)
	return rec
}

// Original normalizes the heuristic's working text
func (n *Normalizer) Original(text string) string {
	text = n.lower.String(text)
	text = n.markers.Replace(text)
	return CollapseDoubleSpace(text)
}

// Gold normalizes the reference text
func (n *Normalizer) Gold(text string) string {
	return n.lower.String(text)
}

// CollapseDoubleSpace replaces each pair of adjacent whitespace characters
// with a single space in one left-to-right pass. Pairs do not overlap, so a
// run of three spaces becomes two and a run of four becomes two.
func CollapseDoubleSpace(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isSpace(r) && i+size < len(text) {
			next, nextSize := utf8.DecodeRuneInString(text[i+size:])
			if isSpace(next) {
				buf.WriteByte(' ')
				i += size + nextSize
				continue
			}
		}
		buf.WriteString(text[i : i+size])
		i += size
	}

	return buf.String()
}
