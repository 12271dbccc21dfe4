package textutil

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fingerprint is a term-frequency vector over folded tokens.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint returns nil when text yields no tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	f := &Fingerprint{tokens: make(map[string]float64, len(tokens))}
	for _, token := range tokens {
		f.tokens[token]++
	}
	var sum float64
	for _, count := range f.tokens {
		sum += count * count
	}
	f.norm = math.Sqrt(sum)
	return f
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases text and strips combining marks ("Année" becomes "annee").
func Fold(text string) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

// Tokenize folds text and splits it on anything that is not a letter or
// digit. Single-character tokens are dropped.
func Tokenize(text string) []string {
	var terms []string
	for _, token := range strings.FieldsFunc(Fold(text), isSeparator) {
		if len([]rune(token)) >= 2 {
			terms = append(terms, token)
		}
	}
	return terms
}

// Canonical joins the tokens of text with single spaces, so two spellings of
// one name compare equal as strings.
func Canonical(text string) string {
	return strings.Join(Tokenize(text), " ")
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// TokenCount returns the number of unique tokens.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// Has reports whether token occurs in the fingerprint.
func (f *Fingerprint) Has(token string) bool {
	if f == nil {
		return false
	}
	_, ok := f.tokens[token]
	return ok
}

// Similarity is the cosine of the angle between f and other. Nil
// fingerprints score 0.
func (f *Fingerprint) Similarity(other *Fingerprint) float64 {
	if f == nil || other == nil || f.norm == 0 || other.norm == 0 {
		return 0
	}
	small, large := f, other
	if len(small.tokens) > len(large.tokens) {
		small, large = large, small
	}
	var dot float64
	for token, count := range small.tokens {
		dot += count * large.tokens[token]
	}
	return dot / (f.norm * other.norm)
}

// Covers reports whether every token of needle appears in f.
func (f *Fingerprint) Covers(needle *Fingerprint) bool {
	if f == nil || needle == nil {
		return false
	}
	for token := range needle.tokens {
		if !f.Has(token) {
			return false
		}
	}
	return true
}
