package slugparse

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultMinYear = 1970
	DefaultMaxYear = 2030
)

// DefaultSubstitutions maps lowercased slug words (or space separated phrases)
// to their display form.
var DefaultSubstitutions = map[string]string{
	"dor":     "d'Or",
	"d or":    "d'Or",
	"lannee":  "l'Année",
	"l annee": "l'Année",
	"annee":   "Année",
	"jeu":     "Jeu",
	"bgg":     "BGG",
	"usa":     "USA",
	"uk":      "UK",
}

// DefaultLowercaseWords stay lowercase unless they open the title.
var DefaultLowercaseWords = []string{
	"a", "an", "and", "as", "at", "by", "de", "der", "des", "die", "das", "du",
	"en", "et", "for", "from", "in", "of", "on", "or", "the", "to", "with",
	"von", "und", "l", "la", "le", "les", "d",
}

// Options configures a Parser. Zero values fall back to the defaults.
type Options struct {
	MinYear        int
	MaxYear        int
	Substitutions  map[string]string
	LowercaseWords []string
}

// Parsed is the result of parsing one slug.
type Parsed struct {
	Year      int
	HasYear   bool
	TitlePart string
}

type phrase struct {
	words       []string
	replacement string
}

// Parser is safe for concurrent use once constructed.
type Parser struct {
	minYear   int
	maxYear   int
	words     map[string]string
	phrases   []phrase
	lowercase map[string]struct{}
}

// New builds a parser from opts.
func New(opts Options) *Parser {
	p := &Parser{
		minYear:   opts.MinYear,
		maxYear:   opts.MaxYear,
		words:     make(map[string]string),
		lowercase: make(map[string]struct{}),
	}
	if p.minYear <= 0 {
		p.minYear = DefaultMinYear
	}
	if p.maxYear <= 0 {
		p.maxYear = DefaultMaxYear
	}

	subs := opts.Substitutions
	if len(subs) == 0 {
		subs = DefaultSubstitutions
	}
	for key, value := range subs {
		fields := strings.Fields(strings.ToLower(key))
		switch len(fields) {
		case 0:
			continue
		case 1:
			p.words[fields[0]] = value
		default:
			p.phrases = append(p.phrases, phrase{words: fields, replacement: value})
		}
	}
	// Longest phrases first so "l annee" wins over a shorter overlapping entry.
	sortPhrases(p.phrases)

	lower := opts.LowercaseWords
	if len(lower) == 0 {
		lower = DefaultLowercaseWords
	}
	for _, word := range lower {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			p.lowercase[word] = struct{}{}
		}
	}
	return p
}

// Parse extracts the year and title from slug.
func (p *Parser) Parse(slug string) Parsed {
	trimmed := strings.TrimSpace(slug)
	year, rest, ok := p.splitYear(trimmed)
	if !ok {
		return Parsed{TitlePart: p.Title(trimmed)}
	}
	return Parsed{Year: year, HasYear: true, TitlePart: p.Title(rest)}
}

// Year returns the slug year when the slug starts with one in range.
func (p *Parser) Year(slug string) (int, bool) {
	year, _, ok := p.splitYear(strings.TrimSpace(slug))
	return year, ok
}

// InRange reports whether year falls inside the configured window.
func (p *Parser) InRange(year int) bool {
	return year >= p.minYear && year <= p.maxYear
}

func (p *Parser) splitYear(s string) (int, string, bool) {
	if len(s) < 4 {
		return 0, s, false
	}
	year := 0
	for i := 0; i < 4; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, s, false
		}
		year = year*10 + int(c-'0')
	}
	rest := s[4:]
	if rest != "" {
		// "20245-..." is not a year prefix.
		if c := rest[0]; c >= '0' && c <= '9' {
			return 0, s, false
		}
		if c := rest[0]; c == '-' || c == '_' || c == ' ' {
			rest = rest[1:]
		}
	}
	if !p.InRange(year) {
		return 0, s, false
	}
	return year, rest, true
}

// Title converts a slug fragment to display text.
func (p *Parser) Title(fragment string) string {
	normalized := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, fragment)
	tokens := strings.Fields(strings.ToLower(normalized))
	if len(tokens) == 0 {
		return ""
	}

	caser := cases.Title(language.Und)
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if replacement, n := p.matchPhrase(tokens[i:]); n > 0 {
			out = append(out, replacement)
			i += n
			continue
		}
		word := tokens[i]
		switch replacement, ok := p.words[word]; {
		case ok:
			out = append(out, replacement)
		case len(out) > 0 && p.isLowercase(word):
			out = append(out, word)
		default:
			out = append(out, caser.String(word))
		}
		i++
	}
	out[0] = capitalizeFirst(out[0])
	return strings.Join(out, " ")
}

func (p *Parser) matchPhrase(tokens []string) (string, int) {
	for _, ph := range p.phrases {
		if len(ph.words) > len(tokens) {
			continue
		}
		matched := true
		for i, w := range ph.words {
			if tokens[i] != w {
				matched = false
				break
			}
		}
		if matched {
			return ph.replacement, len(ph.words)
		}
	}
	return "", 0
}

func (p *Parser) isLowercase(word string) bool {
	_, ok := p.lowercase[word]
	return ok
}

func capitalizeFirst(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

func sortPhrases(phrases []phrase) {
	slices.SortFunc(phrases, func(a, b phrase) int {
		if n := cmp.Compare(len(b.words), len(a.words)); n != 0 {
			return n
		}
		return strings.Compare(strings.Join(a.words, " "), strings.Join(b.words, " "))
	})
}
