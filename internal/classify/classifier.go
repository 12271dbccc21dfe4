package classify

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/slugparse"
)

// ErrMissingAwardSet marks entries whose award set is empty after trimming.
var ErrMissingAwardSet = errors.New("missing award set")

const DefaultMinStemLength = 4

var (
	DefaultWinnerWords  = []string{"winner", "winners", "gewinner", "preisträger", "lauréat", "laureate"}
	DefaultNomineeWords = []string{"nominee", "nominees", "nominated", "nomination", "nominations", "nominiert", "nominierung", "finalist", "finalists", "runner-up", "runner up", "runners-up"}
	DefaultSpecialWords = []string{"recommended", "recommendation", "empfehlungsliste", "empfehlung", "recommandé", "aanbevolen", "consigliato"}

	// DefaultStemStopWords are complete words that happen to prefix a signal
	// word. They only count as a stem when followed by "…" or "...".
	DefaultStemStopWords = []string{"final", "finals", "preis", "preise", "gewinn"}
)

// Signal names the text that decided a classification.
type Signal string

const (
	SignalPosition Signal = "position"
	SignalSlug     Signal = "slug"
	SignalTitle    Signal = "title"
	SignalDefault  Signal = "default"
)

// Classification is the outcome of classifying one entry.
type Classification struct {
	AwardType   string
	Category    honor.Category
	Result      string
	Subcategory string
	Signal      Signal
}

// Options configures the token tables. Empty lists fall back to defaults.
type Options struct {
	WinnerWords   []string
	NomineeWords  []string
	SpecialWords  []string
	MinStemLength int
	// StemStopWords overrides DefaultStemStopWords.
	StemStopWords []string
}

type rule struct {
	category honor.Category
	pattern  *regexp.Regexp
	stems    []string
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules      []rule
	minStem    int
	stopStems  map[string]bool
	signalSeqs [][]string
}

var leadingYear = regexp.MustCompile(`^\d{4}(?:\s+|$)`)

// New compiles a classifier from opts.
func New(opts Options) *Classifier {
	c := &Classifier{minStem: opts.MinStemLength, stopStems: make(map[string]bool)}
	if c.minStem <= 0 {
		c.minStem = DefaultMinStemLength
	}
	stops := cleanWords(opts.StemStopWords)
	if len(stops) == 0 {
		stops = DefaultStemStopWords
	}
	for _, w := range stops {
		c.stopStems[w] = true
	}
	tables := []struct {
		category honor.Category
		words    []string
		fallback []string
		stems    bool
	}{
		{honor.CategoryWinner, opts.WinnerWords, DefaultWinnerWords, true},
		{honor.CategoryNominee, opts.NomineeWords, DefaultNomineeWords, true},
		{honor.CategorySpecial, opts.SpecialWords, DefaultSpecialWords, false},
	}
	for _, table := range tables {
		words := cleanWords(table.words)
		if len(words) == 0 {
			words = cleanWords(table.fallback)
		}
		r := rule{category: table.category, pattern: wordPattern(words)}
		if table.stems {
			for _, w := range words {
				if !strings.ContainsAny(w, " -") {
					r.stems = append(r.stems, w)
				}
			}
		}
		c.rules = append(c.rules, r)
		for _, w := range words {
			c.signalSeqs = append(c.signalSeqs, splitWords(w))
		}
	}
	return c
}

// Classify derives the award type, category, result, and subcategory.
func (c *Classifier) Classify(entry honor.RawEntry, parsed slugparse.Parsed) (Classification, error) {
	awardType := AwardType(entry.AwardSet)
	if awardType == "" {
		return Classification{}, ErrMissingAwardSet
	}

	category, signal := c.Category(entry.Position, entry.Slug, entry.Title)

	result := strings.TrimSpace(entry.Position)
	if result == "" {
		result = strings.TrimSpace(entry.Title)
	}
	if result == "" {
		result = parsed.TitlePart
	}

	return Classification{
		AwardType:   awardType,
		Category:    category,
		Result:      result,
		Subcategory: c.Subcategory(result, awardType),
		Signal:      signal,
	}, nil
}

// Category runs the cascade against position, then slug, then title. The
// first text carrying any signal decides; without one the result is Special.
func (c *Classifier) Category(position, slug, title string) (honor.Category, Signal) {
	sources := []struct {
		text   string
		signal Signal
	}{
		{position, SignalPosition},
		{strings.NewReplacer("-", " ", "_", " ").Replace(slug), SignalSlug},
		{title, SignalTitle},
	}
	for _, src := range sources {
		if strings.TrimSpace(src.text) == "" {
			continue
		}
		if category, ok := c.match(src.text); ok {
			return category, src.signal
		}
	}
	return honor.CategorySpecial, SignalDefault
}

// match applies the rules in priority order. Each rule accepts its full
// words anywhere in text or a truncated stem of one of them as the last word.
func (c *Classifier) match(text string) (honor.Category, bool) {
	stem, marked := trailingWord(text)
	for _, r := range c.rules {
		if r.pattern != nil && r.pattern.MatchString(text) {
			return r.category, true
		}
		if c.stemOf(r, stem, marked) {
			return r.category, true
		}
	}
	return honor.CategoryUnknown, false
}

// stemOf reports whether token is a strict prefix of one of r's stem words.
// Unmarked tokens that are words in their own right never qualify.
func (c *Classifier) stemOf(r rule, token string, marked bool) bool {
	if len([]rune(token)) < c.minStem || (!marked && c.stopStems[token]) {
		return false
	}
	for _, word := range r.stems {
		if len(token) < len(word) && strings.HasPrefix(word, token) {
			return true
		}
	}
	return false
}

// Subcategory strips years, the award family, and result words from text. A
// truncated result stem is only dropped from the end.
func (c *Classifier) Subcategory(text, awardType string) string {
	_, marked := trailingWord(text)
	tokens := strings.Fields(text)
	tokens = removeSequence(tokens, splitWords(awardType))
	for _, seq := range c.signalSeqs {
		tokens = removeSequence(tokens, seq)
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		clean := cleanToken(tok)
		if clean == "" || isYear(clean) {
			continue
		}
		kept = append(kept, tok)
	}
	if n := len(kept); n > 0 && c.isStem(strings.ToLower(cleanToken(kept[n-1])), marked) {
		kept = kept[:n-1]
	}
	return strings.Trim(strings.Join(kept, " "), " ,:;-–—.…")
}

func (c *Classifier) isStem(token string, marked bool) bool {
	for _, r := range c.rules {
		if c.stemOf(r, token, marked) {
			return true
		}
	}
	return false
}

// AwardType strips a leading "YYYY " from an award set.
func AwardType(awardSet string) string {
	trimmed := strings.TrimSpace(awardSet)
	return strings.TrimSpace(leadingYear.ReplaceAllString(trimmed, ""))
}

func wordPattern(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	alts := make([]string, 0, len(words))
	for _, w := range words {
		parts := splitWords(w)
		for i := range parts {
			parts[i] = regexp.QuoteMeta(parts[i])
		}
		alts = append(alts, strings.Join(parts, `[\s\-_]+`))
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(alts, "|") + `)(?:[^\p{L}\p{N}]|$)`)
}

func cleanWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func splitWords(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
}

// trailingWord returns the lowercased last word of text and whether it was
// followed by a truncation marker.
func trailingWord(text string) (string, bool) {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	marked := strings.HasSuffix(trimmed, "…") || strings.HasSuffix(trimmed, "...")
	trimmed = strings.TrimRightFunc(trimmed, func(r rune) bool {
		return r == '…' || r == '.' || r == '-' || unicode.IsSpace(r)
	})
	fields := splitWords(trimmed)
	if len(fields) == 0 {
		return "", false
	}
	return strings.ToLower(cleanToken(fields[len(fields)-1])), marked
}

func cleanToken(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func isYear(token string) bool {
	if len(token) != 4 {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// removeSequence drops every occurrence of seq (case-insensitive, ignoring
// surrounding punctuation) from tokens. Tokens that themselves contain a
// hyphenated form of seq, like "runner-up", are matched too.
func removeSequence(tokens, seq []string) []string {
	if len(seq) == 0 {
		return tokens
	}
	joined := strings.Join(seq, "-")
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if len(seq) > 1 && strings.EqualFold(cleanToken(tokens[i]), joined) {
			i++
			continue
		}
		if i+len(seq) <= len(tokens) && sequenceAt(tokens[i:], seq) {
			i += len(seq)
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func sequenceAt(tokens, seq []string) bool {
	for j, word := range seq {
		if !strings.EqualFold(cleanToken(tokens[j]), word) {
			return false
		}
	}
	return true
}
