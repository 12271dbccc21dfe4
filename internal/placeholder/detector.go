package placeholder

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/robleto/MeepleGo-sub002/internal/classify"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/textutil"
)

// DefaultSimilarity is the cosine threshold above which a game name counts
// as an award description.
const DefaultSimilarity = 0.85

// Reason names the check that flagged a game.
type Reason string

const (
	ReasonYearPrefix Reason = "year-prefix"
	ReasonSimilar    Reason = "similar"
	ReasonSignal     Reason = "signal-word"
)

var yearPrefixPattern = regexp.MustCompile(`^\d{4}\s+(.+)$`)

// Options configures a Detector.
type Options struct {
	// Families are the award types a placeholder name may mention.
	Families []string
	// SignalWords are result words such as "winner" or "nominee". Empty uses
	// the classifier defaults.
	SignalWords []string
	// Similarity is the cosine threshold. Zero uses DefaultSimilarity.
	Similarity float64
}

type family struct {
	name     string
	folded   string
	tokens   *textutil.Fingerprint
	variants []*textutil.Fingerprint
}

// Detector flags placeholder games. It is safe for concurrent use once built.
type Detector struct {
	families  []family
	signals   []*textutil.Fingerprint
	threshold float64
	seen      map[string]bool
}

// NewDetector builds a detector.
func NewDetector(opts Options) *Detector {
	d := &Detector{threshold: opts.Similarity, seen: make(map[string]bool)}
	if d.threshold <= 0 {
		d.threshold = DefaultSimilarity
	}
	words := opts.SignalWords
	if len(words) == 0 {
		words = slices.Concat(classify.DefaultWinnerWords, classify.DefaultNomineeWords, classify.DefaultSpecialWords)
	}
	for _, word := range words {
		if fp := textutil.NewFingerprint(word); fp != nil {
			d.signals = append(d.signals, fp)
		}
	}
	d.AddFamilies(opts.Families...)
	return d
}

// AddFamilies registers more award types, typically the ones observed in
// stored honors. Duplicates are ignored. Not safe to call concurrently with
// IsPlaceholder.
func (d *Detector) AddFamilies(names ...string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		folded := textutil.Canonical(name)
		if folded == "" || d.seen[folded] {
			continue
		}
		d.seen[folded] = true
		f := family{name: name, folded: folded, tokens: textutil.NewFingerprint(name)}
		f.variants = append(f.variants, f.tokens)
		for _, signal := range []string{"winner", "nominee", "recommended"} {
			f.variants = append(f.variants, textutil.NewFingerprint(name+" "+signal))
		}
		d.families = append(d.families, f)
	}
}

// WithFamilies returns a copy of d that also knows names. d is unchanged.
func (d *Detector) WithFamilies(names ...string) *Detector {
	next := &Detector{
		families:  slices.Clone(d.families),
		signals:   d.signals,
		threshold: d.threshold,
		seen:      maps.Clone(d.seen),
	}
	next.AddFamilies(names...)
	return next
}

// Families lists the registered award types.
func (d *Detector) Families() []string {
	out := make([]string, 0, len(d.families))
	for _, f := range d.families {
		out = append(out, f.name)
	}
	return out
}

// IsPlaceholder reports whether the game's name looks like an award
// description.
func (d *Detector) IsPlaceholder(game honor.Game) bool {
	_, ok := d.Match(game.Name)
	return ok
}

// Match returns the first check that flags name.
func (d *Detector) Match(name string) (Reason, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len(d.families) == 0 {
		return "", false
	}
	folded := textutil.Canonical(name)

	if m := yearPrefixPattern.FindStringSubmatch(name); m != nil {
		rest := textutil.Canonical(m[1])
		for _, f := range d.families {
			if rest == f.folded || strings.HasPrefix(rest, f.folded+" ") {
				return ReasonYearPrefix, true
			}
		}
	}

	fp := textutil.NewFingerprint(folded)
	for _, f := range d.families {
		for _, variant := range f.variants {
			if fp.Similarity(variant) >= d.threshold {
				return ReasonSimilar, true
			}
		}
	}

	for _, f := range d.families {
		if !fp.Covers(f.tokens) {
			continue
		}
		for _, signal := range d.signals {
			if fp.Covers(signal) {
				return ReasonSignal, true
			}
		}
	}
	return "", false
}

// ObservedFamilies returns the distinct award types carried by games, in
// first-seen order.
func ObservedFamilies(games []honor.Game) []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range games {
		for _, rec := range g.Honors {
			key := honor.NormalizeAwardType(rec.AwardType)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(rec.AwardType))
		}
	}
	return out
}
