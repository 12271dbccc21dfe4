package verify

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/robleto/MeepleGo-sub002/internal/awardrules"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/placeholder"
)

// Rule names reported in violations.
const (
	RuleWinnerCount     = "winner-count"
	RuleNomineeCap      = "nominee-cap"
	RuleSpecialCap      = "special-cap"
	RuleInvalidRecord   = "invalid-record"
	RulePlaceholderGame = "placeholder-game"
)

// Violation is one broken invariant.
type Violation struct {
	Year      int     `json:"year"`
	AwardType string  `json:"award_type"`
	Rule      string  `json:"rule"`
	Detail    string  `json:"detail"`
	Count     int     `json:"count"`
	Limit     int     `json:"limit"`
	GameIDs   []int64 `json:"game_ids,omitempty"`
}

// Report is the verifier output.
type Report struct {
	Games      int         `json:"games"`
	Records    int         `json:"records"`
	Groups     int         `json:"groups"`
	Violations []Violation `json:"violations"`
}

// OK reports whether no violations were found.
func (r *Report) OK() bool {
	return r == nil || len(r.Violations) == 0
}

// CountByRule tallies violations per rule name.
func (r *Report) CountByRule() map[string]int {
	out := make(map[string]int)
	if r == nil {
		return out
	}
	for _, v := range r.Violations {
		out[v.Rule]++
	}
	return out
}

// PlaceholderMatcher decides whether a game is a placeholder.
type PlaceholderMatcher interface {
	IsPlaceholder(game honor.Game) bool
}

// Verifier checks a corpus against award family rules.
type Verifier struct {
	rules       *awardrules.Set
	placeholder PlaceholderMatcher
}

// New builds a verifier. A nil placeholder matcher disables that check.
func New(rules *awardrules.Set, matcher PlaceholderMatcher) *Verifier {
	if rules == nil {
		rules = awardrules.NewSet(true)
	}
	return &Verifier{rules: rules, placeholder: matcher}
}

type groupTally struct {
	awardType string
	year      int
	winners   []int64
	nominees  []int64
	specials  []int64
}

// Verify inspects games and returns every violation, sorted by award type,
// year, and rule.
func (v *Verifier) Verify(games []honor.Game) *Report {
	report := &Report{Games: len(games)}
	tallies := make(map[honor.GroupKey]*groupTally)

	matcher := v.placeholder
	if d, ok := matcher.(*placeholder.Detector); ok {
		matcher = d.WithFamilies(awardTypes(games)...)
	}

	for _, game := range games {
		if game.Unreadable != "" {
			report.Violations = append(report.Violations, Violation{
				Rule:    RuleInvalidRecord,
				Detail:  fmt.Sprintf("game %d honors unreadable: %s", game.ID, game.Unreadable),
				Count:   1,
				GameIDs: []int64{game.ID},
			})
		}
		if matcher != nil && matcher.IsPlaceholder(game) {
			report.Violations = append(report.Violations, Violation{
				Rule:    RulePlaceholderGame,
				Detail:  fmt.Sprintf("game %d %q looks like an award description", game.ID, game.Name),
				Count:   len(game.Honors),
				GameIDs: []int64{game.ID},
			})
		}
		for _, rec := range game.Honors {
			report.Records++
			if problem := recordProblem(rec); problem != "" {
				report.Violations = append(report.Violations, Violation{
					Year:      rec.Year,
					AwardType: rec.AwardType,
					Rule:      RuleInvalidRecord,
					Detail:    problem,
					Count:     1,
					GameIDs:   []int64{game.ID},
				})
				continue
			}
			key := rec.Group()
			tally, ok := tallies[key]
			if !ok {
				tally = &groupTally{awardType: strings.TrimSpace(rec.AwardType), year: rec.Year}
				tallies[key] = tally
			}
			switch rec.Category {
			case honor.CategoryWinner:
				tally.winners = append(tally.winners, game.ID)
			case honor.CategoryNominee:
				tally.nominees = append(tally.nominees, game.ID)
			case honor.CategorySpecial:
				tally.specials = append(tally.specials, game.ID)
			}
		}
	}

	report.Groups = len(tallies)
	for _, tally := range tallies {
		report.Violations = append(report.Violations, v.checkGroup(tally)...)
	}

	slices.SortStableFunc(report.Violations, func(a, b Violation) int {
		if c := cmp.Compare(honor.NormalizeAwardType(a.AwardType), honor.NormalizeAwardType(b.AwardType)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Rule, b.Rule); c != 0 {
			return c
		}
		return cmp.Compare(a.Detail, b.Detail)
	})
	return report
}

func (v *Verifier) checkGroup(t *groupTally) []Violation {
	rule := v.rules.Lookup(t.awardType)
	var out []Violation

	if rule.RequiresSingleWinner(t.year) && len(t.winners) != 1 {
		out = append(out, Violation{
			Year:      t.year,
			AwardType: t.awardType,
			Rule:      RuleWinnerCount,
			Detail:    strconv.Itoa(len(t.winners)),
			Count:     len(t.winners),
			Limit:     1,
			GameIDs:   sortedIDs(t.winners),
		})
	}
	if limit, ok := rule.NomineeCap(t.year); ok && len(t.nominees) > limit {
		out = append(out, Violation{
			Year:      t.year,
			AwardType: t.awardType,
			Rule:      RuleNomineeCap,
			Detail:    strconv.Itoa(len(t.nominees)),
			Count:     len(t.nominees),
			Limit:     limit,
			GameIDs:   sortedIDs(t.nominees),
		})
	}
	if limit, ok := rule.SpecialCap(t.year); ok && len(t.specials) > limit {
		out = append(out, Violation{
			Year:      t.year,
			AwardType: t.awardType,
			Rule:      RuleSpecialCap,
			Detail:    strconv.Itoa(len(t.specials)),
			Count:     len(t.specials),
			Limit:     limit,
			GameIDs:   sortedIDs(t.specials),
		})
	}
	return out
}

func recordProblem(rec honor.Record) string {
	switch {
	case rec.Year == 0:
		return "missing year"
	case strings.TrimSpace(rec.AwardType) == "":
		return "missing award type"
	case !rec.Category.Valid():
		return "unknown category"
	default:
		return ""
	}
}

func awardTypes(games []honor.Game) []string {
	seen := make(map[string]bool)
	var out []string
	for _, game := range games {
		for _, rec := range game.Honors {
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

func sortedIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
