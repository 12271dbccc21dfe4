package awardrules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

// ErrInvalidRule reports a rule file that fails validation.
var ErrInvalidRule = errors.New("invalid award rule")

// Era bounds a cap to a range of years. Zero From or Until leaves that side open.
type Era struct {
	From  int `yaml:"from"`
	Until int `yaml:"until"`
	Cap   int `yaml:"cap"`
}

// Contains reports whether year falls inside the era.
func (e Era) Contains(year int) bool {
	if e.From != 0 && year < e.From {
		return false
	}
	if e.Until != 0 && year > e.Until {
		return false
	}
	return true
}

// Rule describes the integrity constraints of one award family.
type Rule struct {
	AwardType    string   `yaml:"award_type"`
	Aliases      []string `yaml:"aliases"`
	SingleWinner *bool    `yaml:"single_winner"`
	WinnerFrom   int      `yaml:"winner_from"`
	NomineeCaps  []Era    `yaml:"nominee_caps"`
	SpecialCaps  []Era    `yaml:"special_caps"`
}

// RequiresSingleWinner reports whether year must have exactly one winner.
func (r Rule) RequiresSingleWinner(year int) bool {
	if r.SingleWinner == nil || !*r.SingleWinner {
		return false
	}
	return r.WinnerFrom == 0 || year >= r.WinnerFrom
}

// NomineeCap returns the nominee limit for year, if any.
func (r Rule) NomineeCap(year int) (int, bool) {
	return capFor(r.NomineeCaps, year)
}

// SpecialCap returns the special mention limit for year, if any.
func (r Rule) SpecialCap(year int) (int, bool) {
	return capFor(r.SpecialCaps, year)
}

func capFor(eras []Era, year int) (int, bool) {
	for _, era := range eras {
		if era.Contains(year) {
			return era.Cap, true
		}
	}
	return 0, false
}

func (r Rule) validate() error {
	if strings.TrimSpace(r.AwardType) == "" {
		return fmt.Errorf("%w: award_type is required", ErrInvalidRule)
	}
	if r.WinnerFrom < 0 {
		return fmt.Errorf("%w: %s: winner_from must be non-negative", ErrInvalidRule, r.AwardType)
	}
	for field, eras := range map[string][]Era{"nominee_caps": r.NomineeCaps, "special_caps": r.SpecialCaps} {
		for i, era := range eras {
			if era.Cap < 0 {
				return fmt.Errorf("%w: %s: %s[%d].cap must be non-negative", ErrInvalidRule, r.AwardType, field, i)
			}
			if era.From != 0 && era.Until != 0 && era.From > era.Until {
				return fmt.Errorf("%w: %s: %s[%d] has from after until", ErrInvalidRule, r.AwardType, field, i)
			}
		}
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

// Defaults returns the built-in rules.
func Defaults() []Rule {
	return []Rule{
		{
			AwardType:    "Spiel des Jahres",
			SingleWinner: boolPtr(true),
			NomineeCaps: []Era{
				{Until: 1998, Cap: 0},
				{From: 1999, Cap: 3},
			},
		},
		{
			AwardType:    "Kennerspiel des Jahres",
			SingleWinner: boolPtr(true),
			WinnerFrom:   2011,
			NomineeCaps:  []Era{{From: 2011, Cap: 3}},
		},
		{
			AwardType:    "Kinderspiel des Jahres",
			SingleWinner: boolPtr(true),
			NomineeCaps:  []Era{{From: 2001, Cap: 3}},
		},
	}
}

// Set resolves rules by award type.
type Set struct {
	rules    map[string]Rule
	fallback Rule
	families []string
}

// NewSet indexes rules. Later rules replace earlier ones for the same family.
// Families without a rule require a single winner when defaultSingleWinner is
// set and carry no caps.
func NewSet(defaultSingleWinner bool, rules ...Rule) *Set {
	s := &Set{
		rules:    make(map[string]Rule, len(rules)),
		fallback: Rule{SingleWinner: boolPtr(defaultSingleWinner)},
	}
	for _, rule := range rules {
		if rule.SingleWinner == nil {
			rule.SingleWinner = boolPtr(defaultSingleWinner)
		}
		key := honor.NormalizeAwardType(rule.AwardType)
		if _, seen := s.rules[key]; !seen {
			s.families = append(s.families, strings.TrimSpace(rule.AwardType))
		}
		s.rules[key] = rule
		for _, alias := range rule.Aliases {
			if aliasKey := honor.NormalizeAwardType(alias); aliasKey != "" {
				s.rules[aliasKey] = rule
			}
		}
	}
	return s
}

// Lookup returns the rule for awardType, or the fallback rule.
func (s *Set) Lookup(awardType string) Rule {
	if s == nil {
		return Rule{}
	}
	if rule, ok := s.rules[honor.NormalizeAwardType(awardType)]; ok {
		return rule
	}
	fallback := s.fallback
	fallback.AwardType = awardType
	return fallback
}

// Families lists the award types with explicit rules, in registration order.
func (s *Set) Families() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.families...)
}
