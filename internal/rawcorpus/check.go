package rawcorpus

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/slugparse"
)

// Skip reasons.
const (
	ReasonMissingYear     = "missing-year"
	ReasonYearOutOfRange  = "year-out-of-range"
	ReasonMissingAwardSet = "missing-award-set"
	ReasonNoGames         = "no-games"
	ReasonInvalidGame     = "invalid-game"
)

// Checker derives missing years and validates entries. It is safe for
// concurrent use.
type Checker struct {
	parser   *slugparse.Parser
	validate *validator.Validate
}

// NewChecker builds a checker around parser.
func NewChecker(parser *slugparse.Parser) *Checker {
	if parser == nil {
		parser = slugparse.New(slugparse.Options{})
	}
	return &Checker{parser: parser, validate: validator.New()}
}

// Prepare parses the slug, fills a missing year from it, and validates the
// entry. The returned reason is empty when the entry is usable.
func (c *Checker) Prepare(entry honor.RawEntry) (honor.RawEntry, slugparse.Parsed, string) {
	parsed := c.parser.Parse(entry.Slug)
	entry.AwardSet = strings.TrimSpace(entry.AwardSet)
	if entry.Year == nil && parsed.HasYear {
		year := parsed.Year
		entry.Year = &year
	}
	if entry.Year != nil && !c.parser.InRange(*entry.Year) {
		return entry, parsed, ReasonYearOutOfRange
	}
	if err := c.validate.Struct(entry); err != nil {
		return entry, parsed, reasonFor(err)
	}
	return entry, parsed, ""
}

// reasonFor maps validation failures to a skip reason. A missing year wins
// over a missing award set, which wins over game problems.
func reasonFor(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ReasonInvalidGame
	}
	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()] = true
	}
	switch {
	case failed["Year"]:
		return ReasonMissingYear
	case failed["AwardSet"]:
		return ReasonMissingAwardSet
	case failed["Boardgames"]:
		return ReasonNoGames
	default:
		return ReasonInvalidGame
	}
}
