package pipeline

import (
	"strings"
	"time"

	"github.com/robleto/MeepleGo-sub002/internal/classify"
	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

// Built is one fresh record bound to the game it belongs to.
type Built struct {
	GameID   int64
	GameName string
	Record   honor.Record
}

// Build creates one record per distinct game named by entry. Every record is
// an independent value; games listed twice yield a single record.
func Build(entry honor.RawEntry, c classify.Classification, runAt time.Time, source string) []Built {
	if len(entry.Boardgames) == 0 {
		return nil
	}
	year := entry.YearValue()
	template := honor.Record{
		Year:        year,
		AwardType:   c.AwardType,
		Category:    c.Category,
		Subcategory: c.Subcategory,
		Result:      c.Result,
		Source:      source,
		HonorID:     strings.TrimSpace(entry.ID),
		Name:        honor.DisplayName(year, c.AwardType, c.Subcategory),
		Description: strings.TrimSpace(entry.Title),
		Slug:        strings.TrimSpace(entry.Slug),
		CreatedAt:   runAt,
	}

	out := make([]Built, 0, len(entry.Boardgames))
	seen := make(map[int64]bool, len(entry.Boardgames))
	for _, game := range entry.Boardgames {
		if game.ID <= 0 || seen[game.ID] {
			continue
		}
		seen[game.ID] = true
		out = append(out, Built{GameID: game.ID, GameName: game.Name, Record: template})
	}
	return out
}
