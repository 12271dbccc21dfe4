// Package resolve collapses duplicate honors and drops Special records made
// redundant by a Winner of the same award in the same year.
package resolve

import (
	"strings"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

// Stats counts what a Resolve call removed.
type Stats struct {
	Duplicates         int `json:"duplicates"`
	SuppressedSpecials int `json:"suppressed_specials"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Duplicates += other.Duplicates
	s.SuppressedSpecials += other.SuppressedSpecials
}

type idKey struct {
	group honor.GroupKey
	id    string
}

type nameKey struct {
	group    honor.GroupKey
	category honor.Category
	name     string
}

// Resolve returns a deduplicated copy of records for one game. Surviving
// records keep their relative order, and the function is idempotent.
//
// Records sharing (award_type, year, honor_id) collapse into the first
// occurrence, which takes the highest-ranked category seen. Records without
// an id collapse on (award_type, year, category, name). Within an
// (award_type, year) group holding a Winner, Special records are dropped.
func Resolve(records []honor.Record) ([]honor.Record, Stats) {
	var stats Stats
	if len(records) == 0 {
		return nil, stats
	}

	collapsed := make([]honor.Record, 0, len(records))
	byID := make(map[idKey]int, len(records))
	byName := make(map[nameKey]int, len(records))

	for _, rec := range records {
		group := rec.Group()
		if id := strings.TrimSpace(rec.HonorID); id != "" {
			key := idKey{group: group, id: id}
			if idx, ok := byID[key]; ok {
				stats.Duplicates++
				if rec.Category.Outranks(collapsed[idx].Category) {
					collapsed[idx] = promote(collapsed[idx], rec)
				}
				continue
			}
			byID[key] = len(collapsed)
			collapsed = append(collapsed, rec)
			continue
		}
		key := nameKey{group: group, category: rec.Category, name: strings.TrimSpace(rec.Name)}
		if _, ok := byName[key]; ok {
			stats.Duplicates++
			continue
		}
		byName[key] = len(collapsed)
		collapsed = append(collapsed, rec)
	}

	winners := make(map[honor.GroupKey]bool)
	for _, rec := range collapsed {
		if rec.Category == honor.CategoryWinner {
			winners[rec.Group()] = true
		}
	}

	out := collapsed[:0]
	for _, rec := range collapsed {
		if rec.Category == honor.CategorySpecial && winners[rec.Group()] {
			stats.SuppressedSpecials++
			continue
		}
		out = append(out, rec)
	}
	return out, stats
}

// promote keeps the first record's position and creation time while taking
// the stronger record's classification.
func promote(kept, stronger honor.Record) honor.Record {
	createdAt := kept.CreatedAt
	validated := kept.Validated || stronger.Validated
	kept = stronger
	kept.CreatedAt = createdAt
	kept.Validated = validated
	return kept
}
