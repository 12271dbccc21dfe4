package honor

import (
	"strconv"
	"strings"
	"time"
)

// SourceScrape marks records produced by the scrape pipeline.
const SourceScrape = "scrape"

// Record is one honor attached to one game.
type Record struct {
	Year        int       `json:"year"`
	AwardType   string    `json:"award_type"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Result      string    `json:"result,omitempty"`
	Source      string    `json:"source"`
	Validated   bool      `json:"validated"`
	HonorID     string    `json:"honor_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Slug        string    `json:"slug,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key identifies a record for merge purposes.
type Key struct {
	AwardType string
	Year      int
	HonorID   string
}

// Key returns the merge key (award_type, year, honor_id).
func (r Record) Key() Key {
	return Key{AwardType: NormalizeAwardType(r.AwardType), Year: r.Year, HonorID: strings.TrimSpace(r.HonorID)}
}

// GroupKey identifies one award family in one year.
type GroupKey struct {
	AwardType string
	Year      int
}

// Group returns the (award_type, year) group the record belongs to.
func (r Record) Group() GroupKey {
	return GroupKey{AwardType: NormalizeAwardType(r.AwardType), Year: r.Year}
}

func (g GroupKey) String() string {
	return strconv.Itoa(g.Year) + " " + g.AwardType
}

// DisplayName builds "{year} {award_type}" with an optional " {subcategory}".
func DisplayName(year int, awardType, subcategory string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(year))
	b.WriteByte(' ')
	b.WriteString(strings.TrimSpace(awardType))
	if sub := strings.TrimSpace(subcategory); sub != "" {
		b.WriteByte(' ')
		b.WriteString(sub)
	}
	return b.String()
}

// NormalizeAwardType folds an award type for grouping and rule lookups.
// Case and repeated whitespace are ignored.
func NormalizeAwardType(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

// Game is a stored game with its full honor collection.
type Game struct {
	ID     int64    `json:"bgg_id" db:"bgg_id"`
	Name   string   `json:"name" db:"name"`
	Honors []Record `json:"honors"`
	// Unreadable holds the decode error when the stored collection could not
	// be read. Honors is empty in that case.
	Unreadable string `json:"unreadable,omitempty" db:"-"`
}

// Clone returns a copy whose honor slice can be mutated independently.
func (g Game) Clone() Game {
	out := g
	if g.Honors != nil {
		out.Honors = append([]Record(nil), g.Honors...)
	}
	return out
}

// Equal reports whether two honor collections are identical, including order.
func Equal(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !recordsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func recordsEqual(a, b Record) bool {
	return a.Year == b.Year &&
		a.AwardType == b.AwardType &&
		a.Category == b.Category &&
		a.Subcategory == b.Subcategory &&
		a.Result == b.Result &&
		a.Source == b.Source &&
		a.Validated == b.Validated &&
		a.HonorID == b.HonorID &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Slug == b.Slug &&
		a.CreatedAt.Equal(b.CreatedAt)
}
