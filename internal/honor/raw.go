package honor

import (
	"encoding/json"
	"strings"
)

// BoardgameRef names a game an honor entry is attached to.
type BoardgameRef struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Name string `json:"name"`
}

func (b *BoardgameRef) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             int64  `json:"id"`
		ExternalGameID int64  `json:"externalGameId"`
		Name           string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ID = raw.ID
	if b.ID == 0 {
		b.ID = raw.ExternalGameID
	}
	b.Name = strings.TrimSpace(raw.Name)
	return nil
}

// RawEntry is one scraped honor listing.
type RawEntry struct {
	ID         string         `json:"id"`
	Slug       string         `json:"slug"`
	Title      string         `json:"title,omitempty"`
	AwardSet   string         `json:"awardSet" validate:"required"`
	Position   string         `json:"position,omitempty"`
	Year       *int           `json:"year,omitempty" validate:"required"`
	Boardgames []BoardgameRef `json:"boardgames" validate:"required,min=1,dive"`
}

// YearValue returns the entry year or zero when absent.
func (e RawEntry) YearValue() int {
	if e.Year == nil {
		return 0
	}
	return *e.Year
}

// Label returns a short identifier for log lines.
func (e RawEntry) Label() string {
	if id := strings.TrimSpace(e.ID); id != "" {
		return id
	}
	return strings.TrimSpace(e.Slug)
}
