package honor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the canonical result of an honor.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySpecial
	CategoryNominee
	CategoryWinner
)

var categoryNames = map[Category]string{
	CategoryWinner:  "Winner",
	CategoryNominee: "Nominee",
	CategorySpecial: "Special",
}

// String returns the display form stored in honor collections.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether c is one of Winner, Nominee, or Special.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Outranks reports whether c takes precedence over other when two records
// describe the same honor. Winner beats Nominee beats Special.
func (c Category) Outranks(other Category) bool {
	return c > other
}

// ParseCategory maps a stored category string back to its enum value.
func ParseCategory(value string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "winner":
		return CategoryWinner, nil
	case "nominee":
		return CategoryNominee, nil
	case "special":
		return CategorySpecial, nil
	default:
		return CategoryUnknown, fmt.Errorf("unknown honor category %q", value)
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts any string. Unrecognized values decode to
// CategoryUnknown so stored corpora with bad data can still be read and
// reported by the verifier.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode honor category: %w", err)
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		*c = CategoryUnknown
		return nil
	}
	*c = parsed
	return nil
}
