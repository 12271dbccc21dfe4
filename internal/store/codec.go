package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

// EncodeHonors serializes a collection for storage. Nil encodes as "[]".
func EncodeHonors(records []honor.Record) (string, error) {
	if len(records) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode honors: %w", err)
	}
	return string(data), nil
}

// Unreadable returns a game whose stored collection failed to decode, so bulk
// reads can carry it instead of failing.
func Unreadable(id int64, name string, err error) honor.Game {
	return honor.Game{ID: id, Name: name, Unreadable: err.Error()}
}

// DecodeHonors parses a stored collection. Empty text and "null" decode to nil.
func DecodeHonors(raw string) ([]honor.Record, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" || trimmed == "[]" {
		return nil, nil
	}
	var records []honor.Record
	if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptHonors, err)
	}
	return records, nil
}
