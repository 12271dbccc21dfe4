package rawcorpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
)

type wrapper struct {
	Honors []honor.RawEntry `json:"honors"`
}

// Load reads every entry in path.
func Load(path string) ([]honor.RawEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	entries, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	return entries, nil
}

// Decode parses a JSON array, a JSON Lines stream, or a {"honors": [...]}
// wrapper.
func Decode(data []byte) ([]honor.RawEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var entries []honor.RawEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}
	if trimmed[0] != '{' {
		return nil, errors.New("expected a JSON array, object, or JSON Lines stream")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var values []json.RawMessage
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(values)+1, err)
		}
		values = append(values, raw)
	}

	if len(values) == 1 {
		var head map[string]json.RawMessage
		if err := json.Unmarshal(values[0], &head); err != nil {
			return nil, err
		}
		if _, ok := head["honors"]; ok {
			var w wrapper
			if err := json.Unmarshal(values[0], &w); err != nil {
				return nil, err
			}
			return w.Honors, nil
		}
	}

	entries := make([]honor.RawEntry, 0, len(values))
	for i, raw := range values {
		var entry honor.RawEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadDir loads every *.json and *.jsonl file in dir in lexical order.
func LoadDir(dir string) ([]honor.RawEntry, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.jsonl"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)

	var entries []honor.RawEntry
	for _, file := range files {
		loaded, err := Load(file)
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}
	return entries, nil
}

// LoadPath loads a single file or, when path is a directory, every corpus
// file inside it.
func LoadPath(path string) ([]honor.RawEntry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("corpus path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat corpus: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return Load(path)
}
