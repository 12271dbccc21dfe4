package awardrules

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Loader reads rule files from a directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader for dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll reads every *.yaml and *.yml file in lexical order. A missing
// directory yields no rules.
func (l *Loader) LoadAll() ([]Rule, error) {
	if l.dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(l.dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("find yaml rule files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("find yml rule files: %w", err)
	}
	files = append(files, ymlFiles...)
	sort.Strings(files)

	var rules []Rule
	for _, file := range files {
		loaded, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		for _, rule := range loaded {
			if err := rule.validate(); err != nil {
				return nil, fmt.Errorf("load %s: %w", file, err)
			}
		}
		rules = append(rules, loaded...)
	}
	return rules, nil
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

func (l *Loader) loadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var list ruleFile
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(list.Rules) > 0 {
		return list.Rules, nil
	}

	var single Rule
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return []Rule{single}, nil
}

// LoadSet merges the built-in defaults with the rule files in dir.
func LoadSet(dir string, defaultSingleWinner bool) (*Set, error) {
	loaded, err := NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}
	rules := append(Defaults(), loaded...)
	return NewSet(defaultSingleWinner, rules...), nil
}
