package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidKeywords is returned when a keywords file has no usable entries
	ErrInvalidKeywords = errors.New("invalid keywords file")
)

// KeywordGroups is the YAML layout of KEYWORDS_FILE
//
//	run:
//	  - 智能建造 robotics
//	history:
//	  - 智能建造政策 2024
type KeywordGroups struct {
	Run     []string `yaml:"run"`
	History []string `yaml:"history"`
}

// LoadKeywords reads and validates a keywords file
func LoadKeywords(path string) (KeywordGroups, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return KeywordGroups{}, fmt.Errorf("read keywords file: %w", err)
	}

	var groups KeywordGroups
	if err := yaml.Unmarshal(raw, &groups); err != nil {
		return KeywordGroups{}, fmt.Errorf("%w: %v", ErrInvalidKeywords, err)
	}

	groups.Run = clean(groups.Run)
	groups.History = clean(groups.History)
	if len(groups.Run) == 0 && len(groups.History) == 0 {
		return KeywordGroups{}, fmt.Errorf("%w: %s has no keywords", ErrInvalidKeywords, path)
	}
	return groups, nil
}

func clean(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
