package organize

import (
	"path/filepath"
	"strings"

	"autosort/internal/config"
	"autosort/internal/errors"

	"github.com/gobwas/glob"
)

// Operating system bookkeeping files, compared case-insensitively.
var systemFiles = map[string]bool{
	"desktop.ini":     true,
	".ds_store":       true,
	"thumbs.db":       true,
	".localized":      true,
	".spotlight-v100": true,
	".fseventsd":      true,
}

// Partial downloads and scratch files are never moved.
var tempExtensions = map[string]bool{
	".tmp":        true,
	".temp":       true,
	".crdownload": true,
	".part":       true,
	".download":   true,
}

// IgnoreRules decide which files an organize run leaves alone.
type IgnoreRules struct {
	hidden   bool
	system   bool
	patterns []glob.Glob
}

// NewIgnoreRules compiles the ignore switches and patterns of s.
func NewIgnoreRules(s config.Settings) (*IgnoreRules, error) {
	rules := &IgnoreRules{hidden: s.IgnoreHidden, system: s.IgnoreSystem}
	for _, pattern := range s.IgnorePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewConfigError("invalid ignore pattern "+pattern, "ignore_patterns", errors.InvalidConfig, err)
		}
		rules.patterns = append(rules.patterns, g)
	}
	return rules, nil
}

// Match reports whether the file called name is ignored, and why.
func (r *IgnoreRules) Match(name string) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case r.system && systemFiles[lower]:
		return "system file", true
	case r.hidden && strings.HasPrefix(name, "."):
		return "hidden file", true
	case tempExtensions[filepath.Ext(lower)]:
		return "temporary file", true
	}
	for _, g := range r.patterns {
		if g.Match(name) {
			return "ignore pattern", true
		}
	}
	return "", false
}
