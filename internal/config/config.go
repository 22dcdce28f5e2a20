package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autosort/internal/errors"
	"autosort/pkg/types"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is written into every saved configuration.
const CurrentVersion = "2.0"

// DateFormat selects how the modification date is laid out as folders.
type DateFormat string

const (
	DateYearMonth      DateFormat = "YYYY-MM"    // one segment: 2024-03
	DateYearThenMonth  DateFormat = "YYYY/MM"    // two segments: 2024/03
	DateYearMonthDay   DateFormat = "YYYY/MM/DD" // three segments: 2024/03/15
	dateYearMonthDayES DateFormat = "AAAA/MM/DD"
)

// Normalize maps accepted aliases onto the canonical formats.
func (f DateFormat) Normalize() DateFormat {
	switch strings.ToUpper(strings.TrimSpace(string(f))) {
	case string(DateYearThenMonth):
		return DateYearThenMonth
	case string(DateYearMonthDay), string(dateYearMonthDayES):
		return DateYearMonthDay
	case string(DateYearMonth):
		return DateYearMonth
	}
	return f
}

// Valid reports whether f is one of the canonical formats.
func (f DateFormat) Valid() bool {
	switch f {
	case DateYearMonth, DateYearThenMonth, DateYearMonthDay:
		return true
	}
	return false
}

// DateFormats lists the canonical formats in display order.
func DateFormats() []DateFormat {
	return []DateFormat{DateYearMonth, DateYearThenMonth, DateYearMonthDay}
}

// Settings are the operational switches of an organize run.
type Settings struct {
	OrganizeByType    bool       `yaml:"organize_by_type"`    // Group into category folders
	OrganizeByDate    bool       `yaml:"organize_by_date"`    // Group into modification-date folders
	DateFormat        DateFormat `yaml:"date_format"`         // YYYY-MM, YYYY/MM or YYYY/MM/DD
	OrganizeByProject bool       `yaml:"organize_by_project"` // Group into detected project folders
	MoveFiles         bool       `yaml:"move_files"`          // Move when true, copy when false
	CreateSubfolders  bool       `yaml:"create_subfolders"`   // Create missing destination folders
	IgnoreHidden      bool       `yaml:"ignore_hidden"`       // Leave dot-files alone
	IgnoreSystem      bool       `yaml:"ignore_system"`       // Leave OS bookkeeping files alone
	MaxSizeMB         int64      `yaml:"max_size_mb"`         // Skip larger files (0 = no limit)
	SafeMode          bool       `yaml:"safe_mode"`           // Record collisions instead of renaming
	PreserveStructure bool       `yaml:"preserve_structure"`  // Single files go under <parent>/<output_dir>
	OutputDir         string     `yaml:"output_dir"`          // Name of the organized folder under the root
	IgnorePatterns    []string   `yaml:"ignore_patterns"`     // Extra glob patterns on base names to ignore
}

// Statistics accumulate over every run recorded in this configuration.
type Statistics struct {
	TotalFiles     int        `yaml:"total_files"`
	OrganizedFiles int        `yaml:"organized_files"`
	FoldersCreated int        `yaml:"folders_created"`
	BytesOrganized int64      `yaml:"bytes_organized"`
	LastRun        *time.Time `yaml:"last_run"`
}

// Config represents the application configuration structure.
// It holds the category table, settings, cumulative statistics and run history.
type Config struct {
	Version    string           `yaml:"version"`
	UpdatedAt  time.Time        `yaml:"updated_at"`
	Categories []types.Category `yaml:"categories"` // Ordered; first match wins
	Settings   Settings         `yaml:"settings"`
	Watch      struct {
		IntervalSeconds int `yaml:"interval_seconds"` // Quiet period before a watch run
	} `yaml:"watch"`
	Favorites    []string             `yaml:"favorites"`
	Statistics   Statistics           `yaml:"statistics"`
	HistoryLimit int                  `yaml:"history_limit"` // Newest entries kept (0 = all)
	History      []types.HistoryEntry `yaml:"history"`
}

// DefaultPath returns the per-user configuration file location:
// $XDG_CONFIG_HOME/autosort/config.yaml on Linux, ~/Library/Application
// Support/autosort/config.yaml on macOS and %AppData%\autosort\config.yaml
// on Windows.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.NewConfigError("cannot locate user config directory", "", errors.ConfigNotFound, err)
	}
	return filepath.Join(dir, "autosort", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, errors.NewPathError("error reading config file", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, so keys missing from data keep
// their default values, then normalizes and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", "", errors.InvalidConfig, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	return NewStore(path).Save(cfg)
}

// Normalize lowercases extensions, adds missing leading dots and maps
// date format aliases. It is idempotent.
func (c *Config) Normalize() {
	for i := range c.Categories {
		exts := c.Categories[i].Extensions
		for j, ext := range exts {
			exts[j] = NormalizeExtension(ext)
		}
	}
	c.Settings.DateFormat = c.Settings.DateFormat.Normalize()
	c.Settings.OutputDir = strings.TrimSpace(c.Settings.OutputDir)
}

// NormalizeExtension lowercases ext and ensures a leading dot.
// The empty extension stays empty.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if !c.Settings.DateFormat.Valid() {
		return errors.NewConfigError(fmt.Sprintf("invalid date format %q", c.Settings.DateFormat), "date_format", errors.InvalidConfig, nil)
	}
	if c.Settings.MaxSizeMB < 0 {
		return errors.NewConfigError("max size must be >= 0", "max_size_mb", errors.InvalidConfig, nil)
	}
	if c.Settings.OutputDir == "" || c.Settings.OutputDir == "." || c.Settings.OutputDir == ".." ||
		strings.ContainsAny(c.Settings.OutputDir, `/\`) {
		return errors.NewConfigError(fmt.Sprintf("output directory must be a single folder name, got %q", c.Settings.OutputDir), "output_dir", errors.InvalidConfig, nil)
	}
	for i, pattern := range c.Settings.IgnorePatterns {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("ignore pattern %d is not a valid glob", i), "ignore_patterns", errors.InvalidConfig, err)
		}
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, category := range c.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return errors.NewConfigError(fmt.Sprintf("category %d: name is required", i), "categories", errors.InvalidConfig, nil)
		}
		if strings.ContainsAny(category.Name, `/\`) {
			return errors.NewConfigError(fmt.Sprintf("category %q: name cannot contain path separators", category.Name), "categories", errors.InvalidConfig, nil)
		}
		if seen[category.Name] {
			return errors.NewConfigError(fmt.Sprintf("category %q is defined twice", category.Name), "categories", errors.InvalidConfig, nil)
		}
		seen[category.Name] = true
		for _, ext := range category.Extensions {
			if ext == "" || ext == "." {
				return errors.NewConfigError(fmt.Sprintf("category %q: empty extension", category.Name), "categories", errors.InvalidConfig, nil)
			}
		}
	}

	if c.Watch.IntervalSeconds < 1 {
		return errors.NewConfigError("watch interval must be >= 1 second", "watch.interval_seconds", errors.InvalidConfig, nil)
	}
	if c.HistoryLimit < 0 {
		return errors.NewConfigError("history limit must be >= 0", "history_limit", errors.InvalidConfig, nil)
	}
	for _, fav := range c.Favorites {
		if strings.TrimSpace(fav) == "" {
			return errors.NewConfigError("favorite folder path cannot be empty", "favorites", errors.InvalidConfig, nil)
		}
	}

	return nil
}

// RecordRun folds a finished run into the cumulative statistics and
// appends it to the history, dropping the oldest entries beyond
// HistoryLimit.
func (c *Config) RecordRun(entry types.HistoryEntry) {
	c.Statistics.TotalFiles += entry.Stats.Processed
	c.Statistics.OrganizedFiles += entry.Stats.Moved
	c.Statistics.FoldersCreated += entry.Stats.FoldersCreated
	c.Statistics.BytesOrganized += entry.Stats.Bytes
	last := entry.Timestamp
	c.Statistics.LastRun = &last

	c.History = append(c.History, entry)
	if c.HistoryLimit > 0 && len(c.History) > c.HistoryLimit {
		c.History = append([]types.HistoryEntry(nil), c.History[len(c.History)-c.HistoryLimit:]...)
	}
}

// AddFavorite remembers dir once.
func (c *Config) AddFavorite(dir string) {
	for _, fav := range c.Favorites {
		if fav == dir {
			return
		}
	}
	c.Favorites = append(c.Favorites, dir)
}

// Clone returns a deep copy, so a run can hold its own snapshot while the
// caller keeps editing the original.
func (c *Config) Clone() *Config {
	out := *c
	out.Categories = make([]types.Category, len(c.Categories))
	for i, category := range c.Categories {
		out.Categories[i] = types.Category{
			Name:       category.Name,
			Extensions: append([]string(nil), category.Extensions...),
		}
	}
	out.Settings.IgnorePatterns = append([]string(nil), c.Settings.IgnorePatterns...)
	out.Favorites = append([]string(nil), c.Favorites...)
	out.History = append([]types.HistoryEntry(nil), c.History...)
	if c.Statistics.LastRun != nil {
		last := *c.Statistics.LastRun
		out.Statistics.LastRun = &last
	}
	return &out
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
