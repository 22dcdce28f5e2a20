package organize

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/pkg/types"

	"github.com/spf13/afero"
)

// NoProject is the folder for files without a detected project.
const NoProject = "No Project"

// Layout decides which folder levels a destination is made of.
type Layout struct {
	ByType     bool
	ByDate     bool
	DateFormat config.DateFormat
	ByProject  bool
}

// LayoutFromSettings picks the layout switches out of settings.
func LayoutFromSettings(s config.Settings) Layout {
	return Layout{
		ByType:     s.OrganizeByType,
		ByDate:     s.OrganizeByDate,
		DateFormat: s.DateFormat,
		ByProject:  s.OrganizeByProject,
	}
}

// Classification is what the organizer learned about one file.
// Date is already formatted, with "/" between folder levels.
type Classification struct {
	Category string
	Date     string
	Project  string
}

// FormatDate lays out t according to format. Unknown formats fall back
// to YYYY-MM.
func FormatDate(t time.Time, format config.DateFormat) string {
	switch format.Normalize() {
	case config.DateYearThenMonth:
		return t.Format("2006/01")
	case config.DateYearMonthDay:
		return t.Format("2006/01/02")
	default:
		return t.Format("2006-01")
	}
}

// Segments returns the folder names below the destination root, in the
// order category, date levels, project.
func (l Layout) Segments(c Classification) []string {
	var segments []string
	if l.ByType {
		segments = append(segments, c.Category)
	}
	if l.ByDate && c.Date != "" {
		segments = append(segments, strings.Split(c.Date, "/")...)
	}
	if l.ByProject {
		project := c.Project
		if project == "" {
			project = NoProject
		}
		segments = append(segments, project)
	}
	return segments
}

// Classifier decides which folders below the destination root a file
// belongs in.
type Classifier struct {
	layout      Layout
	categorizer *Categorizer
	projects    *ProjectDetector
}

// NewClassifier builds a classifier for cfg. Project markers are looked up
// on fs.
func NewClassifier(fs afero.Fs, cfg *config.Config) *Classifier {
	return &Classifier{
		layout:      LayoutFromSettings(cfg.Settings),
		categorizer: NewCategorizer(cfg.Categories),
		projects:    NewProjectDetector(fs),
	}
}

// Category returns the category of file whether or not the layout groups
// by type.
func (c *Classifier) Category(file types.FileDescriptor) string {
	return c.categorizer.Categorize(file.Ext)
}

// Classify fills in the levels the layout uses. Project detection does
// not look above boundary.
func (c *Classifier) Classify(file types.FileDescriptor, boundary string) Classification {
	var class Classification
	if c.layout.ByType {
		class.Category = c.Category(file)
	}
	if c.layout.ByDate {
		class.Date = FormatDate(file.ModTime, c.layout.DateFormat)
	}
	if c.layout.ByProject {
		class.Project, _ = c.projects.Detect(file.Path, boundary)
	}
	return class
}

// Segments returns the folders file goes into below the destination root.
func (c *Classifier) Segments(file types.FileDescriptor, boundary string) []string {
	return c.layout.Segments(c.Classify(file, boundary))
}

// EnsureDir makes sure base/segments... exists and returns it along with
// the number of directories that had to be created. When create is false
// a missing directory is an InvalidPath error.
func EnsureDir(fs afero.Fs, base string, segments []string, create bool) (string, int, error) {
	target := filepath.Join(append([]string{base}, segments...)...)

	// Collect missing directories from the target upwards.
	var missing []string
	for dir := target; ; {
		info, err := fs.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return "", 0, errors.NewFileError("destination is not a directory", dir, errors.InvalidPath, nil)
			}
			break
		}
		if !os.IsNotExist(err) {
			return "", 0, err
		}
		missing = append(missing, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if len(missing) == 0 {
		return target, 0, nil
	}
	if !create {
		return "", 0, errors.NewFileError("destination folder does not exist", missing[len(missing)-1], errors.InvalidPath, nil)
	}

	created := 0
	for i := len(missing) - 1; i >= 0; i-- {
		if err := fs.Mkdir(missing[i], 0o755); err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", created, err
		}
		created++
	}
	return target, created, nil
}
