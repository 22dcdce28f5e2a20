// Package analysis previews an organize run: it walks a folder with the
// same rules the organizer uses and reports where each file would go,
// without creating or moving anything.
package analysis

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/fsx"
	"autosort/internal/log"
	"autosort/internal/organize"
	"autosort/pkg/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// Planned is the preview for a single file.
type Planned struct {
	Path        string
	Size        int64
	Category    string
	Destination string // relative to the output folder; empty when skipped
	SkipReason  string
	ContentType string // only sniffed for files without a known category
}

// CategorySummary counts the files headed for one category folder.
type CategorySummary struct {
	Name  string
	Files int
	Bytes int64
}

// Report is the preview of a whole folder.
type Report struct {
	Root       string
	Files      []Planned
	Categories []CategorySummary // largest first
	Ignored    int
	Oversized  int
	Bytes      int64
}

// Engine builds previews.
type Engine struct {
	fs         afero.Fs
	settings   config.Settings
	classifier *organize.Classifier
	ignore     *organize.IgnoreRules
}

// New creates an engine for cfg on fs. A nil fs uses the operating system.
func New(cfg *config.Config, fs afero.Fs) (*Engine, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	ignore, err := organize.NewIgnoreRules(cfg.Settings)
	if err != nil {
		return nil, err
	}
	return &Engine{
		fs:         fs,
		settings:   cfg.Settings,
		classifier: organize.NewClassifier(fs, cfg),
		ignore:     ignore,
	}, nil
}

// ScanDirectory previews organizing root. Files already inside the output
// folder are not listed.
func (e *Engine) ScanDirectory(root string) (*Report, error) {
	root = fsx.ResolveDir(e.fs, root)
	info, err := e.fs.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.NewFileError("folder to analyze is not a directory", root, errors.InvalidPath, err)
	}

	report := &Report{Root: root}
	totals := map[string]*CategorySummary{}
	outDir := filepath.Join(root, e.settings.OutputDir)

	err = afero.Walk(e.fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.LogWithError(err).With(log.F("path", path)).Debug("Skipping unreadable path")
			if fi != nil && fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.IsDir() {
			if path == outDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		planned := e.plan(root, types.NewFileDescriptor(path, fi))
		report.Files = append(report.Files, planned)
		switch planned.SkipReason {
		case "":
			report.Bytes += planned.Size
			sum, ok := totals[planned.Category]
			if !ok {
				sum = &CategorySummary{Name: planned.Category}
				totals[planned.Category] = sum
			}
			sum.Files++
			sum.Bytes += planned.Size
		case string(types.OutcomeSizeExceeded):
			report.Oversized++
		default:
			report.Ignored++
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewPathError("cannot list folder", root, err)
	}

	for _, sum := range totals {
		report.Categories = append(report.Categories, *sum)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if a.Files != b.Files {
			return a.Files > b.Files
		}
		return a.Name < b.Name
	})

	log.LogWithFields(log.F("root", root), log.F("files", len(report.Files))).Debug("Folder analyzed")
	return report, nil
}

func (e *Engine) plan(root string, file types.FileDescriptor) Planned {
	p := Planned{Path: file.Path, Size: file.Size}
	if reason, ignored := e.ignore.Match(file.Name()); ignored {
		p.SkipReason = reason
		return p
	}
	if e.settings.MaxSizeMB > 0 && file.SizeMB() > float64(e.settings.MaxSizeMB) {
		p.SkipReason = string(types.OutcomeSizeExceeded)
		return p
	}

	p.Category = e.classifier.Category(file)
	p.Destination = filepath.Join(append(e.classifier.Segments(file, root), file.Name())...)

	if p.Category == organize.OtherCategory {
		p.ContentType = e.contentType(file.Path)
	}
	return p
}

// contentType sniffs the first bytes of path, returning "" when the file
// cannot be read.
func (e *Engine) contentType(path string) string {
	f, err := e.fs.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return ""
	}
	ct := mime.String()
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
