package organize

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Files whose presence marks a directory as a project root.
var projectMarkers = []string{
	"package.json", "requirements.txt", "pom.xml", "build.gradle",
	"Cargo.toml", "composer.json", "go.mod", ".git", ".gitignore", ".svn",
	"README.md", "Makefile", "CMakeLists.txt", "Dockerfile",
	"docker-compose.yml", "pyproject.toml", "setup.py", "index.html",
	"manifest.json", "pubspec.yaml",
}

// Name fragments that mark a loose file as project work.
var projectKeywords = []string{"proyecto", "project", "trabajo", "work", "cliente", "client"}

// ProjectDetector guesses which project a file belongs to.
// It is not safe for concurrent use.
type ProjectDetector struct {
	fs    afero.Fs
	title cases.Caser
}

// NewProjectDetector returns a detector reading markers from fs.
func NewProjectDetector(fs afero.Fs) *ProjectDetector {
	return &ProjectDetector{
		fs:    fs,
		title: cases.Title(language.Und),
	}
}

// Detect walks up from the file's directory looking for a project marker
// and returns the name of the first directory holding one. For files under
// boundary the walk ends at boundary; with an empty boundary it goes up to
// the filesystem root. Without a marker, the file name is searched for a
// project keyword, returned title-cased.
func (d *ProjectDetector) Detect(path, boundary string) (string, bool) {
	dir := filepath.Dir(filepath.Clean(path))
	bounded := boundary != "" && within(dir, filepath.Clean(boundary))
	if bounded {
		boundary = filepath.Clean(boundary)
	}

	for {
		if d.hasMarker(dir) {
			return filepath.Base(dir), true
		}
		if bounded && dir == boundary {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	name := strings.ToLower(filepath.Base(path))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, keyword := range projectKeywords {
		if strings.Contains(stem, keyword) {
			return d.title.String(keyword), true
		}
	}
	return "", false
}

func (d *ProjectDetector) hasMarker(dir string) bool {
	for _, marker := range projectMarkers {
		if _, err := d.fs.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// within reports whether dir is root or lies below it.
func within(dir, root string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
