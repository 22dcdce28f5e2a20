package types

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BytesPerMB is the divisor used for every size limit and size report.
const BytesPerMB = 1024 * 1024

// FileDescriptor is the per-file snapshot the organizer classifies.
// It is derived fresh from the filesystem for every file and never cached.
type FileDescriptor struct {
	Path    string    `json:"path"`
	Ext     string    `json:"ext"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// NewFileDescriptor builds a descriptor from a stat result.
func NewFileDescriptor(path string, info os.FileInfo) FileDescriptor {
	return FileDescriptor{
		Path:    path,
		Ext:     filepath.Ext(path),
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
}

// Name returns the base name of the file
func (f FileDescriptor) Name() string {
	return filepath.Base(f.Path)
}

// SizeMB returns the size in mebibytes.
func (f FileDescriptor) SizeMB() float64 {
	return float64(f.Size) / BytesPerMB
}

// String returns a human-readable representation
func (f FileDescriptor) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", f.Path))
	sb.WriteString(fmt.Sprintf("Modified: %s\n", f.ModTime.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Size: %d bytes\n", f.Size))
	return sb.String()
}
