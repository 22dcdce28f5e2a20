package organize

import (
	"fmt"
	"path/filepath"

	"autosort/internal/config"
	"autosort/internal/errors"
	"autosort/internal/fsx"
	"autosort/internal/log"
	"autosort/pkg/types"

	"github.com/spf13/afero"
)

// Processor organizes one file at a time according to a fixed
// configuration snapshot.
type Processor struct {
	fs         afero.Fs
	settings   config.Settings
	classifier *Classifier
	ignore     *IgnoreRules
	boundary   string
}

// NewProcessor prepares a processor for cfg. The configuration is read
// once; later changes to cfg do not affect the processor.
func NewProcessor(fs afero.Fs, cfg *config.Config) (*Processor, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("no configuration", "", errors.InvalidConfig, nil)
	}
	ignore, err := NewIgnoreRules(cfg.Settings)
	if err != nil {
		return nil, err
	}
	return &Processor{
		fs:         fs,
		settings:   cfg.Settings,
		classifier: NewClassifier(fs, cfg),
		ignore:     ignore,
	}, nil
}

// SetBoundary limits project detection to root and the folders below it.
func (p *Processor) SetBoundary(root string) {
	p.boundary = root
}

// Process relocates path below destRoot. An empty destRoot means the
// file's own folder, or its <output_dir> subfolder when structure is
// preserved. Failures are reported through the result, never returned or
// raised.
func (p *Processor) Process(path, destRoot string) (result types.FileResult) {
	result = types.FileResult{SourcePath: path}
	defer func() {
		if r := recover(); r != nil {
			result.Outcome = types.OutcomeError
			result.Error = errors.NewFileError(fmt.Sprintf("unexpected failure: %v", r), path, errors.FileOperationFailed, nil)
			log.LogWithError(result.Error).Error("Recovered while organizing file")
		}
	}()

	name := filepath.Base(path)
	if reason, ok := p.ignore.Match(name); ok {
		log.LogWithFields(log.F("file", path), log.F("reason", reason)).Debug("Ignoring file")
		result.Outcome = types.OutcomeIgnored
		return result
	}

	info, err := p.fs.Stat(path)
	if err != nil {
		return p.fail(result, err)
	}
	if !info.Mode().IsRegular() {
		result.Outcome = types.OutcomeIgnored
		return result
	}
	file := types.NewFileDescriptor(path, info)

	if p.settings.MaxSizeMB > 0 && file.SizeMB() > float64(p.settings.MaxSizeMB) {
		log.LogWithFields(log.F("file", path), log.F("size_mb", file.SizeMB())).Info("File exceeds size limit")
		result.Outcome = types.OutcomeSizeExceeded
		return result
	}

	dir, created, err := EnsureDir(p.fs, p.destinationBase(path, destRoot), p.classifier.Segments(file, p.boundary), p.settings.CreateSubfolders)
	result.FoldersCreated = created
	if err != nil {
		return p.fail(result, err)
	}

	target := filepath.Join(dir, file.Name())
	result.DestinationPath = target
	if filepath.Clean(target) == filepath.Clean(path) {
		result.Outcome = types.OutcomeIgnored
		return result
	}

	free, err := isFree(p.fs, target)
	if err != nil {
		return p.fail(result, err)
	}
	if !free {
		if p.settings.SafeMode {
			log.LogWithFields(log.F("file", path), log.F("destination", target)).Warn("Destination exists, leaving file in place")
			result.Outcome = types.OutcomeConflict
			return result
		}
		if target, err = UniquePath(p.fs, target); err != nil {
			return p.fail(result, err)
		}
		result.DestinationPath = target
	}

	if p.settings.MoveFiles {
		err = fsx.Move(p.fs, path, target)
		result.Outcome = types.OutcomeMoved
	} else {
		err = fsx.Copy(p.fs, path, target)
		result.Outcome = types.OutcomeCopied
	}
	if err != nil {
		return p.fail(result, err)
	}
	result.Bytes = file.Size

	log.LogWithFields(
		log.F("file", path),
		log.F("destination", target),
		log.F("outcome", string(result.Outcome)),
	).Debug("File organized")
	return result
}

func (p *Processor) destinationBase(path, destRoot string) string {
	if destRoot != "" {
		return destRoot
	}
	parent := filepath.Dir(path)
	if p.settings.PreserveStructure {
		return filepath.Join(parent, p.settings.OutputDir)
	}
	return parent
}

func (p *Processor) fail(result types.FileResult, err error) types.FileResult {
	if errors.KindOf(err) == errors.Unknown {
		err = errors.NewPathError("cannot organize file", result.SourcePath, err)
	}
	result.Error = err
	if errors.IsFileAccessDenied(err) {
		result.Outcome = types.OutcomePermissionDenied
	} else {
		result.Outcome = types.OutcomeError
	}
	entry := log.LogWithError(err).With(log.F("file", result.SourcePath))
	if errors.IsFileNotFound(err) {
		entry.Info("File disappeared before it could be organized")
	} else {
		entry.Warn("Failed to organize file")
	}
	return result
}
