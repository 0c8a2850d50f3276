package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"category-manager/core/reconcile"
	"category-manager/core/utils"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Archiver keeps a copy of a file's previous content before it is replaced.
// storage.Archive implements it.
type Archiver interface {
	Archive(ctx context.Context, runID, name string, data []byte) error
}

// Files reads and atomically replaces JSON files.
type Files struct {
	fs       afero.Fs
	archiver Archiver
	logger   *zap.Logger
}

// NewFiles creates a file accessor. archiver may be nil.
func NewFiles(fs afero.Fs, archiver Archiver, logger *zap.Logger) *Files {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Files{fs: fs, archiver: archiver, logger: logger}
}

// ReadJSON decodes the file at path into v.
func (f *Files) ReadJSON(path string, v any) error {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// load reads path into v. An unusable file yields a skipped result and false.
func (f *Files) load(path string, v any) (reconcile.Result, bool) {
	err := f.ReadJSON(path, v)
	if err == nil {
		return reconcile.Result{}, true
	}

	reason := err.Error()
	if errors.Is(err, os.ErrNotExist) {
		reason = "file not found"
	}
	f.logger.Warn("Skipping local file", zap.String("path", path), zap.String("reason", reason))
	return reconcile.Result{Skipped: true, Reason: fmt.Sprintf("%s: %s", path, reason)}, false
}

// WriteJSON replaces the file at path with v, archiving the old content first.
func (f *Files) WriteJSON(ctx context.Context, runID, path string, v any) error {
	data, err := utils.MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if f.archiver != nil {
		if prev, err := afero.ReadFile(f.fs, path); err == nil {
			if err := f.archiver.Archive(ctx, runID, path, prev); err != nil {
				f.logger.Warn("Failed to archive previous file", zap.String("path", path), zap.Error(err))
			}
		}
	}

	return f.replace(path, data)
}

// replace writes data to a temp file next to path and renames it over path.
func (f *Files) replace(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(f.fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := f.fs.Rename(tmpName, path); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// commit writes v when something changed and the run is not a dry run.
func (f *Files) commit(ctx context.Context, path string, v any, changed int, opts reconcile.Options) error {
	if changed == 0 {
		return nil
	}
	if opts.DryRun {
		f.logger.Info("Would write local file", zap.String("path", path), zap.Int("changed", changed), zap.Bool("dry_run", true))
		return nil
	}
	if err := f.WriteJSON(context.WithoutCancel(ctx), opts.RunID, path, v); err != nil {
		return err
	}
	f.logger.Info("Local file updated", zap.String("path", path), zap.Int("changed", changed))
	return nil
}
