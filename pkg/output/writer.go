// pkg/output/writer.go
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// WriteFunc streams content into w
type WriteFunc func(w io.Writer) error

// FileWriter writes report artifacts to disk
type FileWriter struct {
	logger *zap.Logger
	open   func(path string) error
}

// NewFileWriter creates a new FileWriter
func NewFileWriter(logger *zap.Logger) *FileWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileWriter{
		logger: logger,
		open:   browser.OpenFile,
	}
}

// Write replaces the file at path with the content produced by fn.
// Content goes to a temporary file in the same directory first, so a failed
// render never leaves a truncated file behind.
func (fw *FileWriter) Write(path string, fn WriteFunc) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	buf := bufio.NewWriter(tmp)
	if err := fn(buf); err != nil {
		tmp.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	fw.logger.Info("Wrote output file", zap.String("path", path))
	return nil
}

// Show opens the file with the system viewer. Failures are logged, not returned,
// because the file has already been written.
func (fw *FileWriter) Show(path string) {
	if err := fw.open(path); err != nil {
		fw.logger.Warn("Failed to display output",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	fw.logger.Debug("Opened output for display", zap.String("path", path))
}
