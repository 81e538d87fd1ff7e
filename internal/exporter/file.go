package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileWriter persists exported documents beneath a base directory.
// It is the local-filesystem counterpart of the browser-download
// boundary: the exporter produces bytes, the writer owns placement.
type FileWriter struct {
	baseDir   string
	bomPrefix bool // prepend UTF-8 BOM for Excel compatibility
}

// NewFileWriter creates a writer rooted at baseDir
func NewFileWriter(baseDir string, bomPrefix bool) *FileWriter {
	return &FileWriter{baseDir: baseDir, bomPrefix: bomPrefix}
}

// Write stores data under the base directory and returns the full path
func (w *FileWriter) Write(filename string, data []byte) (string, error) {
	fullPath := filepath.Join(w.baseDir, filename)

	slog.Info("Writing export file",
		slog.String("file_path", filename),
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if w.bomPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("failed to write data: %w", err)
	}

	return fullPath, nil
}
