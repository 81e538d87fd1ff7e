// Package download is the host boundary for delivering export
// payloads. The exporter produces bytes; a Downloader decides how they
// reach the user. Implementations are selected by the caller (HTTP
// handler, CLI), never inside the exporter.
package download

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// MIMECSV is the content type for CSV exports
const MIMECSV = "text/csv; charset=UTF-8"

// MIMEXLSX is the content type for workbook exports
const MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Payload is a finished export ready for delivery
type Payload struct {
	Data     []byte
	Filename string
	MIME     string
}

// Downloader delivers an export payload to the user
type Downloader interface {
	Download(ctx context.Context, payload Payload) error
}

// Attachment delivers a payload as an HTTP attachment response, the
// server-side equivalent of the browser "save blob as file" primitive.
type Attachment struct {
	w http.ResponseWriter
}

// NewAttachment creates a downloader writing to an HTTP response
func NewAttachment(w http.ResponseWriter) *Attachment {
	return &Attachment{w: w}
}

// Download writes the payload with attachment headers
func (a *Attachment) Download(ctx context.Context, payload Payload) error {
	a.w.Header().Set("Content-Type", payload.MIME)
	a.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	a.w.Header().Set("Content-Length", strconv.Itoa(len(payload.Data)))

	if _, err := a.w.Write(payload.Data); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	return nil
}

// Dir delivers a payload into a local directory, for CLI and offline
// hosts.
type Dir struct {
	baseDir string
}

// NewDir creates a downloader saving into baseDir
func NewDir(baseDir string) *Dir {
	return &Dir{baseDir: baseDir}
}

// Download saves the payload beneath the base directory
func (d *Dir) Download(ctx context.Context, payload Payload) error {
	fullPath := filepath.Join(d.baseDir, payload.Filename)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, payload.Data, 0644); err != nil {
		return fmt.Errorf("failed to save download: %w", err)
	}
	return nil
}
