package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all resolved application paths.
// Every path is absolute; relative configuration entries are resolved
// against the executable directory, never the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	FreqsDir      string
	DownloadsDir  string
	LogsDir       string
}

// GetPaths resolves the application paths for the given configuration
func GetPaths(cfg *Config) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(exeDir, p)
	}

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       resolve(cfg.Paths.DataDir),
		FreqsDir:      resolve(cfg.Dataset.Dir),
		DownloadsDir:  resolve(cfg.Paths.DownloadsDir),
		LogsDir:       resolve(cfg.Paths.LogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if missing
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.FreqsDir, p.DownloadsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDownloadPath returns the path for a file in the downloads directory
func (p *Paths) GetDownloadPath(filename string) string {
	return filepath.Join(p.DownloadsDir, filename)
}

// GetLogPath returns the path for a file in the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
