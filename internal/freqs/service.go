package freqs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wordtrend/internal/exporter"
)

// ErrNotLoaded is returned when a query arrives before any corpus has
// been loaded.
var ErrNotLoaded = errors.New("frequency corpus not loaded")

// Service serves dataset queries over an atomically swappable corpus
// snapshot. Reload replaces the snapshot without blocking readers for
// the duration of the disk scan.
type Service struct {
	mu      sync.RWMutex
	dataset *Dataset
	logger  *slog.Logger
}

// NewService creates a frequency service with no corpus loaded
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// NewServiceWithDataset creates a service around an existing dataset,
// used by tests and the CLI.
func NewServiceWithDataset(dataset *Dataset, logger *slog.Logger) *Service {
	s := NewService(logger)
	s.dataset = dataset
	return s
}

// Reload loads the corpus from dir and swaps it in
func (s *Service) Reload(ctx context.Context, dir string) error {
	start := time.Now()
	dataset, err := LoadDir(dir)
	if err != nil {
		s.logger.ErrorContext(ctx, "corpus reload failed",
			"dir", dir,
			"error", err)
		return err
	}

	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "corpus reloaded",
		"dir", dir,
		"days", dataset.Days(),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Snapshot returns the current dataset
func (s *Service) Snapshot() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNotLoaded
	}
	return s.dataset, nil
}

// TopWords runs a top-words query against the current snapshot
func (s *Service) TopWords(ctx context.Context, q TopWordsQuery) (*exporter.Table, error) {
	dataset, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return dataset.TopWords(q)
}

// Trends runs a word-trends query against the current snapshot
func (s *Service) Trends(ctx context.Context, q TrendsQuery) (*exporter.Table, []string, error) {
	dataset, err := s.Snapshot()
	if err != nil {
		return nil, nil, err
	}
	return dataset.Trends(q)
}
