package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"wordtrend/internal/freqs"
	ws "wordtrend/internal/websocket"
)

// HealthService reports process and corpus health
type HealthService struct {
	version   string
	freqs     *freqs.Service
	hub       *ws.Hub
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Dataset   *DatasetHealth         `json:"dataset,omitempty"`
}

// DatasetHealth describes the loaded corpus
type DatasetHealth struct {
	Loaded bool   `json:"loaded"`
	Days   int    `json:"days,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// NewHealthService creates a health service
func NewHealthService(version string, freqsService *freqs.Service, hub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		freqs:     freqsService,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Version returns the build version
func (s *HealthService) Version() map[string]string {
	return map[string]string{"version": s.version}
}

// Check returns the current health status. The service degrades
// rather than fails when no corpus is loaded.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
	}
	if s.hub != nil {
		status.Runtime["websocket_clients"] = s.hub.ClientCount()
	}

	dataset := &DatasetHealth{}
	if s.freqs != nil {
		if snapshot, err := s.freqs.Snapshot(); err == nil {
			dataset.Loaded = true
			dataset.Days = snapshot.Days()
			dataset.From = snapshot.MinDate().Format("2006-01-02")
			dataset.To = snapshot.MaxDate().Format("2006-01-02")
		} else {
			status.Status = "degraded"
		}
	}
	status.Dataset = dataset

	return status
}
