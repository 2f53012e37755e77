package handlers

import (
	"net/http"
	"runtime"
	"time"

	"trainprep/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	TrainDir     string `json:"trainDir"`
	ValDir       string `json:"valDir,omitempty"`
	DatasetDirty bool   `json:"datasetDirty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. A dirty
// dataset degrades health but does not fail it: batches keep flowing,
// they just come from a stale file list.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	dirty := h.watch != nil && h.watch.Dirty()

	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		TrainDir:     h.config.TrainDir,
		ValDir:       h.config.ValDir,
		DatasetDirty: dirty,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if dirty {
		response.Status = statusDegraded
	}

	writeJSON(w, response)
}

// LivenessCheck reports that the process is alive.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "alive"})
}

// ReadinessCheck reports that the service can accept traffic.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ready"})
}

// GetVersion returns build information.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, startup.GetBuildInfo())
}
