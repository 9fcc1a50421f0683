package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status  string                 `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Checks  map[string]HealthCheck `json:"checks,omitempty"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler reports overall service health
type HealthHandler struct {
	version string
	mongo   Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, mongo Pinger) *HealthHandler {
	return &HealthHandler{version: version, mongo: mongo}
}

// GetOverallHealth godoc
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetOverallHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Service: "crm-backend-api",
		Version: h.version,
		Checks:  make(map[string]HealthCheck),
	}

	allHealthy := true

	if h.mongo != nil {
		start := time.Now()
		check := HealthCheck{Status: "healthy"}
		if err := h.mongo.Ping(); err != nil {
			check.Status = "unhealthy"
			check.Error = err.Error()
			allHealthy = false
		}
		check.Latency = time.Since(start).String()
		response.Checks["mongodb"] = check
	}

	w.Header().Set("Content-Type", "application/json")
	if allHealthy {
		response.Status = "healthy"
		w.WriteHeader(http.StatusOK)
	} else {
		response.Status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}
