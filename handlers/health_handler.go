package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bmeams/database"
)

// HealthCheckResponse represents health check status
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	MongoDB   string    `json:"mongodb,omitempty"`
	Postgres  string    `json:"postgres,omitempty"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// HealthCheck handles health check requests
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if database.Client != nil {
		if err := database.Client.Ping(ctx, nil); err != nil {
			response.Status = "unhealthy"
			response.MongoDB = "disconnected"
		} else {
			response.MongoDB = "connected"
		}
	}

	if database.SQL != nil {
		if err := database.SQL.PingContext(ctx); err != nil {
			response.Status = "unhealthy"
			response.Postgres = "disconnected"
		} else {
			response.Postgres = "connected"
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if response.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(response)
}
