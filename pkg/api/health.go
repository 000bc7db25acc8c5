package api

import (
	"encoding/json"
	"net/http"

	"github.com/Chidera261/koraDB/pkg/storage"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	Stats   storage.DatabaseStats `json:"stats"`
}

// HandleHealth handles GET requests to the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Message: "koraDB is running",
		Stats:   h.db.Stats(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
