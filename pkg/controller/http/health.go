package http

import (
	"net/http"
	"time"

	"github.com/cogni-dao/cogni-git-admin/pkg/domain/model"
	"github.com/cogni-dao/cogni-git-admin/pkg/domain/types"
)

// healthHandler handles health check requests
func healthHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:    "healthy",
			Service:   types.ServiceName,
			Version:   types.Version,
			Timestamp: now().UTC().Format(time.RFC3339),
		}
		writeJSON(r.Context(), w, http.StatusOK, status)
	}
}
