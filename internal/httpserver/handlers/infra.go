package handlers

import (
	"context"
	"net/http"
	"time"

	"linkstash/internal/httpserver/deps"
)

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the health of each infrastructure component. The route
// is meant for operators and is CIDR-restricted.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":        checkStore(r.Context(), d),
			"title_worker": titleWorkerStatus(d),
		}

		status := "ok"
		for _, c := range components {
			if !c.OK {
				status = "degraded"
				break
			}
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     status,
			Components: components,
		})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(pingCtx); err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{OK: true}
}

func titleWorkerStatus(d deps.Deps) componentStatus {
	if d.Titles == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	return componentStatus{OK: true, Mode: "running"}
}
