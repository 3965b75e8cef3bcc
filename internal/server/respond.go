package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/pkg/pronto"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

// upstreamStatus mirrors the status of a failed upstream call when one
// is present in the error chain, defaulting to 500.
func upstreamStatus(err error) int {
	var apiErr *pronto.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// writeError is the plain-envelope error response used by the
// global-result operation and the pass-through routes.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
