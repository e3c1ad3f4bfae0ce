// File path: internal/api/respond.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		common.Logger().Error("api: encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := coderr.HTTPStatus(err)
	logger := common.Logger()
	if status >= 500 {
		logger.Error("api: request failed", "status", status, "error", err)
	} else {
		logger.Warn("api: request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
