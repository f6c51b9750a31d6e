package render

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/omni/bridge-orchestrator/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, res interface{}) {
	blob, err := marshal(r, res)
	if err != nil {
		Error(w, r, fmt.Errorf("failed to marshal JSON result: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(blob); err != nil {
		logging.LoggerFromContext(r.Context()).WithError(err).Warn("failed to write response")
	}
}

// Message renders a client error with the given status.
func Message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, errorResponse{Error: msg})
}

// Error logs err and hides it from the client behind a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.LoggerFromContext(r.Context())
	logger.WithError(err).Error("request handling failed")
	Message(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func marshal(r *http.Request, res interface{}) ([]byte, error) {
	if pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty")); pretty {
		return json.MarshalIndent(res, "", "  ")
	}
	return json.Marshal(res)
}
