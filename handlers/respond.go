package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bookgrove/bookgrove/logger"
)

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

// serverError logs the full error server-side and answers 500 with a generic
// message only.
func serverError(w http.ResponseWriter, err error, msg string) {
	log := logger.Get()
	log.Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, msg)
}
