package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, statusCode int, success bool, message string, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(Envelope{Success: success, Message: message, Data: data}); err != nil {
		log.Err(err).Msg("Failed to write response envelope")
	}
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeEnvelope(w, http.StatusOK, true, message, data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, false, message, nil)
}
