package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"trainprep/internal/dataset"
	"trainprep/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeError maps the pipeline error taxonomy onto HTTP status codes
// and reports the failing path or field to the caller.
func writeError(w http.ResponseWriter, err error) {
	var notFound *dataset.NotFoundError
	var decodeErr *dataset.DecodeError
	var configErr *dataset.ConfigError

	switch {
	case errors.As(err, &notFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &decodeErr):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &configErr):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		logging.Error("internal error: %v", err)
		writeJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
