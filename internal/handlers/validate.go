package handlers

import (
	"encoding/json"
	"net/http"

	"trainprep/internal/schema"
)

// ValidateRequest is the body of a text validation request.
type ValidateRequest struct {
	Text string `json:"text"`
}

// ValidateText checks a free-text request field against the schema
// rules. This endpoint exists for upstream form handling; it has
// nothing to do with the preprocessing pipeline.
func (h *Handlers) ValidateText(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := schema.Text("text", req.Text); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]string{"status": "valid"})
}
