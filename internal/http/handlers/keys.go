package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"creativestudio/internal/providers/genai"
)

const defaultValidateError = "Unable to validate key"

type validateKeyRequest struct {
	APIKey string `json:"apiKey"`
}

// ValidateKey pings the model with the supplied key. The key is never stored.
func (a *App) ValidateKey(w http.ResponseWriter, r *http.Request) {
	var req validateKeyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		a.error(w, http.StatusBadRequest, "API key is required")
		return
	}
	if err := a.Validate(r.Context(), key); err != nil {
		msg := genai.ErrorMessage(err)
		if msg == "" || msg == genai.DefaultErrorMessage {
			msg = defaultValidateError
		}
		a.error(w, http.StatusBadRequest, msg)
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"valid": true})
}
