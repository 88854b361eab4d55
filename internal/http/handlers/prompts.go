package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"creativestudio/internal/domain"
)

type enhancePromptRequest struct {
	Prompt string       `json:"prompt"`
	Style  domain.Style `json:"style"`
}

func (a *App) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	var req enhancePromptRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if req.Style == "" {
		req.Style = domain.StylePhotorealistic
	}
	enhanced, err := a.Enhancer.Enhance(r.Context(), req.Prompt, req.Style)
	if err != nil {
		a.json(w, http.StatusInternalServerError, map[string]string{
			"error":          "Failed to enhance prompt",
			"enhancedPrompt": req.Prompt,
			"originalPrompt": req.Prompt,
		})
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"enhancedPrompt": enhanced,
		"originalPrompt": req.Prompt,
	})
}
