package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"creativestudio/internal/domain"
)

type exportRequest struct {
	ImageURL string               `json:"imageUrl"`
	Preset   *domain.ExportPreset `json:"preset"`
}

// Export streams the original bytes back as an attachment named for the
// preset. Pixels are never re-encoded.
func (a *App) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if strings.TrimSpace(req.ImageURL) == "" || req.Preset == nil {
		a.error(w, http.StatusBadRequest, "Image URL and preset are required")
		return
	}
	data, _, err := a.Fetcher.Fetch(r.Context(), req.ImageURL)
	if err != nil {
		a.Logger.Warn().Err(err).Str("url", req.ImageURL).Msg("export: fetch failed")
		a.error(w, http.StatusBadRequest, "Failed to fetch image")
		return
	}
	w.Header().Set("Content-Type", req.Preset.Format.ContentType())
	filename := fmt.Sprintf("creative-studio-%s.%s", req.Preset.Platform, req.Preset.Format)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
