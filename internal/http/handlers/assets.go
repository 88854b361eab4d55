package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"creativestudio/internal/assets"
	"creativestudio/internal/domain"
)

const (
	maxUploadBytes = 32 << 20
	defaultSide    = 1024
)

type assetResponse struct {
	AssetID  string `json:"assetId"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
}

// UploadAsset stores a multipart image and records it as a source asset.
func (a *App) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "No file provided")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	if len(data) > maxUploadBytes {
		a.error(w, http.StatusBadRequest, "File too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		ext = assets.ExtensionForMime(contentType)
	}
	deviceID := strings.TrimSpace(r.FormValue("deviceId"))
	if deviceID == "" {
		deviceID = "unknown"
	}

	assetID := a.newID()
	url, err := a.Blobs.Put(r.Context(), assetID+"."+ext, data, contentType)
	if err != nil {
		a.Logger.Error().Err(err).Str("asset_id", assetID).Msg("assets: upload failed")
		a.error(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	width, height := imageDimensions(data)
	asset := &domain.Asset{
		ID:        assetID,
		DeviceID:  deviceID,
		URL:       url,
		ThumbURL:  url,
		Width:     width,
		Height:    height,
		MimeType:  contentType,
		CreatedAt: time.Now().UTC(),
	}
	a.recordAsset(r.Context(), asset)
	a.json(w, http.StatusOK, assetResponse{
		AssetID:  asset.ID,
		URL:      asset.URL,
		ThumbURL: asset.ThumbURL,
		Width:    asset.Width,
		Height:   asset.Height,
		MimeType: asset.MimeType,
	})
}

type importAssetRequest struct {
	URL string `json:"url"`
}

// ImportAsset copies a remote image into blob storage.
func (a *App) ImportAsset(w http.ResponseWriter, r *http.Request) {
	var req importAssetRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if strings.TrimSpace(req.URL) == "" {
		a.error(w, http.StatusBadRequest, "URL is required")
		return
	}
	data, contentType, err := a.Fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		a.Logger.Warn().Err(err).Str("url", req.URL).Msg("assets: import fetch failed")
		a.error(w, http.StatusBadRequest, "Failed to fetch image from URL")
		return
	}
	if contentType == "" {
		contentType = "image/png"
	}
	assetID := a.newID()
	url, err := a.Blobs.Put(r.Context(), "assets/"+assetID+"."+mimeSubtype(contentType), data, contentType)
	if err != nil {
		a.Logger.Error().Err(err).Str("asset_id", assetID).Msg("assets: import upload failed")
		a.error(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}
	width, height := imageDimensions(data)
	asset := &domain.Asset{
		ID:        assetID,
		DeviceID:  "url-upload",
		URL:       url,
		Width:     width,
		Height:    height,
		MimeType:  contentType,
		CreatedAt: time.Now().UTC(),
	}
	a.recordAsset(r.Context(), asset)
	a.json(w, http.StatusOK, assetResponse{
		AssetID:  asset.ID,
		URL:      asset.URL,
		Width:    asset.Width,
		Height:   asset.Height,
		MimeType: asset.MimeType,
	})
}

// recordAsset persists the asset row. The blob is already public, so a
// failed insert is logged and the upload still succeeds.
func (a *App) recordAsset(ctx context.Context, asset *domain.Asset) {
	if a.Assets == nil {
		return
	}
	if err := a.Assets.Create(ctx, asset); err != nil {
		a.Logger.Error().Err(err).Str("asset_id", asset.ID).Msg("assets: insert failed")
	}
}

func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return defaultSide, defaultSide
	}
	return cfg.Width, cfg.Height
}

func mimeSubtype(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		return sub
	}
	return "png"
}
