package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"creativestudio/internal/domain"
	"creativestudio/internal/jobs"
)

const historyLimit = 50

type submitJobRequest struct {
	Prompt              string                     `json:"prompt"`
	OriginalPrompt      string                     `json:"originalPrompt"`
	AssetID             string                     `json:"assetId"`
	Settings            *domain.GenerationSettings `json:"settings"`
	DeviceID            string                     `json:"deviceId"`
	ConversationHistory []domain.ConversationTurn  `json:"conversationHistory"`
	ThoughtSignature    string                     `json:"thoughtSignature"`
	IsHD                bool                       `json:"isHD"`
	IsToolOperation     bool                       `json:"isToolOperation"`
	APIKeyOverride      string                     `json:"apiKeyOverride"`
}

type submitJobResponse struct {
	JobID           string                    `json:"jobId"`
	DeviceID        string                    `json:"deviceId"`
	Status          domain.JobStatus          `json:"status"`
	OriginalPrompt  string                    `json:"originalPrompt"`
	EnhancedPrompt  string                    `json:"enhancedPrompt"`
	Settings        domain.GenerationSettings `json:"settings"`
	ProgressMessage *string                   `json:"progressMessage"`
	CreatedAt       time.Time                 `json:"createdAt"`
	UpdatedAt       time.Time                 `json:"updatedAt"`
}

// SubmitJob validates the request, persists a processing job and returns it
// while generation continues in the background.
func (a *App) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req submitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	job, err := a.Submitter.Submit(r.Context(), jobs.SubmitRequest{
		Prompt:              req.Prompt,
		OriginalPrompt:      req.OriginalPrompt,
		AssetID:             req.AssetID,
		Settings:            req.Settings,
		DeviceID:            req.DeviceID,
		ConversationHistory: req.ConversationHistory,
		ThoughtSignature:    req.ThoughtSignature,
		IsHD:                req.IsHD,
		IsToolOperation:     req.IsToolOperation,
		CredentialOverride:  strings.TrimSpace(req.APIKeyOverride),
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			a.error(w, http.StatusBadRequest, "Prompt and deviceId are required")
			return
		}
		a.Logger.Error().Err(err).Msg("jobs: create failed")
		a.error(w, http.StatusInternalServerError, "Failed to create job")
		return
	}
	a.json(w, http.StatusOK, submitJobResponse{
		JobID:           job.ID,
		DeviceID:        job.DeviceID,
		Status:          job.Status,
		OriginalPrompt:  job.OriginalPrompt,
		EnhancedPrompt:  job.EnhancedPrompt,
		Settings:        job.Settings,
		ProgressMessage: job.ProgressMessage,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	})
}

func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).Str("job_id", jobID).Msg("jobs: fetch failed")
		}
		a.error(w, http.StatusNotFound, "Job not found")
		return
	}
	a.json(w, http.StatusOK, job)
}

// History lists a device's jobs, newest first.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	deviceID := strings.TrimSpace(r.URL.Query().Get("deviceId"))
	if deviceID == "" {
		a.error(w, http.StatusBadRequest, "deviceId is required")
		return
	}
	list, err := a.Jobs.ListByDevice(r.Context(), deviceID, historyLimit)
	if err != nil {
		a.Logger.Error().Err(err).Str("device_id", deviceID).Msg("jobs: history failed")
		a.error(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if list == nil {
		list = []domain.Job{}
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": list})
}
