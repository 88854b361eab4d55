package jobs

import (
	"context"

	"creativestudio/internal/domain"
)

// Task carries everything the background phase needs for one job.
// CredentialOverride is never serialized; tasks that carry one run in
// process only.
type Task struct {
	JobID              string                    `json:"jobId"`
	Prompt             string                    `json:"prompt"`
	AssetID            string                    `json:"assetId,omitempty"`
	Settings           domain.GenerationSettings `json:"settings"`
	History            []domain.ConversationTurn `json:"conversationHistory"`
	ThoughtSignature   string                    `json:"thoughtSignature,omitempty"`
	IsHD               bool                      `json:"isHD,omitempty"`
	CredentialOverride string                    `json:"-"`
}

// Dispatcher hands tasks to an out-of-process worker.
type Dispatcher interface {
	Dispatch(ctx context.Context, task Task) error
}

// SubmitRequest is the validated input of Submit.
type SubmitRequest struct {
	Prompt              string
	OriginalPrompt      string
	AssetID             string
	Settings            *domain.GenerationSettings
	DeviceID            string
	ConversationHistory []domain.ConversationTurn
	ThoughtSignature    string
	IsHD                bool
	IsToolOperation     bool
	CredentialOverride  string
}
