package domain

import (
	"fmt"
	"time"
)

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Progress messages surfaced to clients while a job is processing.
const (
	ProgressAnalyzing     = "Analyzing your prompt..."
	ProgressEnhancing     = "Enhancing details..."
	ProgressLoadingSource = "Loading source image..."
	ProgressGenerating    = "Generating pixels..."
	ProgressFinishing     = "Adding finishing touches..."
	ProgressFallback      = "Custom API key failed, retrying with the shared key..."
	ProgressComplete      = "Complete!"
)

// Error messages persisted on failed jobs.
const (
	ErrMsgGenerationFailed = "Failed to generate image"
	ErrMsgTimedOut         = "Generation timed out"
)

var validTransitions = map[JobStatus][]JobStatus{
	JobStatusQueued:     {JobStatusProcessing, JobStatusFailed},
	JobStatusProcessing: {JobStatusDone, JobStatusFailed},
	JobStatusDone:       {},
	JobStatusFailed:     {},
}

// IsTerminal reports whether no further transitions are allowed.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

// ValidateTransition checks that a job may move from one status to another.
func ValidateTransition(from, to JobStatus) error {
	allowed, ok := validTransitions[from]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Job is one generation/edit request and its lifecycle record. The JSON
// form is the projection returned by the status and history endpoints.
type Job struct {
	ID                  string             `json:"jobId"`
	DeviceID            string             `json:"deviceId"`
	Status              JobStatus          `json:"status"`
	OriginalPrompt      string             `json:"originalPrompt"`
	EnhancedPrompt      string             `json:"enhancedPrompt,omitempty"`
	PreviewURL          *string            `json:"previewUrl"`
	FinalURL            *string            `json:"finalUrl"`
	AssetID             *string            `json:"assetId"`
	Settings            GenerationSettings `json:"settings"`
	ThoughtSignature    *string            `json:"thoughtSignature"`
	ConversationHistory []ConversationTurn `json:"conversationHistory"`
	ProgressMessage     *string            `json:"progressMessage"`
	Error               *string            `json:"error"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// JobResult is the full-field terminal write applied by the orchestrator.
type JobResult struct {
	Status              JobStatus
	ImageURL            *string
	ThoughtSignature    *string
	ProgressMessage     *string
	Error               *string
	ConversationHistory []ConversationTurn
	UpdatedAt           time.Time
}

// Apply copies the result onto the job record.
func (r JobResult) Apply(job *Job) {
	job.Status = r.Status
	job.PreviewURL = r.ImageURL
	job.FinalURL = r.ImageURL
	job.ThoughtSignature = r.ThoughtSignature
	job.ProgressMessage = r.ProgressMessage
	job.Error = r.Error
	job.ConversationHistory = append([]ConversationTurn(nil), r.ConversationHistory...)
	job.UpdatedAt = r.UpdatedAt
}

// StringPtr returns nil for empty strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
