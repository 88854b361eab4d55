package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		ok       bool
	}{
		{JobStatusQueued, JobStatusProcessing, true},
		{JobStatusProcessing, JobStatusDone, true},
		{JobStatusProcessing, JobStatusFailed, true},
		{JobStatusDone, JobStatusFailed, false},
		{JobStatusFailed, JobStatusDone, false},
		{JobStatusDone, JobStatusProcessing, false},
		{JobStatus("bogus"), JobStatusDone, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if tt.ok && err != nil {
				t.Fatalf("ValidateTransition returned error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestJobResultApplySetsBothURLs(t *testing.T) {
	url := "https://cdn.example.com/generated/job-1.png"
	job := &Job{ID: "job-1", Status: JobStatusProcessing, Error: StringPtr("old")}
	history := []ConversationTurn{{Role: RoleUser, Content: "a cat"}}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	JobResult{
		Status:              JobStatusDone,
		ImageURL:            &url,
		ProgressMessage:     StringPtr(ProgressComplete),
		ConversationHistory: history,
		UpdatedAt:           now,
	}.Apply(job)

	if Deref(job.PreviewURL) != url || Deref(job.FinalURL) != url {
		t.Fatalf("urls = %q/%q, want %q", Deref(job.PreviewURL), Deref(job.FinalURL), url)
	}
	if job.Error != nil {
		t.Fatalf("error = %q, want nil", *job.Error)
	}
	history[0].Content = "mutated"
	if job.ConversationHistory[0].Content != "a cat" {
		t.Fatal("Apply must copy the history slice")
	}
	if !job.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v, want %v", job.UpdatedAt, now)
	}
}

func TestAppendTurnLeavesPriorSnapshot(t *testing.T) {
	prior := make([]ConversationTurn, 1, 4)
	prior[0] = ConversationTurn{Role: RoleUser, Content: "first"}

	a := AppendTurn(prior, ConversationTurn{Role: RoleModel, Content: "second"})
	b := AppendTurn(prior, ConversationTurn{Role: RoleUser, Content: "other"})

	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("len = %d/%d, want 2/2", len(a), len(b))
	}
	if a[1].Content != "second" {
		t.Fatalf("a[1] = %q, want %q", a[1].Content, "second")
	}
	if len(prior) != 1 || prior[0].Content != "first" {
		t.Fatalf("prior mutated: %#v", prior)
	}
}
