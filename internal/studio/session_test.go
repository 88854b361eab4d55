package studio

import (
	"context"
	"errors"
	"testing"

	"creativestudio/internal/domain"
	"creativestudio/internal/poller"
)

type fakeAPI struct {
	enhanced   string
	enhanceErr error
	enhances   []string
	submits    []SubmitInput
}

func (f *fakeAPI) Submit(ctx context.Context, in SubmitInput) (*domain.Job, error) {
	f.submits = append(f.submits, in)
	return &domain.Job{ID: "job-" + string(rune('a'+len(f.submits)-1)), Status: domain.JobStatusProcessing}, nil
}

func (f *fakeAPI) Enhance(ctx context.Context, prompt string, style domain.Style) (string, error) {
	f.enhances = append(f.enhances, prompt)
	return f.enhanced, f.enhanceErr
}

// doneTracker reports a finished job carrying history and a signature.
type doneTracker struct{ tracked []string }

func (d *doneTracker) Track(ctx context.Context, jobID string, onUpdate func(*domain.Job)) (poller.Outcome, error) {
	d.tracked = append(d.tracked, jobID)
	sig := "sig-" + jobID
	job := &domain.Job{
		ID:               jobID,
		Status:           domain.JobStatusDone,
		OriginalPrompt:   "a cat",
		ThoughtSignature: &sig,
		ConversationHistory: []domain.ConversationTurn{
			{Role: domain.RoleUser, Content: "a cat"},
		},
	}
	onUpdate(job)
	return poller.Outcome{Job: job, Success: true, Message: poller.MessageSuccess}, nil
}

func newTestSession(t *testing.T, api *fakeAPI) (*Session, *doneTracker) {
	t.Helper()
	tracker := &doneTracker{}
	s, err := NewSession(SessionOptions{API: api, Tracker: tracker, DeviceID: "device-1"})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, tracker
}

func TestGenerateEnhancesCreativePrompts(t *testing.T) {
	api := &fakeAPI{enhanced: "a detailed cat"}
	s, _ := newTestSession(t, api)

	out, err := s.Generate(context.Background(), GenerateInput{Prompt: "a cat"})
	if err != nil || !out.Success {
		t.Fatalf("Generate = %+v, %v", out, err)
	}
	if len(api.enhances) != 1 {
		t.Fatalf("enhance calls = %d, want 1", len(api.enhances))
	}
	got := api.submits[0]
	if got.Prompt != "a detailed cat" || got.OriginalPrompt != "a cat" || got.DeviceID != "device-1" {
		t.Fatalf("submitted %+v", got)
	}
	if s.Current() == nil || s.Current().Status != domain.JobStatusDone {
		t.Fatalf("current = %+v", s.Current())
	}
}

func TestGenerateSkipsEnhancement(t *testing.T) {
	cases := []struct {
		name string
		in   GenerateInput
	}{
		{"tool operation", GenerateInput{Prompt: "Remove the background", IsToolOperation: true}},
		{"source asset", GenerateInput{Prompt: "make it blue", AssetID: "asset-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{enhanced: "should not be used"}
			s, _ := newTestSession(t, api)
			if _, err := s.Generate(context.Background(), tc.in); err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(api.enhances) != 0 {
				t.Fatalf("enhance called %d times", len(api.enhances))
			}
			if api.submits[0].Prompt != tc.in.Prompt {
				t.Fatalf("prompt = %q", api.submits[0].Prompt)
			}
		})
	}
}

func TestGenerateFallsBackWhenEnhancementFails(t *testing.T) {
	api := &fakeAPI{enhanceErr: errors.New("500")}
	s, _ := newTestSession(t, api)
	if _, err := s.Generate(context.Background(), GenerateInput{Prompt: "a cat"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if api.submits[0].Prompt != "a cat" {
		t.Fatalf("prompt = %q, want original", api.submits[0].Prompt)
	}
}

func TestGenerateCarriesConversationContext(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newTestSession(t, api)
	ctx := context.Background()

	if _, err := s.Generate(ctx, GenerateInput{Prompt: "a cat"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Generate(ctx, GenerateInput{Prompt: "now red", AssetID: "asset-1"}); err != nil {
		t.Fatal(err)
	}
	second := api.submits[1]
	if second.ThoughtSignature != "sig-job-a" {
		t.Fatalf("signature = %q", second.ThoughtSignature)
	}
	if len(second.ConversationHistory) != 1 || second.ConversationHistory[0].Content != "a cat" {
		t.Fatalf("history = %+v", second.ConversationHistory)
	}
}

func TestGenerateHDAndRetry(t *testing.T) {
	api := &fakeAPI{}
	s, tracker := newTestSession(t, api)
	ctx := context.Background()

	if _, err := s.Retry(ctx); !errors.Is(err, ErrNothingToRepeat) {
		t.Fatalf("Retry before generate = %v", err)
	}

	base := GenerateInput{
		Prompt:   "a cat",
		Settings: domain.GenerationSettings{AspectRatio: domain.Aspect16x9, ImageSize: domain.ImageSize2K},
		AssetID:  "asset-1",
	}
	if _, err := s.Generate(ctx, base); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GenerateHD(ctx); err != nil {
		t.Fatal(err)
	}
	hd := api.submits[1]
	if !hd.IsHD || hd.Settings.ImageSize != domain.ImageSize4K || hd.AssetID != "asset-1" || hd.Settings.AspectRatio != domain.Aspect16x9 {
		t.Fatalf("hd submission = %+v settings %+v", hd, hd.Settings)
	}

	if _, err := s.Retry(ctx); err != nil {
		t.Fatal(err)
	}
	retry := api.submits[2]
	if retry.IsHD || retry.Settings.ImageSize != domain.ImageSize1K {
		t.Fatalf("retry submission = %+v settings %+v", retry, retry.Settings)
	}
	if len(tracker.tracked) != 3 {
		t.Fatalf("tracked = %v", tracker.tracked)
	}
}

func TestGenerateHDUsesSelectedJob(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newTestSession(t, api)
	asset := "asset-9"
	s.Select(&domain.Job{ID: "old", OriginalPrompt: "a dog", AssetID: &asset})

	if _, err := s.GenerateHD(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := api.submits[0]
	if got.Prompt != "a dog" || got.AssetID != "asset-9" || !got.IsHD {
		t.Fatalf("submitted %+v", got)
	}
}

func TestUndoRedoMovesThroughFinishedJobs(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newTestSession(t, api)
	ctx := context.Background()

	if s.CanUndo() || s.CanRedo() {
		t.Fatal("fresh session should have nothing to undo or redo")
	}
	if _, ok := s.Undo(); ok {
		t.Fatal("Undo on empty session succeeded")
	}

	for _, prompt := range []string{"first", "second"} {
		if _, err := s.Generate(ctx, GenerateInput{Prompt: prompt, IsToolOperation: true}); err != nil {
			t.Fatalf("Generate(%q): %v", prompt, err)
		}
	}
	if !s.CanUndo() || s.CanRedo() {
		t.Fatalf("after two jobs: CanUndo = %v, CanRedo = %v", s.CanUndo(), s.CanRedo())
	}

	job, ok := s.Undo()
	if !ok || job.ID != "job-a" || s.Current().ID != "job-a" {
		t.Fatalf("Undo = %+v, %v", job, ok)
	}
	if s.CanUndo() || !s.CanRedo() {
		t.Fatalf("after undo: CanUndo = %v, CanRedo = %v", s.CanUndo(), s.CanRedo())
	}
	if job, ok := s.Redo(); !ok || job.ID != "job-b" {
		t.Fatalf("Redo = %+v, %v", job, ok)
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("Redo past the newest job succeeded")
	}
}

func TestGenerateAfterUndoContinuesEarlierJob(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newTestSession(t, api)
	ctx := context.Background()

	for _, prompt := range []string{"first", "second"} {
		if _, err := s.Generate(ctx, GenerateInput{Prompt: prompt, IsToolOperation: true}); err != nil {
			t.Fatalf("Generate(%q): %v", prompt, err)
		}
	}
	s.Undo()

	if _, err := s.Generate(ctx, GenerateInput{Prompt: "third", IsToolOperation: true}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	third := api.submits[2]
	if third.ThoughtSignature != "sig-job-a" || len(third.ConversationHistory) != 1 {
		t.Fatalf("submission after undo = %+v", third)
	}

	// The undone job is gone from the forward history.
	if s.CanRedo() {
		t.Fatal("new job should truncate redo history")
	}
	if job, ok := s.Undo(); !ok || job.ID != "job-a" {
		t.Fatalf("Undo = %+v, %v; want job-a", job, ok)
	}
}
