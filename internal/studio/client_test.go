package studio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"creativestudio/internal/domain"
)

func TestClientSubmitAndFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/jobs":
			var in SubmitInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Errorf("decode: %v", err)
			}
			if in.DeviceID != "device-1" || in.APIKeyOverride != "user-key" {
				t.Errorf("body = %+v", in)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"jobId": "job-1", "status": "processing"})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/jobs/job-1":
			_ = json.NewEncoder(w).Encode(map[string]any{"jobId": "job-1", "status": "done", "finalUrl": "https://cdn/x.png"})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Job not found"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	job, err := c.Submit(context.Background(), SubmitInput{Prompt: "a cat", DeviceID: "device-1", APIKeyOverride: "user-key"})
	if err != nil || job.ID != "job-1" {
		t.Fatalf("Submit = %+v, %v", job, err)
	}
	job, err = c.FetchJob(context.Background(), "job-1")
	if err != nil || job.Status != domain.JobStatusDone || domain.Deref(job.FinalURL) != "https://cdn/x.png" {
		t.Fatalf("FetchJob = %+v, %v", job, err)
	}

	_, err = c.FetchJob(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if apiErr, ok := err.(*APIError); !ok || apiErr.Message != "Job not found" {
		t.Fatalf("err = %#v", err)
	}
}

func TestClientEnhanceAndHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/prompts/enhance":
			var body enhanceBody
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(enhanceResult{EnhancedPrompt: body.Prompt + ", detailed", OriginalPrompt: body.Prompt})
		case "/v1/history":
			if r.URL.Query().Get("deviceId") != "device 1" {
				t.Errorf("deviceId = %q", r.URL.Query().Get("deviceId"))
			}
			_, _ = w.Write([]byte(`{"jobs":[{"jobId":"b"},{"jobId":"a"}]}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	got, err := c.Enhance(context.Background(), "a cat", domain.StyleAnime)
	if err != nil || got != "a cat, detailed" {
		t.Fatalf("Enhance = %q, %v", got, err)
	}
	jobs, err := c.History(context.Background(), "device 1")
	if err != nil || len(jobs) != 2 || jobs[0].ID != "b" {
		t.Fatalf("History = %+v, %v", jobs, err)
	}
}
