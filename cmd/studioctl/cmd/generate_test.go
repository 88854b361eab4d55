package cmd

import (
	"bytes"
	"strings"
	"testing"

	"creativestudio/internal/domain"
	"creativestudio/internal/poller"
)

func TestGenerateFlagsSettings(t *testing.T) {
	g := generateFlags{style: "anime", aspect: "16:9", size: "2K", search: true}
	s := g.settings()
	if s.Style != domain.StyleAnime || s.AspectRatio != domain.Aspect16x9 || s.ImageSize != domain.ImageSize2K || !s.UseGoogleSearch {
		t.Fatalf("settings = %+v", s)
	}
	if s.EditTools != nil {
		t.Fatalf("edit tools set without tool flags: %+v", s.EditTools)
	}

	g = generateFlags{background: "replace", bgPrompt: "a beach", colorTarget: "red", colorReplace: "blue"}
	s = g.settings()
	if s.EditTools == nil || s.EditTools.BackgroundMode != domain.BackgroundReplace || s.EditTools.ColorSwap.ReplaceColor != "blue" {
		t.Fatalf("edit tools = %+v", s.EditTools)
	}
}

func TestProgressPrinterDeduplicates(t *testing.T) {
	var buf bytes.Buffer
	printer := progressPrinter(&buf)
	msg := domain.ProgressGenerating
	job := &domain.Job{ID: "job-1", ProgressMessage: &msg}
	printer(job)
	printer(job)
	printer(&domain.Job{ID: "job-1"})
	if got := strings.Count(buf.String(), domain.ProgressGenerating); got != 1 {
		t.Fatalf("printed %d times: %q", got, buf.String())
	}
}

func TestReportIncludesResult(t *testing.T) {
	var buf bytes.Buffer
	url := "https://cdn.example.com/generated/job-1.png"
	if err := report(&buf, poller.Outcome{Success: true, Message: poller.MessageSuccess, Job: &domain.Job{FinalURL: &url}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), poller.MessageSuccess) || !strings.Contains(buf.String(), url) {
		t.Fatalf("report = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a very long prompt", 6); got != "a ver…" {
		t.Fatalf("truncate = %q", got)
	}
}
