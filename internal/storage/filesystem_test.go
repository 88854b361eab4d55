package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorePutReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/static/")
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	url, err := store.Put(context.Background(), "/generated/job-1.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if url != "http://localhost:8080/static/generated/job-1.png" {
		t.Fatalf("url = %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "generated", "job-1.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png" {
		t.Fatalf("stored data = %q", data)
	}

	// Upserts replace the previous content.
	if _, err := store.Put(context.Background(), "generated/job-1.png", []byte("new"), "image/png"); err != nil {
		t.Fatalf("second Put returned error: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(dir, "generated", "job-1.png"))
	if string(data) != "new" {
		t.Fatalf("stored data after upsert = %q", data)
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "  ", "../etc/passwd", "a/../../b", "."} {
		if _, err := sanitizeKey(key); err == nil {
			t.Errorf("sanitizeKey(%q) expected error", key)
		}
	}
	got, err := sanitizeKey(`assets\abc.png`)
	if err != nil || got != "assets/abc.png" {
		t.Fatalf("sanitizeKey = %q, %v", got, err)
	}
}

func TestFileStoreCanceledContext(t *testing.T) {
	store, _ := NewFileStore(t.TempDir(), "http://x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "a.png", nil, "image/png"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
