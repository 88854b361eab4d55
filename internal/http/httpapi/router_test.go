package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"creativestudio/internal/adapter/repo"
	"creativestudio/internal/domain"
	"creativestudio/internal/http/handlers"
)

func newTestRouter(t *testing.T) (http.Handler, *repo.MemoryJobStore) {
	t.Helper()
	store := repo.NewMemoryJobStore()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "generated"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "generated", "job-1.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "studio_test_total", Help: "test"}))

	app := &handlers.App{Jobs: store, Assets: repo.NewMemoryAssetStore(), Logger: zerolog.Nop()}
	return NewRouter(app, Options{
		Logger:          zerolog.Nop(),
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitPerMin: 10,
		Metrics:         handlers.MetricsHandler(reg),
		StaticDir:       dir,
	}), store
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	h, store := newTestRouter(t)
	if err := store.Create(context.Background(), &domain.Job{ID: "job-1", DeviceID: "dev", Status: domain.JobStatusProcessing}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		path string
		code int
		want string
	}{
		{"/v1/healthz", http.StatusOK, `"ok"`},
		{"/v1/jobs/job-1", http.StatusOK, `"jobId":"job-1"`},
		{"/v1/jobs/nope", http.StatusNotFound, `Job not found`},
		{"/v1/history?deviceId=dev", http.StatusOK, `"jobs":[`},
		{"/v1/catalog", http.StatusOK, `"exportPresets"`},
		{"/metrics", http.StatusOK, "studio_test_total"},
		{"/static/generated/job-1.png", http.StatusOK, "png"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := get(h, tc.path)
			if rec.Code != tc.code || !strings.Contains(rec.Body.String(), tc.want) {
				t.Fatalf("GET %s = %d %s", tc.path, rec.Code, rec.Body.String())
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatal("missing request id header")
			}
		})
	}
}

func TestSubmitIsRateLimited(t *testing.T) {
	h, _ := newTestRouter(t)
	var last int
	for i := 0; i < 11; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/keys/validate", strings.NewReader(`{"apiKey":""}`))
		req.RemoteAddr = "203.0.113.9:1000"
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("11th request = %d, want 429", last)
	}
}
