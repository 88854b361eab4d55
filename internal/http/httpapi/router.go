package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"creativestudio/internal/http/handlers"
	"creativestudio/internal/middleware"
)

type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	// RateLimitPerMin applies to job submission and key validation.
	RateLimitPerMin int
	// Metrics is mounted at /metrics when set.
	Metrics stdhttp.Handler
	// StaticDir serves locally stored blobs under /static when set.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	limited := middleware.RateLimit(opts.RateLimitPerMin, time.Minute)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/catalog", app.Catalog)

		r.With(limited).Post("/jobs", app.SubmitJob)
		r.Get("/jobs/{job_id}", app.GetJob)
		r.Get("/history", app.History)

		r.With(limited).Post("/keys/validate", app.ValidateKey)
		r.Post("/prompts/enhance", app.EnhancePrompt)

		r.Post("/assets/upload", app.UploadAsset)
		r.Post("/assets/import", app.ImportAsset)
		r.Post("/export", app.Export)
	})

	if opts.Metrics != nil {
		r.Method(stdhttp.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.StaticDir != "" {
		fs := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(opts.StaticDir)))
		r.Handle("/static/*", fs)
	}
	return r
}
