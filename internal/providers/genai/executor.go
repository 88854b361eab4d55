package genai

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"creativestudio/internal/infra"
)

type ExecutorOptions struct {
	// Shared is built once at startup from the service key.
	Shared Generator
	// NewGenerator builds a per-call generator for an override key.
	NewGenerator GeneratorFactory
	Logger       *infra.Logger
	// OnFallback runs every time an override call fails and the shared
	// generator is tried instead.
	OnFallback func(err error)
	// Timeout bounds each attempt separately. Zero disables it.
	Timeout time.Duration
}

// Executor runs generation requests, preferring a caller-supplied key and
// retrying once with the shared key when that fails.
type Executor struct {
	shared       Generator
	newGenerator GeneratorFactory
	logger       zerolog.Logger
	onFallback   func(err error)
	timeout      time.Duration
}

func NewExecutor(opts ExecutorOptions) *Executor {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Executor{
		shared:       opts.Shared,
		newGenerator: opts.NewGenerator,
		logger:       logger,
		onFallback:   opts.OnFallback,
		timeout:      opts.Timeout,
	}
}

// Execute sends req once with the shared generator, or with an override
// generator first when override is non-blank. notify is called once before
// falling back. Failures are returned as *ProviderError.
func (e *Executor) Execute(ctx context.Context, req Request, override string, notify func(error)) (*Response, error) {
	if override = strings.TrimSpace(override); override != "" {
		resp, err := e.generateWithOverride(ctx, req, override)
		if err == nil {
			return resp, nil
		}
		e.logger.Warn().
			Err(err).
			Str("model", req.Model).
			Msg("genai: override credential failed; retrying with shared credential")
		if e.onFallback != nil {
			e.onFallback(err)
		}
		if notify != nil {
			notify(err)
		}
	}

	if e.shared == nil {
		return nil, &ProviderError{Message: ErrNotConfigured.Error(), Credential: CredentialShared, Err: ErrNotConfigured}
	}
	callCtx, cancel := e.attemptContext(ctx)
	defer cancel()
	resp, err := e.shared.Generate(callCtx, req)
	if err != nil {
		return nil, newProviderError(CredentialShared, err)
	}
	return resp, nil
}

// attemptContext derives the deadline for one attempt from the caller's
// context, so a hung override cannot use up the fallback's time.
func (e *Executor) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Executor) generateWithOverride(ctx context.Context, req Request, apiKey string) (*Response, error) {
	if e.newGenerator == nil {
		return nil, newProviderError(CredentialOverride, ErrNotConfigured)
	}
	gen, err := e.newGenerator(ctx, apiKey)
	if err != nil {
		return nil, newProviderError(CredentialOverride, err)
	}
	callCtx, cancel := e.attemptContext(ctx)
	defer cancel()
	resp, err := gen.Generate(callCtx, req)
	if err != nil {
		return nil, newProviderError(CredentialOverride, err)
	}
	return resp, nil
}

// Validate checks a candidate key with a minimal-cost call.
func Validate(ctx context.Context, factory GeneratorFactory, apiKey string) error {
	gen, err := factory(ctx, apiKey)
	if err != nil {
		return newProviderError(CredentialOverride, err)
	}
	if _, err := gen.Generate(ctx, PingRequest()); err != nil {
		return newProviderError(CredentialOverride, err)
	}
	return nil
}
