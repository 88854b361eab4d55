package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
)

const (
	defaultMimeType = "image/png"
	maxImageBytes   = 32 << 20
)

var extPattern = regexp.MustCompile(`(?i)\.([a-z0-9]+)(?:\?|$)`)

var ErrFetchFailed = errors.New("assets: fetch failed")

// Resolver downloads remote images for inlining into provider requests.
type Resolver struct {
	client *http.Client
	logger zerolog.Logger
}

func NewResolver(client *http.Client, logger *infra.Logger) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Resolver{client: client, logger: l}
}

// Fetch downloads url and returns its bytes and Content-Type header.
// Non-2xx responses and bodies over 32 MiB wrap ErrFetchFailed.
func (r *Resolver) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("%w: body exceeds %d bytes", ErrFetchFailed, maxImageBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Resolve returns the image at url as an inline image, or nil when it
// cannot be fetched. The mime type comes from mimeHint, then the response
// header, then the URL extension.
func (r *Resolver) Resolve(ctx context.Context, url, mimeHint string) *domain.InlineImage {
	data, contentType, err := r.Fetch(ctx, url)
	if err != nil {
		r.logger.Warn().Err(err).Str("url", url).Msg("assets: resolve source image failed")
		return nil
	}
	mime := strings.TrimSpace(mimeHint)
	if mime == "" {
		mime = strings.TrimSpace(contentType)
	}
	if mime == "" {
		mime = GuessMimeFromURL(url)
	}
	return &domain.InlineImage{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}

// GuessMimeFromURL maps a jpg, jpeg, png or webp extension to its mime type
// and defaults to image/png.
func GuessMimeFromURL(url string) string {
	m := extPattern.FindStringSubmatch(url)
	if m == nil {
		return defaultMimeType
	}
	switch strings.ToLower(m[1]) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return defaultMimeType
	}
}

// ExtensionForMime is the file extension used when storing generated images.
func ExtensionForMime(mime string) string {
	switch {
	case strings.Contains(mime, "jpeg"):
		return "jpg"
	case strings.Contains(mime, "png"):
		return "png"
	case strings.Contains(mime, "webp"):
		return "webp"
	default:
		return "png"
	}
}
