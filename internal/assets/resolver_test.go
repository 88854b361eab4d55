package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func stubResolver(status int, contentType, body string) *Resolver {
	return NewResolver(&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		header := http.Header{}
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		return &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	})}, nil)
}

func TestResolveMimePrecedence(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		hint        string
		contentType string
		want        string
	}{
		{name: "hint wins", url: "https://x/a.png", hint: "image/webp", contentType: "image/jpeg", want: "image/webp"},
		{name: "header next", url: "https://x/a.png", contentType: "image/jpeg", want: "image/jpeg"},
		{name: "extension last", url: "https://x/a.JPEG?size=large", want: "image/jpeg"},
		{name: "unknown extension", url: "https://x/a.gif", want: "image/png"},
		{name: "no extension", url: "https://x/image", want: "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := stubResolver(http.StatusOK, tt.contentType, "bytes").Resolve(context.Background(), tt.url, tt.hint)
			if img == nil {
				t.Fatal("Resolve returned nil")
			}
			if img.MimeType != tt.want {
				t.Fatalf("MimeType = %q, want %q", img.MimeType, tt.want)
			}
			if img.Data != base64.StdEncoding.EncodeToString([]byte("bytes")) {
				t.Fatalf("Data = %q", img.Data)
			}
		})
	}
}

func TestResolveReturnsNilOnFailure(t *testing.T) {
	if img := stubResolver(http.StatusNotFound, "", "").Resolve(context.Background(), "https://x/a.png", ""); img != nil {
		t.Fatalf("Resolve = %+v, want nil for 404", img)
	}

	failing := NewResolver(&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: refused")
	})}, nil)
	if img := failing.Resolve(context.Background(), "https://x/a.png", ""); img != nil {
		t.Fatalf("Resolve = %+v, want nil for transport error", img)
	}
}

func TestFetchWrapsStatus(t *testing.T) {
	_, _, err := stubResolver(http.StatusBadGateway, "", "").Fetch(context.Background(), "https://x/a.png")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	sized := func(n int) *Resolver {
		return NewResolver(&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{},
				Body:       io.NopCloser(bytes.NewReader(make([]byte, n))),
				Request:    r,
			}, nil
		})}, nil)
	}

	data, _, err := sized(maxImageBytes).Fetch(context.Background(), "https://x/a.png")
	if err != nil || len(data) != maxImageBytes {
		t.Fatalf("len = %d, err = %v; want full body at the limit", len(data), err)
	}

	_, _, err = sized(maxImageBytes+1).Fetch(context.Background(), "https://x/a.png")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
	if img := sized(maxImageBytes+1).Resolve(context.Background(), "https://x/a.png", ""); img != nil {
		t.Fatal("oversized source should resolve to nil")
	}
}

func TestExtensionForMime(t *testing.T) {
	cases := map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"image/gif":  "png",
		"":           "png",
	}
	for mime, want := range cases {
		if got := ExtensionForMime(mime); got != want {
			t.Errorf("ExtensionForMime(%q) = %q, want %q", mime, got, want)
		}
	}
}
