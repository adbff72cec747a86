package resource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"htmlimage/pkg/images"
	stdnet "htmlimage/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches resources over HTTP/HTTPS or from the local
// filesystem, resolving relative URIs against a base.
type DefaultFetcher struct {
	baseURL string
	client  *stdnet.Client
}

// NewFetcher creates a DefaultFetcher with the given base. The base is
// either an http(s) URL or a local file or directory path; relative URIs
// passed to Fetch are resolved against it.
func NewFetcher(baseURL string) *DefaultFetcher {
	return NewFetcherWithClient(baseURL, stdnet.NewClient(30*time.Second, ""))
}

// NewFetcherWithClient is NewFetcher with a caller-supplied HTTP client.
func NewFetcherWithClient(baseURL string, client *stdnet.Client) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL, client: client}
}

// Resolve returns the absolute form of uri.
func (f *DefaultFetcher) Resolve(uri string) string {
	if images.IsDataURI(uri) || stdnet.IsNetworkURL(uri) || f.baseURL == "" {
		return uri
	}
	if stdnet.IsNetworkURL(f.baseURL) {
		return stdnet.ResolveURL(f.baseURL, uri)
	}
	if strings.HasPrefix(uri, "file://") || filepath.IsAbs(uri) {
		return uri
	}
	base := f.baseURL
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		base = filepath.Dir(base)
	}
	return filepath.Join(base, uri)
}

// Open streams the resource at uri.
func (f *DefaultFetcher) Open(ctx context.Context, uri string) (io.ReadCloser, string, error) {
	resolved := f.Resolve(uri)
	if stdnet.IsNetworkURL(resolved) {
		return f.client.Open(ctx, resolved)
	}
	if images.IsDataURI(resolved) {
		return nil, "", fmt.Errorf("%w: data URIs are decoded by the image loader", images.ErrUnsupportedScheme)
	}
	path := strings.TrimPrefix(resolved, "file://")
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return file, "", nil
}

// Fetch retrieves the resource at the given URI.
// Relative URIs are resolved against the fetcher's base.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	if resolved := f.Resolve(uri); stdnet.IsNetworkURL(resolved) {
		return f.client.Fetch(ctx, resolved)
	}
	rc, contentType, err := f.Open(ctx, uri)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", uri, err)
	}
	return body, contentType, nil
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func (f *DefaultFetcher) FetchCSS(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

// ImageFetcher adapts any Fetcher to the image loader. A DefaultFetcher
// streams; other fetchers are read fully first.
func ImageFetcher(f Fetcher) images.ImageFetcher {
	if df, ok := f.(*DefaultFetcher); ok {
		return func(ctx context.Context, uri string) (io.ReadCloser, error) {
			rc, _, err := df.Open(ctx, uri)
			return rc, err
		}
	}
	return func(ctx context.Context, uri string) (io.ReadCloser, error) {
		body, _, err := f.Fetch(ctx, uri)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}
