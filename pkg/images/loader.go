package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrInvalidDataURI is returned for malformed data: URIs.
	ErrInvalidDataURI = errors.New("invalid data URI")
	// ErrUnsupportedScheme is returned when no fetcher can serve a URI.
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")
)

// ImageFetcher opens the bytes of the image at uri. The caller closes the
// returned reader.
type ImageFetcher func(ctx context.Context, uri string) (io.ReadCloser, error)

// IsDataURI reports whether uri is an inline data: URI.
func IsDataURI(uri string) bool {
	return strings.HasPrefix(uri, "data:")
}

// decodeDataURI returns the payload of a data: URI.
func decodeDataURI(uri string) ([]byte, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	comma := strings.IndexByte(uri, ',')
	if comma == -1 {
		return nil, fmt.Errorf("%w: no comma", ErrInvalidDataURI)
	}
	meta, payload := uri[len("data:"):comma], uri[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return []byte(data), nil
}

// LoadImageFromDataURI decodes the image embedded in a data: URI.
func LoadImageFromDataURI(uri string) (image.Image, error) {
	data, err := decodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return img, nil
}

// open returns a reader for uri, serving data: URIs inline.
func open(ctx context.Context, uri string, fetcher ImageFetcher) (io.ReadCloser, error) {
	if IsDataURI(uri) {
		data, err := decodeDataURI(uri)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher for %s", ErrUnsupportedScheme, uri)
	}
	return fetcher(ctx, uri)
}

// DecodeSize reads only as much of r as needed to learn the image size.
func DecodeSize(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// GetImageDimensionsWithFetcher returns the natural width and height of
// the image at uri without decoding its pixels.
func GetImageDimensionsWithFetcher(ctx context.Context, uri string, fetcher ImageFetcher) (width, height int, err error) {
	rc, err := open(ctx, uri, fetcher)
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()

	width, height, err = DecodeSize(rc)
	if err != nil {
		return 0, 0, fmt.Errorf("reading size of %s: %w", uri, err)
	}
	return width, height, nil
}

// LoadImage decodes the full image at uri.
func LoadImage(ctx context.Context, uri string, fetcher ImageFetcher) (image.Image, error) {
	if IsDataURI(uri) {
		return LoadImageFromDataURI(uri)
	}
	rc, err := open(ctx, uri, fetcher)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", uri, err)
	}
	return img, nil
}

// NewFilesystemFetcher creates an ImageFetcher that reads local files,
// resolving relative paths against the directory of documentPath.
// file: URLs are accepted; network URLs are not.
func NewFilesystemFetcher(documentPath string) ImageFetcher {
	baseDir := filepath.Dir(documentPath)
	return func(ctx context.Context, uri string) (io.ReadCloser, error) {
		if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri)
		}
		path := uri
		if strings.HasPrefix(uri, "file://") {
			u, err := url.Parse(uri)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", uri, err)
			}
			path = u.Path
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return os.Open(path)
	}
}
