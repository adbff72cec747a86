package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// createTestPNG encodes a small solid red PNG of the given size.
func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// createTestPNGDataURI creates a small 2x2 red PNG as a data URI.
func createTestPNGDataURI() string {
	encoded := base64.StdEncoding.EncodeToString(createTestPNG(2, 2))
	return "data:image/png;base64," + encoded
}

func bytesFetcher(data []byte) ImageFetcher {
	return func(ctx context.Context, uri string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestLoadImageFromDataURI(t *testing.T) {
	uri := createTestPNGDataURI()
	img, err := LoadImageFromDataURI(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadImageFromDataURI_Invalid(t *testing.T) {
	tests := []string{
		"not-a-data-uri",
		"data:image/png;base64", // no comma
		"data:image/png;base64,!!!invalid-base64!!!",
		"data:image/png;base64,aGVsbG8=", // valid base64 but not an image
	}
	for _, uri := range tests {
		_, err := LoadImageFromDataURI(uri)
		if err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestDecodeDataURI_Malformed(t *testing.T) {
	_, err := decodeDataURI("data:image/png;base64")
	if !errors.Is(err, ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI, got %v", err)
	}
	data, err := decodeDataURI("data:text/plain,hi%20there")
	if err != nil || string(data) != "hi there" {
		t.Errorf("expected percent-decoded payload, got %q %v", data, err)
	}
}

func TestLoadImage_DataURI(t *testing.T) {
	img, err := LoadImage(context.Background(), createTestPNGDataURI(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Errorf("expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestLoadImage_DataURINeverFetches(t *testing.T) {
	called := false
	fetch := func(ctx context.Context, uri string) (io.ReadCloser, error) {
		called = true
		return nil, errors.New("unexpected fetch")
	}
	if _, err := LoadImage(context.Background(), createTestPNGDataURI(), fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := LoadImage(context.Background(), "data:image/png;base64", fetch)
	if !errors.Is(err, ErrInvalidDataURI) {
		t.Errorf("expected ErrInvalidDataURI, got %v", err)
	}
	if called {
		t.Error("expected data URIs to be decoded without the fetcher")
	}
}

func TestGetImageDimensions_DataURI(t *testing.T) {
	w, h, err := GetImageDimensionsWithFetcher(context.Background(), createTestPNGDataURI(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 2 || h != 2 {
		t.Errorf("expected 2x2, got %dx%d", w, h)
	}
}

func TestGetImageDimensions_Fetcher(t *testing.T) {
	w, h, err := GetImageDimensionsWithFetcher(context.Background(), "https://example.com/a.png", bytesFetcher(createTestPNG(40, 10)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 40 || h != 10 {
		t.Errorf("expected 40x10, got %dx%d", w, h)
	}
}

func TestGetImageDimensions_NoFetcher(t *testing.T) {
	_, _, err := GetImageDimensionsWithFetcher(context.Background(), "https://example.com/a.png", nil)
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestGetImageDimensions_NotAnImage(t *testing.T) {
	_, _, err := GetImageDimensionsWithFetcher(context.Background(), "x", bytesFetcher([]byte("hello")))
	if err == nil {
		t.Error("expected error for non-image bytes")
	}
}

func TestFilesystemFetcher(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cat.png"), createTestPNG(3, 5), 0644); err != nil {
		t.Fatal(err)
	}
	fetch := NewFilesystemFetcher(filepath.Join(dir, "page.html"))

	w, h, err := GetImageDimensionsWithFetcher(context.Background(), "cat.png", fetch)
	if err != nil {
		t.Fatalf("relative path: %v", err)
	}
	if w != 3 || h != 5 {
		t.Errorf("expected 3x5, got %dx%d", w, h)
	}

	if _, _, err := GetImageDimensionsWithFetcher(context.Background(), "file://"+filepath.Join(dir, "cat.png"), fetch); err != nil {
		t.Errorf("file URL: %v", err)
	}

	if _, err := fetch(context.Background(), "https://example.com/cat.png"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme for network URL, got %v", err)
	}
}
