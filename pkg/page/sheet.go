package page

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"htmlimage/pkg/css"
	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/images"
	"htmlimage/pkg/render"
)

// SheetOptions configures a contact sheet.
type SheetOptions struct {
	// Width is the sheet width; percentage widths resolve against it less
	// the margins.
	Width int
	// ViewportHeight is what percentage heights resolve against.
	ViewportHeight int
	Margin         float64
	Gap            float64
}

// DefaultSheetOptions returns an 800px wide sheet.
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{Width: 800, ViewportHeight: 600, Margin: 10, Gap: 10}
}

// Sheet paints resolved images one per row, top to bottom. Each row is
// painted on its own before layout, so an image that falls back to its
// placeholder while drawing takes the placeholder's height.
func Sheet(ctx context.Context, imgs []*htmlimage.Image, fetch images.ImageFetcher, opts SheetOptions) (*render.Canvas, error) {
	if opts.Width <= 0 {
		return nil, fmt.Errorf("sheet width must be positive, got %d", opts.Width)
	}
	innerW := float64(opts.Width) - 2*opts.Margin
	innerH := float64(opts.ViewportHeight)

	rows := make([]image.Image, len(imgs))
	heights := make([]float64, len(imgs))
	total := 2 * opts.Margin
	for i, img := range imgs {
		row, err := paintRow(ctx, img, fetch, opts.Width, opts.Margin, innerW, innerH)
		if err != nil {
			return nil, err
		}
		rows[i] = row
		heights[i] = rowHeight(img.Size(), innerH)
		total += heights[i]
		if i > 0 {
			total += opts.Gap
		}
	}

	c := render.NewCanvas(ctx, opts.Width, int(math.Ceil(total)), fetch)
	y := opts.Margin
	for i, row := range rows {
		if row != nil {
			c.Paste(crop(row, int(math.Ceil(heights[i]))), 0, int(math.Round(y)))
		}
		y += heights[i] + opts.Gap
	}
	return c, nil
}

// paintRow draws img on a canvas tall enough for either its resolved size
// or the placeholder. It returns nil for an image that draws nothing.
func paintRow(ctx context.Context, img *htmlimage.Image, fetch images.ImageFetcher, width int, margin, innerW, innerH float64) (image.Image, error) {
	size := img.Size()
	if size.Status == htmlimage.Pending {
		return nil, nil
	}
	h := math.Max(rowHeight(size, innerH), htmlimage.PlaceholderDimensions.Height)
	c := render.NewCanvas(ctx, width, int(math.Ceil(h)), fetch)
	c.SetContainer(innerW, innerH)
	c.MoveTo(margin, 0)
	if err := img.Render(c); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", img.Request().URI, err)
	}
	return c.Image(), nil
}

func crop(img image.Image, height int) image.Image {
	b := img.Bounds()
	if height >= b.Dy() {
		return img
	}
	if s, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return s.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+height))
	}
	return img
}

func rowHeight(size htmlimage.Size, containerH float64) float64 {
	switch size.Status {
	case htmlimage.Pending:
		return 0
	case htmlimage.Failed:
		return htmlimage.PlaceholderDimensions.Height
	}
	h := size.Height.Pixels
	if size.Height.IsPercent() {
		pct, ok := css.ParseLength(strings.TrimSuffix(strings.TrimSpace(size.Height.Percent), "%"))
		if !ok {
			return htmlimage.PlaceholderDimensions.Height
		}
		h = containerH * pct / 100
	}
	return h
}
