package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"

	"htmlimage/pkg/css"
	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/images"
)

// placeholderFontSize is the alt text size in the failure placeholder.
const placeholderFontSize = 10

var (
	italicOnce sync.Once
	italicFont *truetype.Font
	italicErr  error
)

func italicFace(size float64) (font.Face, error) {
	italicOnce.Do(func() {
		italicFont, italicErr = truetype.Parse(goitalic.TTF)
	})
	if italicErr != nil {
		return nil, italicErr
	}
	return truetype.NewFace(italicFont, &truetype.Options{Size: size}), nil
}

// Canvas paints images onto a gg context. It implements htmlimage.Painter.
// Each draw lands at the current origin set by MoveTo; percentage sizes
// resolve against the container set by SetContainer.
type Canvas struct {
	context    *gg.Context
	fetch      images.ImageFetcher
	ctx        context.Context
	x, y       float64
	containerW float64
	containerH float64
}

// NewCanvas creates a white canvas of the given size. fetch loads image
// bytes for DrawImage.
func NewCanvas(ctx context.Context, width, height int, fetch images.ImageFetcher) *Canvas {
	c := &Canvas{
		context:    gg.NewContext(width, height),
		fetch:      fetch,
		ctx:        ctx,
		containerW: float64(width),
		containerH: float64(height),
	}
	c.context.SetRGB(1, 1, 1)
	c.context.Clear()
	return c
}

// MoveTo sets the top-left corner of the next draw.
func (c *Canvas) MoveTo(x, y float64) {
	c.x, c.y = x, y
}

// SetContainer sets the box percentage sizes are relative to.
func (c *Canvas) SetContainer(width, height float64) {
	c.containerW, c.containerH = width, height
}

// Pixels converts a dimension to pixels within the current container.
func (c *Canvas) Pixels(d htmlimage.Dimension, horizontal bool) (float64, error) {
	if !d.IsPercent() {
		return d.Pixels, nil
	}
	pct, ok := css.ParseLength(trimPercent(d.Percent))
	if !ok {
		return 0, fmt.Errorf("invalid percentage %q", d.Percent)
	}
	base := c.containerH
	if horizontal {
		base = c.containerW
	}
	return base * pct / 100, nil
}

func trimPercent(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '%' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}

// DrawImage loads the image at uri and paints it into a width x height box
// at the current origin. The image is scaled to cover the box and cropped
// to it, keeping its aspect ratio.
func (c *Canvas) DrawImage(uri string, style css.Layers, width, height htmlimage.Dimension) error {
	w, err := c.Pixels(width, true)
	if err != nil {
		return err
	}
	h, err := c.Pixels(height, false)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return nil
	}

	img, err := images.LoadImage(c.ctx, uri, c.fetch)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	imgW := float64(bounds.Dx())
	imgH := float64(bounds.Dy())
	if imgW == 0 || imgH == 0 {
		return fmt.Errorf("image %s has no pixels", uri)
	}

	var scaleX, scaleY float64
	switch mode, _ := style.Lookup("resize-mode"); mode {
	case "contain":
		scaleX = math.Min(w/imgW, h/imgH)
		scaleY = scaleX
	case "stretch":
		scaleX, scaleY = w/imgW, h/imgH
	default:
		scaleX = math.Max(w/imgW, h/imgH)
		scaleY = scaleX
	}

	c.context.Push()
	defer c.context.Pop()

	c.context.DrawRectangle(c.x, c.y, w, h)
	c.context.Clip()
	c.context.Translate(c.x+(w-imgW*scaleX)/2, c.y+(h-imgH*scaleY)/2)
	c.context.Scale(scaleX, scaleY)
	c.context.DrawImage(img, 0, 0)
	c.context.ResetClip()
	return nil
}

// DrawPlaceholder paints the box shown in place of an image that could not
// be drawn: white, a light gray border, and the alt text in italics.
func (c *Canvas) DrawPlaceholder(width, height float64, alt string) error {
	c.context.Push()
	defer c.context.Pop()

	c.context.SetRGB(1, 1, 1)
	c.context.DrawRectangle(c.x, c.y, width, height)
	c.context.Fill()

	c.context.SetRGB255(211, 211, 211)
	c.context.SetLineWidth(1)
	c.context.DrawRectangle(c.x+0.5, c.y+0.5, width-1, height-1)
	c.context.Stroke()

	if alt == "" {
		return nil
	}
	face, err := italicFace(placeholderFontSize)
	if err != nil {
		return fmt.Errorf("loading placeholder font: %w", err)
	}
	c.context.SetFontFace(face)
	c.context.DrawRectangle(c.x, c.y, width, height)
	c.context.Clip()
	c.context.SetRGB(0, 0, 0)
	c.context.DrawStringWrapped(alt, c.x+width/2, c.y+height/2, 0.5, 0.5, width-4, 1.2, gg.AlignCenter)
	c.context.ResetClip()
	return nil
}

// Image returns the painted canvas.
func (c *Canvas) Image() image.Image {
	return c.context.Image()
}

// Paste copies src onto the canvas with its top-left corner at x, y.
func (c *Canvas) Paste(src image.Image, x, y int) {
	c.context.DrawImage(src, x, y)
}

// SavePNG writes the canvas to filename.
func (c *Canvas) SavePNG(filename string) error {
	return c.context.SavePNG(filename)
}
