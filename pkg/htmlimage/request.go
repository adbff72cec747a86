package htmlimage

import (
	"htmlimage/pkg/css"
)

// Request is one snapshot of the properties that determine an image's size.
// A new Request is built for every property or style update and is not
// modified afterwards.
type Request struct {
	// URI locates the image. Required.
	URI string
	// Alt is shown in the placeholder when drawing fails.
	Alt string
	// Width and Height are explicit sizes from the element's properties,
	// either pixel lengths ("120", "120px") or percentages ("50%"). Empty
	// means unspecified.
	Width  string
	Height string
	// Style holds the element's style layers, lowest priority first.
	Style css.Layers
	// MaxWidth caps the probed width in pixels. Zero means no cap.
	MaxWidth float64
}

// Requested runs the style extraction for the request.
func (r Request) Requested() css.Requested {
	return css.ExtractDimensions(r.Style, r.Height, r.Width)
}

// Equal reports whether two requests would resolve identically.
func (r Request) Equal(o Request) bool {
	return r.URI == o.URI &&
		r.Alt == o.Alt &&
		r.Width == o.Width &&
		r.Height == o.Height &&
		r.MaxWidth == o.MaxWidth &&
		r.Style.Equal(o.Style)
}

// parseDimension converts a requested value: percentages pass through,
// anything else is truncated to a whole number of pixels.
func parseDimension(v string) (Dimension, bool) {
	if v == "" {
		return Dimension{}, false
	}
	if css.IsPercentage(v) {
		return Pct(v), true
	}
	n, ok := css.ParsePixels(v)
	if !ok || n < 0 {
		return Dimension{}, false
	}
	return Px(float64(n)), true
}

// localSize returns the size when both axes are known without a probe.
func localSize(req css.Requested) (Size, bool) {
	if !req.Complete() {
		return Size{}, false
	}
	w, ok := parseDimension(req.Width)
	if !ok {
		return Size{}, false
	}
	h, ok := parseDimension(req.Height)
	if !ok {
		return Size{}, false
	}
	return Size{Width: w, Height: h, Status: Resolved}, true
}
