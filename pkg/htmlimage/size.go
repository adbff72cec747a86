// Package htmlimage decides the display size of an embedded image whose
// intrinsic size is unknown until it has been probed.
//
// An Image component extracts any explicit width and height from its
// request and style layers. When both are known it settles immediately.
// Otherwise it asks a Prober for the natural size, scales it to fit an
// optional maximum width, and falls back to a fixed size when the probe
// fails. Nothing is drawn until a size has settled.
//
// All methods of Image and Resolver, and all Prober callbacks, must run on
// the same goroutine (see package loop).
package htmlimage

import (
	"fmt"
	"strconv"
)

// Status is the presentation state of an image.
type Status int

const (
	// Pending means no size has settled yet; nothing is drawn.
	Pending Status = iota
	// Resolved means the size is known and the image can be drawn.
	Resolved
	// Failed means the drawing layer could not paint the image; the
	// placeholder is drawn instead.
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Dimension is one axis of a display size: either a pixel length or a
// percentage string such as "50%".
type Dimension struct {
	Pixels  float64
	Percent string
}

// Px returns a pixel dimension.
func Px(v float64) Dimension {
	return Dimension{Pixels: v}
}

// Pct returns a percentage dimension. The string is kept as given.
func Pct(s string) Dimension {
	return Dimension{Percent: s}
}

// IsPercent reports whether the dimension is relative to its container.
func (d Dimension) IsPercent() bool {
	return d.Percent != ""
}

func (d Dimension) String() string {
	if d.IsPercent() {
		return d.Percent
	}
	return strconv.FormatFloat(d.Pixels, 'f', -1, 64)
}

// Size is the resolved width and height of an image together with its
// presentation status.
type Size struct {
	Width  Dimension
	Height Dimension
	Status Status
}

func (s Size) String() string {
	return fmt.Sprintf("%sx%s (%s)", s.Width, s.Height, s.Status)
}

// Dimensions is a plain pixel width and height, used for configured sizes.
type Dimensions struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultInitialDimensions seeds an image before its first resolution.
var DefaultInitialDimensions = Dimensions{Width: 100, Height: 100}

// PlaceholderDimensions is the fixed size of the draw-failure placeholder.
var PlaceholderDimensions = Dimensions{Width: 50, Height: 50}
