package htmlimage

import (
	"errors"
	"fmt"
	"log"
)

// Prober reports the natural pixel size of an image. Exactly one of the
// callbacks is expected to fire, on the goroutine that owns the Resolver.
// Implementations must not block the caller.
type Prober interface {
	ProbeSize(uri string, onSuccess func(width, height int), onFailure func(err error))
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(uri string, onSuccess func(width, height int), onFailure func(err error))

func (f ProberFunc) ProbeSize(uri string, onSuccess func(width, height int), onFailure func(err error)) {
	f(uri, onSuccess, onFailure)
}

// ErrEmptyNaturalSize is reported when a probe succeeds with a zero or
// negative dimension.
var ErrEmptyNaturalSize = errors.New("probe reported an empty natural size")

// Resolver turns Requests into Sizes. Each Resolve call supersedes the
// previous one: a probe result that arrives after a newer Resolve is
// dropped.
type Resolver struct {
	prober   Prober
	fallback Dimensions
	logger   *log.Logger
	seq      uint64
}

// NewResolver creates a Resolver. fallback is used when a probe fails and
// the request has no MaxWidth. A nil logger means log.Default().
func NewResolver(prober Prober, fallback Dimensions, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{prober: prober, fallback: fallback, logger: logger}
}

// Supersede invalidates any attempt still in flight.
func (r *Resolver) Supersede() {
	r.seq++
}

// Resolve starts a resolution attempt and returns its sequence number.
// onSettled fires exactly once for the attempt unless a later Resolve or
// Supersede call overtakes it, in which case it never fires. When both axes
// are known locally onSettled fires before Resolve returns.
func (r *Resolver) Resolve(req Request, onSettled func(Size)) uint64 {
	r.seq++
	seq := r.seq

	requested := req.Requested()
	if size, ok := localSize(requested); ok {
		onSettled(size)
		return seq
	}

	settled := false
	settle := func(size Size) {
		if settled {
			return
		}
		settled = true
		if seq != r.seq {
			return
		}
		onSettled(size)
	}

	r.prober.ProbeSize(req.URI,
		func(width, height int) {
			if width <= 0 || height <= 0 {
				settle(r.failureSize(req, fmt.Errorf("%w (%dx%d)", ErrEmptyNaturalSize, width, height)))
				return
			}
			settle(scaleToMaxWidth(float64(width), float64(height), req.MaxWidth))
		},
		func(err error) {
			settle(r.failureSize(req, err))
		},
	)
	return seq
}

// scaleToMaxWidth shrinks a natural size to fit maxWidth, preserving the
// aspect ratio. Images are never enlarged.
func scaleToMaxWidth(naturalWidth, naturalHeight, maxWidth float64) Size {
	if maxWidth <= 0 {
		return Size{Width: Px(naturalWidth), Height: Px(naturalHeight), Status: Resolved}
	}
	optimalWidth := naturalWidth
	if maxWidth <= naturalWidth {
		optimalWidth = maxWidth
	}
	optimalHeight := optimalWidth * naturalHeight / naturalWidth
	return Size{Width: Px(optimalWidth), Height: Px(optimalHeight), Status: Resolved}
}

// failureSize is the size used when the natural size cannot be probed: a
// MaxWidth square when a cap is configured, else the configured fallback.
func (r *Resolver) failureSize(req Request, err error) Size {
	if req.MaxWidth > 0 {
		r.logger.Printf("htmlimage: probe %s: %v; using %gx%g", req.URI, err, req.MaxWidth, req.MaxWidth)
		return Size{Width: Px(req.MaxWidth), Height: Px(req.MaxWidth), Status: Resolved}
	}
	r.logger.Printf("htmlimage: probe %s: %v; using %gx%g", req.URI, err, r.fallback.Width, r.fallback.Height)
	return Size{Width: Px(r.fallback.Width), Height: Px(r.fallback.Height), Status: Resolved}
}
