package htmlimage

import (
	"log"

	"htmlimage/pkg/css"
)

// Painter is the drawing layer an Image renders through.
type Painter interface {
	// DrawImage paints the image at the given size. style holds the
	// request's layers followed by a layer carrying the resolved size.
	DrawImage(uri string, style css.Layers, width, height Dimension) error
	// DrawPlaceholder paints the fixed-size box shown when drawing fails.
	DrawPlaceholder(width, height float64, alt string) error
}

// Options configures an Image.
type Options struct {
	// InitialDimensions seeds the size before the first resolution settles.
	// It is never drawn, since rendering waits for a settled size.
	InitialDimensions Dimensions
	// FallbackSize is used when a probe fails and the request has no
	// MaxWidth.
	FallbackSize Dimensions
	// SkipUnchanged makes Update ignore requests equal to the current one.
	SkipUnchanged bool
	// Logger receives probe failures and discarded results. Nil means
	// log.Default().
	Logger *log.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		InitialDimensions: DefaultInitialDimensions,
		FallbackSize:      DefaultInitialDimensions,
	}
}

type phase int

const (
	unmounted phase = iota
	mounted
)

type actionKind int

const (
	actMount actionKind = iota
	actSettle
	actDrawFailed
	actUnmount
)

type action struct {
	kind actionKind
	size Size
}

type state struct {
	phase phase
	size  Size
}

// reduce is the only place state changes. Actions that do not apply in the
// current phase leave the state untouched.
func reduce(s state, a action) state {
	switch a.kind {
	case actMount:
		if s.phase == mounted {
			return s
		}
		s.phase = mounted
		s.size.Status = Pending
	case actSettle:
		if s.phase != mounted {
			return s
		}
		s.size = a.size
	case actDrawFailed:
		if s.phase != mounted || s.size.Status != Resolved {
			return s
		}
		s.size.Status = Failed
	case actUnmount:
		s.phase = unmounted
	}
	return s
}

// Image is the sizing state machine for one embedded image. It is not safe
// for concurrent use; drive it from a single event loop.
type Image struct {
	opts     Options
	resolver *Resolver
	logger   *log.Logger
	state    state
	req      Request
}

// NewImage creates an unmounted Image that probes through prober.
func NewImage(prober Prober, opts Options) *Image {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	initial := opts.InitialDimensions
	return &Image{
		opts:     opts,
		resolver: NewResolver(prober, opts.FallbackSize, logger),
		logger:   logger,
		state: state{size: Size{
			Width:  Px(initial.Width),
			Height: Px(initial.Height),
			Status: Pending,
		}},
	}
}

// Mounted reports whether the image is mounted.
func (im *Image) Mounted() bool {
	return im.state.phase == mounted
}

// Size returns the current size. Its status is Pending until a resolution
// settles.
func (im *Image) Size() Size {
	return im.state.size
}

// Request returns the most recent request.
func (im *Image) Request() Request {
	return im.req
}

// Mount attaches the image and starts resolving req.
func (im *Image) Mount(req Request) {
	if im.Mounted() {
		im.Update(req)
		return
	}
	im.dispatch(action{kind: actMount})
	im.resolve(req)
}

// Update starts a fresh resolution for req. It is a no-op while unmounted.
func (im *Image) Update(req Request) {
	if !im.Mounted() {
		return
	}
	if im.opts.SkipUnchanged && req.Equal(im.req) {
		return
	}
	im.resolve(req)
}

// Unmount detaches the image. Results still in flight are discarded.
func (im *Image) Unmount() {
	im.resolver.Supersede()
	im.dispatch(action{kind: actUnmount})
}

func (im *Image) resolve(req Request) {
	im.req = req
	im.resolver.Resolve(req, func(size Size) {
		if !im.Mounted() {
			im.logger.Printf("htmlimage: discarding size for %s after unmount", req.URI)
			return
		}
		im.dispatch(action{kind: actSettle, size: size})
	})
}

func (im *Image) dispatch(a action) {
	im.state = reduce(im.state, a)
}

// Render draws the image through p. Nothing is drawn while the size is
// pending or the image is unmounted. A drawing error switches the image to
// the placeholder.
func (im *Image) Render(p Painter) error {
	if !im.Mounted() {
		return nil
	}
	size := im.state.size
	switch size.Status {
	case Pending:
		return nil
	case Resolved:
		err := p.DrawImage(im.req.URI, im.drawStyle(size), size.Width, size.Height)
		if err == nil {
			return nil
		}
		im.logger.Printf("htmlimage: drawing %s: %v", im.req.URI, err)
		im.dispatch(action{kind: actDrawFailed})
	}
	return p.DrawPlaceholder(PlaceholderDimensions.Width, PlaceholderDimensions.Height, im.req.Alt)
}

// drawStyle appends the resolved size to the request's layers so it
// overrides any size the style declares.
func (im *Image) drawStyle(size Size) css.Layers {
	layers := make(css.Layers, 0, len(im.req.Style)+1)
	layers = append(layers, im.req.Style...)
	layers = append(layers, css.StyleOf(
		"width", size.Width.String(),
		"height", size.Height.String(),
		"resize-mode", "cover",
	))
	return layers
}
