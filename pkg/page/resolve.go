package page

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/images"
	"htmlimage/pkg/loop"
)

// ResolveOptions configures ResolveAll.
type ResolveOptions struct {
	Image htmlimage.Options
	Probe images.ProberOptions
}

// ResolveAll mounts one Image per request on a private event loop and
// waits until every size has settled. The loop is stopped before
// ResolveAll returns, so the images belong to the caller's goroutine. If
// ctx ends first, the images are returned as they stand along with ctx's
// error.
func ResolveAll(ctx context.Context, reqs []htmlimage.Request, fetch images.ImageFetcher, opts ResolveOptions) ([]*htmlimage.Image, error) {
	l := loop.New(0)
	prober := images.NewAsyncProber(fetch, l, opts.Probe)
	defer prober.Close()

	settled := make(chan struct{}, 1)
	notify := func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	}
	counted := htmlimage.ProberFunc(func(uri string, onSuccess func(int, int), onFailure func(error)) {
		prober.ProbeSize(uri,
			func(w, h int) { onSuccess(w, h); notify() },
			func(err error) { onFailure(err); notify() },
		)
	})

	imgs := make([]*htmlimage.Image, len(reqs))
	for i := range reqs {
		imgs[i] = htmlimage.NewImage(counted, opts.Image)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := l.Run(gctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer l.Stop()
		if err := l.Call(gctx, func() {
			for i, img := range imgs {
				img.Mount(reqs[i])
			}
		}); err != nil {
			return fmt.Errorf("mounting images: %w", err)
		}
		for {
			var pending int
			if err := l.Call(gctx, func() { pending = countPending(imgs) }); err != nil {
				return err
			}
			if pending == 0 {
				return nil
			}
			select {
			case <-settled:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return imgs, ctx.Err()
		}
		return imgs, err
	}
	return imgs, nil
}

func countPending(imgs []*htmlimage.Image) int {
	n := 0
	for _, img := range imgs {
		if img.Size().Status == htmlimage.Pending {
			n++
		}
	}
	return n
}
