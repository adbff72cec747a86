package main

import (
	"context"
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"htmlimage/internal/config"
	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/images"
	"htmlimage/pkg/loop"
	"htmlimage/pkg/page"
	"htmlimage/pkg/resource"
	stdnet "htmlimage/std/net"
)

// viewer shows one image component. Every field is touched only on the
// fyne main goroutine; probe results reach it through fyne.Do.
type viewer struct {
	cfg     *config.Config
	fetch   images.ImageFetcher
	img     *htmlimage.Image
	display *canvas.Image
	status  *widget.Label
}

func (v *viewer) refresh() {
	if !v.img.Mounted() {
		v.status.SetText("unmounted")
		v.display.Image = image.NewRGBA(image.Rect(0, 0, 1, 1))
		v.display.Refresh()
		return
	}
	size := v.img.Size()
	v.status.SetText(v.img.Request().URI + "  " + size.String())
	if size.Status == htmlimage.Pending {
		return
	}
	sheet, err := page.Sheet(context.Background(), []*htmlimage.Image{v.img}, v.fetch, v.cfg.SheetOptions())
	if err != nil {
		v.status.SetText("Render error: " + err.Error())
		return
	}
	// Rendering may have switched the image to its placeholder.
	v.status.SetText(v.img.Request().URI + "  " + v.img.Size().String())
	v.display.Image = sheet.Image()
	v.display.Refresh()
}

func main() {
	loader, err := config.ResolveLoader("")
	if err != nil {
		log.Fatalf("imgview: %v", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("imgview: %v", err)
	}

	a := app.New()
	w := a.NewWindow("htmlimage viewer")
	w.Resize(fyne.NewSize(900, 700))

	fetcher := resource.NewFetcherWithClient(cfg.Fetch.BaseURL, stdnet.NewClient(cfg.Fetch.Timeout, cfg.Fetch.UserAgent))
	v := &viewer{
		cfg:     cfg,
		fetch:   resource.ImageFetcher(fetcher),
		display: canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		status:  widget.NewLabel("Enter an image URI and press Enter"),
	}
	v.display.FillMode = canvas.ImageFillOriginal

	prober := images.NewAsyncProber(v.fetch, loop.DispatcherFunc(fyne.Do), cfg.ProberOptions())
	defer prober.Close()
	v.img = htmlimage.NewImage(htmlimage.ProberFunc(func(uri string, onSuccess func(int, int), onFailure func(error)) {
		prober.ProbeSize(uri,
			func(width, height int) { onSuccess(width, height); v.refresh() },
			func(err error) { onFailure(err); v.refresh() },
		)
	}), cfg.ImageOptions())

	uriEntry := widget.NewEntry()
	uriEntry.SetPlaceHolder("https://example.com/cat.png")
	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("width")
	heightEntry := widget.NewEntry()
	heightEntry.SetPlaceHolder("height")
	altEntry := widget.NewEntry()
	altEntry.SetPlaceHolder("alt text")
	styleEntry := widget.NewEntry()
	styleEntry.SetPlaceHolder("style, e.g. width: 50%; height: 120px")

	submit := func(string) {
		req, ok := formRequest{
			uri:    uriEntry.Text,
			alt:    altEntry.Text,
			width:  widthEntry.Text,
			height: heightEntry.Text,
			style:  styleEntry.Text,
		}.request(cfg.Image.MaxWidth)
		if !ok {
			return
		}
		v.img.Mount(req)
		v.refresh()
	}
	for _, e := range []*widget.Entry{uriEntry, widthEntry, heightEntry, altEntry, styleEntry} {
		e.OnSubmitted = submit
	}
	unmount := widget.NewButton("Unmount", func() {
		v.img.Unmount()
		v.refresh()
	})

	sizes := container.NewGridWithColumns(4, widthEntry, heightEntry, altEntry, styleEntry)
	topBar := container.NewVBox(container.NewBorder(nil, nil, nil, unmount, uriEntry), sizes)
	content := container.NewBorder(topBar, v.status, nil, nil, container.NewScroll(v.display))
	w.SetContent(content)
	w.Canvas().Focus(uriEntry)

	w.ShowAndRun()
}
