package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"htmlimage/internal/config"
	"htmlimage/pkg/css"
	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/js"
	"htmlimage/pkg/page"
	"htmlimage/pkg/resource"
)

// requestFlags are the image flags shared by resolve and render.
type requestFlags struct {
	width    string
	height   string
	alt      string
	style    string
	jsStyle  string
	props    string
	maxWidth float64
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.width, "width", "", "explicit width (pixels or percentage)")
	cmd.Flags().StringVar(&f.height, "height", "", "explicit height (pixels or percentage)")
	cmd.Flags().StringVar(&f.alt, "alt", "", "alt text")
	cmd.Flags().StringVar(&f.style, "style", "", "inline CSS declarations, e.g. \"width: 50%; height: 20px\"")
	cmd.Flags().StringVar(&f.jsStyle, "js-style", "", "style as a JavaScript expression, e.g. \"[{width: 10}, {height: 20}]\"")
	cmd.Flags().StringVar(&f.props, "props", "", "image props as a JavaScript object; replaces the uri argument")
	cmd.Flags().Float64Var(&f.maxWidth, "max-width", 0, "cap on the probed width (default from config)")
}

// request builds the image request from args and flags. Flags override
// fields set by --props.
func (f *requestFlags) request(cfg *config.Config, args []string) (htmlimage.Request, error) {
	var req htmlimage.Request
	if f.props != "" {
		r, err := js.New(nil).EvalRequest(f.props)
		if err != nil {
			return htmlimage.Request{}, fmt.Errorf("invalid --props: %w", err)
		}
		req = r
	}
	if len(args) > 0 {
		req.URI = args[0]
	}
	if req.URI == "" {
		return htmlimage.Request{}, fmt.Errorf("an image uri or --props with a source is required")
	}
	if f.alt != "" {
		req.Alt = f.alt
	}
	if f.width != "" {
		req.Width = f.width
	}
	if f.height != "" {
		req.Height = f.height
	}
	if f.style != "" {
		req.Style = append(req.Style, css.ParseInlineStyle(f.style))
	}
	if f.jsStyle != "" {
		layers, err := js.New(nil).EvalStyle(f.jsStyle)
		if err != nil {
			return htmlimage.Request{}, fmt.Errorf("invalid --js-style: %w", err)
		}
		req.Style = append(req.Style, layers...)
	}
	switch {
	case f.maxWidth > 0:
		req.MaxWidth = f.maxWidth
	case req.MaxWidth == 0:
		req.MaxWidth = cfg.Image.MaxWidth
	}
	return req, nil
}

var resolveFlags requestFlags

var resolveCmd = &cobra.Command{
	Use:   "resolve [uri]",
	Short: "Print the display size of an image",
	Long: `Resolve the display size of one image and print it.

Explicit --width and --height win; otherwise the last style layer that sets
an axis wins. When an axis is still missing the image is probed for its
intrinsic size, scaled down to --max-width.

Examples:
  htmlimage resolve https://example.com/cat.png
  htmlimage resolve cat.png --style "width: 50%; height: 40px"
  htmlimage resolve --props '{source: {uri: "cat.png"}, imagesMaxWidth: 300}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveFlags.register(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := resolveFlags.request(cfg, args)
	if err != nil {
		return err
	}

	img, err := resolveOne(cmd.Context(), cfg, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", req.URI, img.Size())
	return nil
}

func resolveOne(ctx context.Context, cfg *config.Config, req htmlimage.Request) (*htmlimage.Image, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	fetcher := newFetcher(cfg, cfg.Fetch.BaseURL)
	imgs, err := page.ResolveAll(ctx, []htmlimage.Request{req}, resource.ImageFetcher(fetcher), resolveOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", req.URI, err)
	}
	return imgs[0], nil
}

func resolveOptions(cfg *config.Config) page.ResolveOptions {
	return page.ResolveOptions{
		Image: cfg.ImageOptions(),
		Probe: cfg.ProberOptions(),
	}
}
