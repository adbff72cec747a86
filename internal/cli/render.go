package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/page"
	"htmlimage/pkg/resource"
)

var (
	renderFlags  requestFlags
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render [uri]",
	Short: "Resolve an image's size and draw it to a PNG",
	Long: `Resolve the display size of one image and draw it at that size.

Images that cannot be loaded are drawn as a 50x50 placeholder showing the
alt text.

Examples:
  htmlimage render cat.png -o cat.png --width 200 --height 100
  htmlimage render https://example.com/missing.png --alt "a cat" -o out.png`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "out.png", "output PNG path")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := renderFlags.request(cfg, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	img, err := resolveOne(ctx, cfg, req)
	if err != nil {
		return err
	}

	fetch := resource.ImageFetcher(newFetcher(cfg, cfg.Fetch.BaseURL))
	canvas, err := page.Sheet(ctx, []*htmlimage.Image{img}, fetch, cfg.SheetOptions())
	if err != nil {
		return err
	}
	if err := canvas.SavePNG(renderOutput); err != nil {
		return fmt.Errorf("failed to save %s: %w", renderOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s\t%s -> %s\n", req.URI, img.Size(), renderOutput)
	return nil
}
