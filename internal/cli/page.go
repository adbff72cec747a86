package cli

import (
	"bytes"
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"htmlimage/pkg/js"
	"htmlimage/pkg/page"
	"htmlimage/pkg/resource"
)

var pageOutput string

var pageCmd = &cobra.Command{
	Use:   "page <file-or-url>",
	Short: "Resolve every image in an HTML document",
	Long: `Find every <img> in an HTML document and print its display size.

Each image's style layers come from matching <style> and linked stylesheet
rules, then its style attribute, then a data-style JavaScript expression.
Relative sources resolve against the document location.

With -o, the images are also drawn one per row into a contact sheet.

Examples:
  htmlimage page index.html
  htmlimage page https://example.com/ -o sheet.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	pageCmd.Flags().StringVarP(&pageOutput, "output", "o", "", "write a contact sheet PNG")
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	location := args[0]
	base := location
	if cfg.Fetch.BaseURL != "" {
		base = cfg.Fetch.BaseURL
	}
	fetcher := newFetcher(cfg, base)
	body, _, err := newFetcher(cfg, "").Fetch(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", location, err)
	}

	doc, err := page.Parse(ctx, bytes.NewReader(body), page.ParseOptions{
		FetchCSS: fetcher.FetchCSS,
		JS:       js.New(nil),
		MaxWidth: cfg.Image.MaxWidth,
	})
	if err != nil {
		return err
	}

	fetch := resource.ImageFetcher(fetcher)
	imgs, err := page.ResolveAll(ctx, doc.Requests, fetch, resolveOptions(cfg))
	if err != nil {
		return fmt.Errorf("resolving images: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for i, img := range imgs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, doc.Requests[i].URI, img.Size(), doc.Requests[i].Alt)
	}
	w.Flush()

	if pageOutput == "" {
		return nil
	}
	canvas, err := page.Sheet(ctx, imgs, fetch, cfg.SheetOptions())
	if err != nil {
		return err
	}
	if err := canvas.SavePNG(pageOutput); err != nil {
		return fmt.Errorf("failed to save %s: %w", pageOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "contact sheet: %s\n", pageOutput)
	return nil
}
