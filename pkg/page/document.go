// Package page finds the images in an HTML document and sizes them.
package page

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"htmlimage/pkg/css"
	"htmlimage/pkg/htmlimage"
	"htmlimage/pkg/js"
)

// element adapts an html.Node to css.Element.
type element struct {
	node *html.Node
}

func (e element) TagName() string {
	return e.node.Data
}

func (e element) Attribute(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// CSSFetcher loads a linked stylesheet.
type CSSFetcher func(ctx context.Context, uri string) (string, error)

// ParseOptions configures Parse.
type ParseOptions struct {
	// FetchCSS loads <link rel="stylesheet"> targets. Nil skips them.
	FetchCSS CSSFetcher
	// JS evaluates data-style attributes. Nil skips them.
	JS *js.Engine
	// MaxWidth caps every image's probed width. Zero means no cap.
	MaxWidth float64
	// Logger receives skipped stylesheets and attributes. Nil means
	// log.Default().
	Logger *log.Logger
}

// Document is the list of images found in a page, in document order.
type Document struct {
	Requests []htmlimage.Request
}

// Parse reads an HTML document and builds one Request per <img> element.
// Each request's style layers are the matching stylesheet rules, then the
// inline style attribute, then any layers from a data-style expression.
func Parse(ctx context.Context, r io.Reader, opts ParseOptions) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var sheets []*css.Stylesheet
	var imgs []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Style:
				if sheet := parseSheet(textContent(n), logger); sheet != nil {
					sheets = append(sheets, sheet)
				}
			case atom.Link:
				el := element{n}
				rel, _ := el.Attribute("rel")
				href, ok := el.Attribute("href")
				if ok && opts.FetchCSS != nil && strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
					text, err := opts.FetchCSS(ctx, href)
					if err != nil {
						logger.Printf("page: stylesheet %s: %v", href, err)
					} else if sheet := parseSheet(text, logger); sheet != nil {
						sheets = append(sheets, sheet)
					}
				}
			case atom.Img:
				imgs = append(imgs, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc := &Document{}
	for _, n := range imgs {
		el := element{n}
		src, ok := el.Attribute("src")
		if !ok || strings.TrimSpace(src) == "" {
			continue
		}
		req := htmlimage.Request{
			URI:      strings.TrimSpace(src),
			Style:    css.ComputeLayers(el, sheets),
			MaxWidth: opts.MaxWidth,
		}
		req.Alt, _ = el.Attribute("alt")
		req.Width, _ = el.Attribute("width")
		req.Height, _ = el.Attribute("height")
		req.Width = strings.TrimSpace(req.Width)
		req.Height = strings.TrimSpace(req.Height)

		if expr, ok := el.Attribute("data-style"); ok && opts.JS != nil {
			layers, err := opts.JS.EvalStyle(expr)
			if err != nil {
				logger.Printf("page: data-style on %s: %v", req.URI, err)
			} else {
				req.Style = append(req.Style, layers...)
			}
		}
		doc.Requests = append(doc.Requests, req)
	}
	return doc, nil
}

func parseSheet(text string, logger *log.Logger) *css.Stylesheet {
	sheet, err := css.ParseStylesheet(text)
	if err != nil {
		logger.Printf("page: stylesheet: %v", err)
		return nil
	}
	return sheet
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
