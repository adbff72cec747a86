package main

import (
	"strings"

	"htmlimage/pkg/css"
	"htmlimage/pkg/htmlimage"
)

// formRequest holds the viewer's entry fields.
type formRequest struct {
	uri, alt      string
	width, height string
	style         string
}

// request builds the component request. It is false while no URI is set.
func (f formRequest) request(maxWidth float64) (htmlimage.Request, bool) {
	uri := strings.TrimSpace(f.uri)
	if uri == "" {
		return htmlimage.Request{}, false
	}
	req := htmlimage.Request{
		URI:      uri,
		Alt:      f.alt,
		Width:    f.width,
		Height:   f.height,
		MaxWidth: maxWidth,
	}
	if f.style != "" {
		req.Style = css.Single(css.ParseInlineStyle(f.style))
	}
	return req, true
}
