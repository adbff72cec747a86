package main

import "testing"

func TestFormRequest(t *testing.T) {
	req, ok := formRequest{
		uri:    " https://example.com/cat.png ",
		alt:    "a cat",
		width:  "120",
		height: "",
		style:  "height: 50%",
	}.request(300)
	if !ok {
		t.Fatal("expected a request")
	}
	if req.URI != "https://example.com/cat.png" || req.Alt != "a cat" || req.MaxWidth != 300 {
		t.Errorf("unexpected request %+v", req)
	}
	if got := req.Requested(); got.Width != "120" || got.Height != "50%" {
		t.Errorf("unexpected requested size %+v", got)
	}
}

func TestFormRequest_AltIsNotTheURI(t *testing.T) {
	req, ok := formRequest{uri: "https://example.com/cat.png"}.request(0)
	if !ok {
		t.Fatal("expected a request")
	}
	if req.Alt != "" {
		t.Errorf("expected empty alt text, got %q", req.Alt)
	}
}

func TestFormRequest_RequiresURI(t *testing.T) {
	if _, ok := (formRequest{uri: "  ", alt: "x"}).request(0); ok {
		t.Error("expected no request without a URI")
	}
}
