package js

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"htmlimage/pkg/css"
	"htmlimage/pkg/htmlimage"
)

func quietEngine() *Engine {
	return New(log.New(io.Discard, "", 0))
}

func layerMaps(l css.Layers) []map[string]string {
	out := make([]map[string]string, len(l))
	for i, s := range l {
		out[i] = s.Properties
	}
	return out
}

func TestEvalStyle(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []map[string]string
	}{
		{
			name: "single object",
			src:  `{width: 120, height: "50%"}`,
			want: []map[string]string{{"width": "120", "height": "50%"}},
		},
		{
			name: "ordered layers",
			src:  `[{width: 10, height: 20}, {width: 30.5}]`,
			want: []map[string]string{{"width": "10", "height": "20"}, {"width": "30.5"}},
		},
		{
			name: "nested and falsy entries",
			src:  `[null, [{width: 1}, false], undefined, {height: 2}]`,
			want: []map[string]string{{"width": "1"}, {"height": "2"}},
		},
		{
			name: "falsy values are unset",
			src:  `{width: 0, height: "", margin: 4}`,
			want: []map[string]string{{"margin": "4"}},
		},
		{
			name: "computed",
			src:  `(function () { var w = 40; return [{width: w * 2}]; })()`,
			want: []map[string]string{{"width": "80"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers, err := quietEngine().EvalStyle(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, layerMaps(layers)); diff != "" {
				t.Errorf("layers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvalStyle_Errors(t *testing.T) {
	for _, src := range []string{`{width: `, `42`, `[true]`, `"width: 10"`} {
		if _, err := quietEngine().EvalStyle(src); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}
}

func TestEvalRequest(t *testing.T) {
	req, err := quietEngine().EvalRequest(`{
		source: {uri: "https://example.com/cat.png"},
		alt: "a cat",
		width: 120.7,
		style: [{height: 40}, {height: "25%"}],
		imagesMaxWidth: 300
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.URI != "https://example.com/cat.png" || req.Alt != "a cat" {
		t.Errorf("unexpected uri/alt: %+v", req)
	}
	if req.Width != "120.7" || req.Height != "" {
		t.Errorf("unexpected explicit size %q x %q", req.Width, req.Height)
	}
	if req.MaxWidth != 300 {
		t.Errorf("expected max width 300, got %v", req.MaxWidth)
	}
	got := req.Requested()
	if got.Width != "120.7" || got.Height != "25%" {
		t.Errorf("unexpected requested size %+v", got)
	}
}

func TestEvalRequest_StringSource(t *testing.T) {
	req, err := quietEngine().EvalRequest(`{source: "a.png", height: 0}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.URI != "a.png" || req.Height != "" || req.MaxWidth != 0 {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestEvalRequest_ZeroSizeLeavesDimensionUnset(t *testing.T) {
	req, err := quietEngine().EvalRequest(`{source: "a.png", width: 100, height: 0}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Width != "100" || req.Height != "" {
		t.Fatalf("expected width 100 and no height, got %q x %q", req.Width, req.Height)
	}

	// With only one dimension the component must ask for the intrinsic size.
	var calls []string
	img := htmlimage.NewImage(htmlimage.ProberFunc(func(uri string, onSuccess func(int, int), onFailure func(error)) {
		calls = append(calls, uri)
	}), htmlimage.DefaultOptions())
	img.Mount(req)
	if diff := cmp.Diff([]string{"a.png"}, calls); diff != "" {
		t.Errorf("prober calls mismatch (-want +got):\n%s", diff)
	}
	if got := img.Size().Status; got != htmlimage.Pending {
		t.Errorf("expected pending size, got %v", img.Size())
	}
}

func TestPropertyString(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   string
		wantOK bool
	}{
		{int64(0), "", false},
		{int64(12), "12", true},
		{float64(0), "", false},
		{1.5, "1.5", true},
		{"", "", false},
		{"50%", "50%", true},
		{nil, "", false},
		{false, "", false},
	}
	for _, tt := range tests {
		got, ok := propertyString(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("propertyString(%#v) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEvalRequest_Errors(t *testing.T) {
	for _, src := range []string{`{}`, `[1]`, `{source: {uri: ""}}`, `{source: "a", style: [1]}`} {
		if _, err := quietEngine().EvalRequest(src); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}
}

func TestConsoleGoesToLogger(t *testing.T) {
	var buf bytes.Buffer
	e := New(log.New(&buf, "", 0))
	if _, err := e.EvalStyle(`(console.log("sizing", 3), console.warn("hm"), {width: 1})`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "js: sizing 3") || !strings.Contains(out, "js: WARN: hm") {
		t.Errorf("unexpected console output %q", out)
	}
}
