package css

import "testing"

type testElement struct {
	tag   string
	attrs map[string]string
}

func (e testElement) TagName() string { return e.tag }

func (e testElement) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func mustParse(t *testing.T, css string) []*Stylesheet {
	t.Helper()
	sheet, err := ParseStylesheet(css)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return []*Stylesheet{sheet}
}

func TestComputeLayers_ElementSelector(t *testing.T) {
	sheets := mustParse(t, `img { width: 10px; }`)
	style := ComputeLayers(testElement{tag: "img"}, sheets).Flatten()

	if w, ok := style.Get("width"); !ok || w != "10px" {
		t.Errorf("expected width='10px', got '%s'", w)
	}
}

func TestComputeLayers_SpecificityOverride(t *testing.T) {
	sheets := mustParse(t, `
		.hero { width: 20px; }
		img { width: 10px; }
	`)
	el := testElement{tag: "img", attrs: map[string]string{"class": "hero wide"}}
	style := ComputeLayers(el, sheets).Flatten()

	if w, _ := style.Get("width"); w != "20px" {
		t.Errorf("expected class to override element, got '%s'", w)
	}
}

func TestComputeLayers_Order(t *testing.T) {
	sheets := mustParse(t, `
		#logo { height: 5px; }
		img { width: 10px; }
		img { width: 11px; }
	`)
	el := testElement{tag: "IMG", attrs: map[string]string{
		"id":    "logo",
		"style": "width: 50%",
	}}
	layers := ComputeLayers(el, sheets)

	if len(layers) != 4 {
		t.Fatalf("expected 4 layers, got %d", len(layers))
	}
	order := []string{"10px", "11px", "", "50%"}
	for i, want := range order {
		if got, _ := layers[i].Get("width"); got != want {
			t.Errorf("layer %d: expected width %q, got %q", i, want, got)
		}
	}
	req := ExtractDimensions(layers, "", "")
	if req.Width != "50%" || req.Height != "5px" {
		t.Errorf("unexpected extraction %+v", req)
	}
}

func TestComputeLayers_NoMatch(t *testing.T) {
	sheets := mustParse(t, `#other { width: 1px; } .x { width: 2px; }`)
	layers := ComputeLayers(testElement{tag: "img"}, sheets)
	if len(layers) != 0 {
		t.Errorf("expected no layers, got %d", len(layers))
	}
}

func TestComputeLayers_StylesheetOrder(t *testing.T) {
	first, _ := ParseStylesheet(`img { width: 1px; }`)
	second, _ := ParseStylesheet(`img { width: 2px; }`)
	style := ComputeLayers(testElement{tag: "img"}, []*Stylesheet{first, nil, second}).Flatten()
	if w, _ := style.Get("width"); w != "2px" {
		t.Errorf("expected later stylesheet to win, got %q", w)
	}
}
