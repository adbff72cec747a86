package css

// Layers is an ordered sequence of style layers. Later layers override
// earlier ones on matching properties, the way composed style arrays do.
// A single style is a one-element sequence.
type Layers []*Style

// Single wraps one layer as a sequence.
func Single(s *Style) Layers {
	if s == nil {
		return nil
	}
	return Layers{s}
}

// Flatten folds the layers left to right into one style.
func (l Layers) Flatten() *Style {
	out := NewStyle()
	for _, layer := range l {
		if layer == nil {
			continue
		}
		for k, v := range layer.Properties {
			out.Set(k, v)
		}
	}
	return out
}

// Lookup returns the value of property in the last layer that defines it
// with a non-empty value.
func (l Layers) Lookup(property string) (string, bool) {
	var val string
	found := false
	for _, layer := range l {
		if v, ok := layer.Get(property); ok && v != "" {
			val = v
			found = true
		}
	}
	return val, found
}

// Equal reports whether both sequences hold the same declarations in the
// same order.
func (l Layers) Equal(o Layers) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		a, b := l[i], o[i]
		if a == nil || b == nil {
			if (a == nil) != (b == nil) {
				return false
			}
			continue
		}
		if len(a.Properties) != len(b.Properties) {
			return false
		}
		for k, v := range a.Properties {
			if bv, ok := b.Properties[k]; !ok || bv != v {
				return false
			}
		}
	}
	return true
}

// Requested holds the width and height a layout asked for before any probe.
// An empty field means the axis was not specified anywhere.
type Requested struct {
	Width  string
	Height string
}

// Complete reports whether both axes were specified.
func (r Requested) Complete() bool {
	return r.Width != "" && r.Height != ""
}

// ExtractDimensions computes the requested size for an element. Explicit
// height and width always win; otherwise each axis takes the value from the
// last style layer that declares it.
func ExtractDimensions(style Layers, height, width string) Requested {
	req := Requested{Width: width, Height: height}
	for _, layer := range style {
		if width == "" {
			if v, ok := layer.Get("width"); ok && v != "" {
				req.Width = v
			}
		}
		if height == "" {
			if v, ok := layer.Get("height"); ok && v != "" {
				req.Height = v
			}
		}
	}
	return req
}
