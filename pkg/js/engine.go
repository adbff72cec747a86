package js

import (
	"fmt"
	"log"
	"math"

	"github.com/dop251/goja"

	"htmlimage/pkg/css"
	"htmlimage/pkg/htmlimage"
)

// Engine evaluates JavaScript property expressions, such as the value of a
// style prop, into the module's types.
type Engine struct {
	vm *goja.Runtime
}

// New creates a new JS engine with a fresh goja runtime. console output
// goes to logger; nil means log.Default().
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	vm := goja.New()
	e := &Engine{vm: vm}

	c := &consoleAPI{logger: logger}
	c.register(vm)

	return e
}

func (e *Engine) eval(src string) (goja.Value, error) {
	v, err := e.vm.RunString("(" + src + "\n)")
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", src, err)
	}
	return v, nil
}

// EvalStyle evaluates a style expression: a single object, or an array of
// objects whose later entries override earlier ones. Nested arrays are
// flattened and falsy entries skipped, matching how style arrays compose.
func (e *Engine) EvalStyle(src string) (css.Layers, error) {
	v, err := e.eval(src)
	if err != nil {
		return nil, err
	}
	return styleLayers(v.Export())
}

func styleLayers(v interface{}) (css.Layers, error) {
	var layers css.Layers
	var walk func(v interface{}) error
	walk = func(v interface{}) error {
		switch t := v.(type) {
		case nil:
		case bool:
			if t {
				return fmt.Errorf("style entry must be an object, got true")
			}
		case []interface{}:
			for _, item := range t {
				if err := walk(item); err != nil {
					return err
				}
			}
		case map[string]interface{}:
			layer := css.NewStyle()
			for k, val := range t {
				if s, ok := propertyString(val); ok {
					layer.Set(k, s)
				}
			}
			layers = append(layers, layer)
		default:
			return fmt.Errorf("style entry must be an object, got %T", v)
		}
		return nil
	}
	if err := walk(v); err != nil {
		return nil, err
	}
	return layers, nil
}

// propertyString converts a property value to its layer form. Falsy values
// (0, "", false, null, NaN) count as unset.
func propertyString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case int64:
		if t == 0 {
			return "", false
		}
		return css.FormatNumber(float64(t)), true
	case float64:
		if t == 0 || math.IsNaN(t) {
			return "", false
		}
		return css.FormatNumber(t), true
	}
	return "", false
}

// EvalRequest evaluates an image props object:
//
//	{source: {uri: "..."}, alt: "...", width: 120, height: "50%",
//	 style: [...], imagesMaxWidth: 300}
//
// source may also be a plain string.
func (e *Engine) EvalRequest(src string) (htmlimage.Request, error) {
	v, err := e.eval(src)
	if err != nil {
		return htmlimage.Request{}, err
	}
	props, ok := v.Export().(map[string]interface{})
	if !ok {
		return htmlimage.Request{}, fmt.Errorf("props must be an object, got %T", v.Export())
	}

	var req htmlimage.Request
	switch s := props["source"].(type) {
	case string:
		req.URI = s
	case map[string]interface{}:
		req.URI, _ = s["uri"].(string)
	}
	if req.URI == "" {
		return htmlimage.Request{}, fmt.Errorf("props: source.uri is required")
	}
	req.Alt, _ = props["alt"].(string)
	if w, ok := propertyString(props["width"]); ok {
		req.Width = w
	}
	if h, ok := propertyString(props["height"]); ok {
		req.Height = h
	}
	if mw, ok := propertyString(props["imagesMaxWidth"]); ok {
		if n, ok := css.ParseLength(mw); ok && n > 0 {
			req.MaxWidth = n
		}
	}
	if style, ok := props["style"]; ok {
		layers, err := styleLayers(style)
		if err != nil {
			return htmlimage.Request{}, fmt.Errorf("props.style: %w", err)
		}
		req.Style = layers
	}
	return req, nil
}
