package css

import (
	"sort"
	"strings"
)

// Element is the view of a document node the cascade needs.
type Element interface {
	TagName() string
	Attribute(name string) (string, bool)
}

// MatchesSelector returns true if the element matches the compound selector.
func MatchesSelector(el Element, sel Selector) bool {
	if sel.Element != "" && sel.Element != "*" && !strings.EqualFold(el.TagName(), sel.Element) {
		return false
	}
	if sel.ID != "" {
		if id, ok := el.Attribute("id"); !ok || id != sel.ID {
			return false
		}
	}
	if len(sel.Classes) > 0 {
		classAttr, ok := el.Attribute("class")
		if !ok {
			return false
		}
		have := strings.Fields(classAttr)
		for _, want := range sel.Classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// ComputeLayers returns the style layers that apply to el, lowest priority
// first: matching rules ordered by specificity then source order, then the
// inline style attribute as the final layer.
func ComputeLayers(el Element, stylesheets []*Stylesheet) Layers {
	type match struct {
		rule  Rule
		sheet int
	}
	var matches []match
	for si, sheet := range stylesheets {
		if sheet == nil {
			continue
		}
		for _, rule := range sheet.Rules {
			if MatchesSelector(el, rule.Selector) {
				matches = append(matches, match{rule: rule, sheet: si})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.rule.Selector.Specificity != b.rule.Selector.Specificity {
			return a.rule.Selector.Specificity < b.rule.Selector.Specificity
		}
		if a.sheet != b.sheet {
			return a.sheet < b.sheet
		}
		return a.rule.Order < b.rule.Order
	})

	layers := make(Layers, 0, len(matches)+1)
	for _, m := range matches {
		layer := NewStyle()
		for k, v := range m.rule.Declarations {
			layer.Set(k, v)
		}
		layers = append(layers, layer)
	}

	if styleAttr, ok := el.Attribute("style"); ok && strings.TrimSpace(styleAttr) != "" {
		layers = append(layers, ParseInlineStyle(styleAttr))
	}
	return layers
}
