package css

import (
	"fmt"
	"strings"
)

// Selector is a compound selector such as "img", ".hero", "#logo" or
// "img.hero".
type Selector struct {
	Raw         string
	Element     string
	ID          string
	Classes     []string
	Specificity int
}

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations map[string]string // property -> value
	Order        int               // position in the stylesheet
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS stylesheet content into rules. Malformed rules
// and at-rules are skipped.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{
		Rules: make([]Rule, 0),
	}

	css = strings.TrimSpace(stripComments(css))
	if css == "" {
		return stylesheet, nil
	}

	order := 0
	for _, ruleStr := range splitRules(css) {
		rules, err := parseRule(ruleStr)
		if err != nil {
			continue
		}
		for _, r := range rules {
			r.Order = order
			order++
			stylesheet.Rules = append(stylesheet.Rules, r)
		}
	}

	return stylesheet, nil
}

func stripComments(css string) string {
	var b strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start == -1 {
			b.WriteString(css)
			return b.String()
		}
		b.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end == -1 {
			return b.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into individual rules
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0

	for i, ch := range css {
		if ch == '{' {
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 {
				ruleStr := css[start : i+1]
				if strings.TrimSpace(ruleStr) != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			} else if depth < 0 {
				depth = 0
				start = i + 1
			}
		}
	}

	return rules
}

// parseRule parses a single CSS rule. A selector group ("a, b") yields one
// rule per selector.
func parseRule(ruleStr string) ([]Rule, error) {
	bracePos := strings.Index(ruleStr, "{")
	if bracePos == -1 {
		return nil, fmt.Errorf("no opening brace found")
	}

	selectorStr := strings.TrimSpace(ruleStr[:bracePos])
	if selectorStr == "" {
		return nil, fmt.Errorf("empty selector")
	}
	if strings.HasPrefix(selectorStr, "@") {
		return nil, fmt.Errorf("unsupported at-rule %q", selectorStr)
	}

	declEnd := strings.LastIndex(ruleStr, "}")
	if declEnd == -1 || declEnd < bracePos {
		declEnd = len(ruleStr)
	}
	declarations := parseDeclarations(ruleStr[bracePos+1 : declEnd])

	var rules []Rule
	for _, raw := range strings.Split(selectorStr, ",") {
		sel, err := parseSelector(raw)
		if err != nil {
			continue
		}
		rules = append(rules, Rule{Selector: sel, Declarations: declarations})
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("no usable selector in %q", selectorStr)
	}
	return rules, nil
}

// parseSelector parses a compound selector. Combinators are not supported.
func parseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	if raw == "" || strings.ContainsAny(raw, " >+~[:") {
		return sel, fmt.Errorf("unsupported selector %q", raw)
	}

	i := 0
	readName := func() string {
		start := i
		for i < len(raw) && raw[i] != '.' && raw[i] != '#' {
			i++
		}
		return raw[start:i]
	}

	if raw[0] != '.' && raw[0] != '#' {
		sel.Element = strings.ToLower(readName())
		if sel.Element != "*" {
			sel.Specificity++
		}
	}
	for i < len(raw) {
		marker := raw[i]
		i++
		name := readName()
		if name == "" {
			return sel, fmt.Errorf("empty name in selector %q", raw)
		}
		switch marker {
		case '#':
			sel.ID = name
			sel.Specificity += 100
		case '.':
			sel.Classes = append(sel.Classes, name)
			sel.Specificity += 10
		}
	}
	return sel, nil
}

// parseDeclarations parses CSS declarations into a map
func parseDeclarations(declStr string) map[string]string {
	declarations := make(map[string]string)

	for _, part := range strings.Split(declStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		colonPos := strings.Index(part, ":")
		if colonPos == -1 {
			continue
		}

		property := strings.ToLower(strings.TrimSpace(part[:colonPos]))
		value := strings.TrimSpace(part[colonPos+1:])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))

		if property != "" && value != "" {
			declarations[property] = value
		}
	}

	return declarations
}
