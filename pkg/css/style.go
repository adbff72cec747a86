package css

import (
	"strconv"
	"strings"
)

// Style is a single style layer: a set of property declarations.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

// StyleOf builds a layer from alternating property/value pairs.
func StyleOf(pairs ...string) *Style {
	s := NewStyle()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

func (s *Style) Get(property string) (string, bool) {
	if s == nil {
		return "", false
	}
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// ParseLength parses a length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// IsPercentage reports whether a sizing value carries a percentage marker.
func IsPercentage(val string) bool {
	return strings.Contains(val, "%")
}

// ParsePixels reads the leading integer of a sizing value, discarding any
// fractional part or unit suffix ("120.7" and "120px" both give 120).
// It fails when the value does not start with a digit after optional
// whitespace and sign.
func ParsePixels(val string) (int, bool) {
	val = strings.TrimLeft(val, " \t\n\r\f\v")
	neg := false
	if val != "" && (val[0] == '+' || val[0] == '-') {
		neg = val[0] == '-'
		val = val[1:]
	}
	end := 0
	for end < len(val) && val[end] >= '0' && val[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(val[:end])
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// FormatNumber renders a numeric property the way a style layer stores it.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseInlineStyle parses a style attribute ("width: 10px; height: 50%")
// into a single layer. Later declarations of the same property win.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for property, value := range parseDeclarations(styleAttr) {
		style.Set(property, value)
	}
	return style
}
