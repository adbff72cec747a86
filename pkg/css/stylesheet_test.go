package css

import "testing"

func TestParseStylesheet_SingleRule(t *testing.T) {
	css := `img { width: 100px; }`
	stylesheet, err := ParseStylesheet(css)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stylesheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(stylesheet.Rules))
	}

	rule := stylesheet.Rules[0]
	if rule.Selector.Element != "img" {
		t.Errorf("expected selector 'img', got '%s'", rule.Selector.Element)
	}
	if rule.Selector.Specificity != 1 {
		t.Errorf("expected specificity 1, got %d", rule.Selector.Specificity)
	}
	if rule.Declarations["width"] != "100px" {
		t.Errorf("expected width='100px', got '%s'", rule.Declarations["width"])
	}
}

func TestParseStylesheet_SelectorKinds(t *testing.T) {
	stylesheet, err := ParseStylesheet(`
		img.hero { width: 1px; }
		#logo { width: 2px; }
		.thumb.small { width: 3px; }
		* { width: 4px; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{11, 100, 20, 0}
	if len(stylesheet.Rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(stylesheet.Rules))
	}
	for i, spec := range want {
		if got := stylesheet.Rules[i].Selector.Specificity; got != spec {
			t.Errorf("rule %d (%s): expected specificity %d, got %d",
				i, stylesheet.Rules[i].Selector.Raw, spec, got)
		}
	}
}

func TestParseStylesheet_GroupsAndComments(t *testing.T) {
	stylesheet, err := ParseStylesheet(`
		/* thumbnails */
		img, .thumb { height: 50%; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stylesheet.Rules) != 2 {
		t.Fatalf("expected 2 rules from group, got %d", len(stylesheet.Rules))
	}
	if stylesheet.Rules[1].Order != 1 {
		t.Errorf("expected source order 1, got %d", stylesheet.Rules[1].Order)
	}
}

func TestParseStylesheet_SkipsUnsupported(t *testing.T) {
	stylesheet, err := ParseStylesheet(`
		div > img { width: 1px; }
		@media print { img { width: 2px; } }
		a:hover { color: red; }
		img { width: 3px; }
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stylesheet.Rules) != 1 {
		t.Fatalf("expected only the plain rule to survive, got %d", len(stylesheet.Rules))
	}
	if stylesheet.Rules[0].Declarations["width"] != "3px" {
		t.Errorf("unexpected surviving rule: %+v", stylesheet.Rules[0])
	}
}

func TestParseStylesheet_Empty(t *testing.T) {
	stylesheet, err := ParseStylesheet("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stylesheet.Rules) != 0 {
		t.Errorf("expected no rules, got %d", len(stylesheet.Rules))
	}
}
