package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"hdc/css"
)

func parseFragment(t *testing.T, fragment string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}
	// html.Parse wraps everything in html/head/body; find the first element
	// inside body.
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode {
					return c
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	n := find(root)
	if n == nil {
		t.Fatalf("no element in fragment %q", fragment)
	}
	return n
}

func TestParse_SimpleClassRules(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	rules := p.Parse(`
		.title { font-size: 20px; color: red; }
		.note { color: blue }
	`)

	if got := rules.Class("title")["font-size"]; got != "20px" {
		t.Errorf("font-size = %q, want 20px", got)
	}
	if got := rules.Class("title")["color"]; got != "red" {
		t.Errorf("color = %q, want red", got)
	}
	if got := rules.Class("note")["color"]; got != "blue" {
		t.Errorf("note color = %q, want blue", got)
	}
}

func TestParse_SkipsUnsupportedSelectors(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	rules := p.Parse(`
		p { margin: 0; }
		#main { width: 100px; }
		.a .b { color: red; }
		.a:hover { color: red; }
		div.c { color: red; }
		.ok { color: green; }
	`)

	if rules.Class("ok") == nil {
		t.Fatal("expected .ok rule to survive")
	}
	for _, name := range []string{"a", "b", "c", "main", "hover"} {
		if rules.Class(name) != nil {
			t.Errorf("unexpected rule for %q", name)
		}
	}
	if len(rules.Skipped) != 5 {
		t.Errorf("skipped %d selectors, want 5: %v", len(rules.Skipped), rules.Skipped)
	}
}

func TestParse_SelectorGroups(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	rules := p.Parse(`.a, .b { color: red; } .a { font-weight: bold; }`)

	for _, name := range []string{"a", "b"} {
		if got := rules.Class(name)["color"]; got != "red" {
			t.Errorf("%s color = %q, want red", name, got)
		}
	}
	if got := rules.Class("a")["font-weight"]; got != "bold" {
		t.Errorf("later declarations should merge, got %q", got)
	}
	if rules.Class("b")["font-weight"] != "" {
		t.Error("font-weight must not leak into .b")
	}
}

func TestParse_SkipsAtRules(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	rules := p.Parse(`
		@media print { .hidden { display: none; } }
		.shown { color: black; }
	`)

	if rules.Class("hidden") != nil {
		t.Error("rules inside at-blocks must be ignored")
	}
	if rules.Class("shown") == nil {
		t.Error("rule after at-block was lost")
	}
}

func TestParse_MalformedInput(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	for _, data := range []string{"", "{}{", ".a { color", "garbage %%%", ".a red; }"} {
		rules := p.Parse(data)
		if rules == nil {
			t.Errorf("Parse(%q) returned nil", data)
		}
	}
}

func TestResolve_MergeOrder(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	rules := p.Parse(`.a { color: red; width: 10px; } .b { color: blue; }`)

	n := parseFragment(t, `<div class="a b" style="width: 20px"></div>`)
	props := rules.Resolve(n)

	// later class wins, inline wins over classes
	if got := props["color"]; got != "blue" {
		t.Errorf("color = %q, want blue", got)
	}
	if got := props["width"]; got != "20px" {
		t.Errorf("width = %q, want 20px", got)
	}
}

func TestResolve_UnknownClass(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	rules := p.Parse(``)

	n := parseFragment(t, `<div class="missing"></div>`)
	if props := rules.Resolve(n); len(props) != 0 {
		t.Errorf("expected empty props, got %v", props)
	}
}

func TestParseStyleAttr(t *testing.T) {
	props := css.ParseStyleAttr("Color: Red; width:192px ;; bogus ; x:")
	if got := props["color"]; got != "Red" {
		t.Errorf("color = %q, want Red", got)
	}
	if got := props["width"]; got != "192px" {
		t.Errorf("width = %q, want 192px", got)
	}
	if _, ok := props["bogus"]; ok {
		t.Error("fragment without colon must be dropped")
	}
}

func TestProps_Pixels(t *testing.T) {
	tests := []struct {
		value  string
		want   int
		wantOK bool
	}{
		{"192px", 192, true},
		{" 10px ", 10, true},
		{"10.5px", 10, true},
		{"10PX", 10, true},
		{"10", 0, false},
		{"10em", 0, false},
		{"-5px", 0, false},
		{"px", 0, false},
	}
	for _, tc := range tests {
		props := css.Props{"width": tc.value}
		got, ok := props.Pixels("width")
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("Pixels(%q) = %d, %v; want %d, %v", tc.value, got, ok, tc.want, tc.wantOK)
		}
	}
	if _, ok := (css.Props{}).Pixels("width"); ok {
		t.Error("absent property must not resolve")
	}
}
