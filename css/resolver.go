// Package css implements the simplified stylesheet support the converter
// needs: class rules from <style> blocks plus inline style attributes.
// Only simple single-class selectors (".name") are recognized; everything
// else is skipped on purpose.
package css

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"hdc/htmldoc"
)

// Props maps a lowercase CSS property name to its raw value.
type Props map[string]string

// Rules maps a class name to its declared properties. One Rules value is
// built per conversion and threaded through the traversal; it is never
// shared between conversions.
type Rules struct {
	classes map[string]Props
	// Selectors that were dropped because they are out of the supported
	// subset. Kept for diagnostics only.
	Skipped []string
}

// Parser parses stylesheet text into Rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// Parse extracts single-class rules from stylesheet text. Malformed
// fragments and unsupported selectors are dropped, never reported as errors.
func (p *Parser) Parse(data string) *Rules {
	rules := &Rules{classes: make(map[string]Props)}
	if data == "" {
		return rules
	}

	input := parse.NewInput(bytes.NewReader([]byte(data)))
	parser := css.NewParser(input, false)

	var pending []string
	for {
		gt, _, tok := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("Stylesheet parse ended", zap.Error(err))
			}
			return rules

		case css.BeginAtRuleGrammar:
			p.skipBlock(parser)

		case css.QualifiedRuleGrammar:
			// comma-separated selector in a group, ruleset follows
			pending = append(pending, selectorStrings(tok, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors := append(pending, selectorStrings(tok, parser.Values())...)
			pending = nil
			props := p.parseDeclarations(parser)
			for _, sel := range selectors {
				if class, ok := simpleClass(sel); ok {
					merged, exists := rules.classes[class]
					if !exists {
						merged = make(Props, len(props))
						rules.classes[class] = merged
					}
					for k, v := range props {
						merged[k] = v
					}
				} else {
					rules.Skipped = append(rules.Skipped, sel)
					p.log.Debug("Skipping unsupported selector", zap.String("selector", sel))
				}
			}
		}
	}
}

// Class returns the property map declared for the given class name.
func (r *Rules) Class(name string) Props {
	return r.classes[name]
}

// Resolve computes the effective style map for an element: class rules in
// class-attribute order first, then the inline style attribute on top.
// The result is owned by the caller and never cached.
func (r *Rules) Resolve(n *html.Node) Props {
	merged := make(Props)
	for _, class := range htmldoc.Classes(n) {
		for k, v := range r.classes[class] {
			merged[k] = v
		}
	}
	for k, v := range ParseStyleAttr(htmldoc.Attr(n, "style")) {
		merged[k] = v
	}
	return merged
}

// ParseStyleAttr converts an inline style attribute ("a:b; c:d") into Props.
// Fragments without a colon are dropped.
func ParseStyleAttr(style string) Props {
	out := make(Props)
	for part := range strings.SplitSeq(style, ";") {
		k, v, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" {
			out[k] = v
		}
	}
	return out
}

// Pixels extracts a pixel length from the named property ("192px" -> 192).
// The second return is false when the property is absent or not a pixel
// length.
func (props Props) Pixels(name string) (int, bool) {
	val, ok := props[strings.ToLower(name)]
	if !ok {
		return 0, false
	}
	val = strings.TrimSpace(val)
	cut, found := cutSuffixFold(val, "px")
	if !found {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cut), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int(f), true
}

func cutSuffixFold(s, suffix string) (string, bool) {
	if len(s) < len(suffix) || !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}

// simpleClass reports whether the selector is a bare single-class selector
// and returns the class name.
func simpleClass(sel string) (string, bool) {
	sel = strings.TrimSpace(sel)
	if !strings.HasPrefix(sel, ".") {
		return "", false
	}
	name := sel[1:]
	if name == "" || strings.ContainsAny(name, " \t\n.:#[>+~") {
		return "", false
	}
	return name, true
}

func selectorStrings(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	var out []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *Parser) parseDeclarations(parser *css.Parser) Props {
	props := make(Props)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props

		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			var parts []string
			for _, v := range parser.Values() {
				if v.TokenType != css.WhitespaceToken {
					parts = append(parts, string(v.Data))
				}
			}
			if name != "" && len(parts) > 0 {
				props[name] = strings.Join(parts, " ")
			}
		}
	}
}

func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}
