package htmlconv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Rule pairs a compiled selector with its declarations.
type Rule struct {
	Selector     cascadia.Sel
	Declarations []Declaration
	order        int
}

// StyleSheet is the small subset of CSS the converter understands: plain
// rule sets with selector groups. At-rules are skipped.
type StyleSheet struct {
	rules    []Rule
	Warnings []string
}

// ParseStyleSheet parses css. Rules that cannot be parsed are skipped and
// reported in Warnings; parsing itself never fails.
func ParseStyleSheet(css string) *StyleSheet {
	sheet := &StyleSheet{}
	css = stripComments(css)

	order := 0
	for _, block := range strings.Split(css, "}") {
		head, body, ok := strings.Cut(block, "{")
		if !ok {
			if strings.TrimSpace(block) != "" {
				sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("dangling css text %q", strings.TrimSpace(block)))
			}
			continue
		}
		head = strings.TrimSpace(head)
		if head == "" || strings.HasPrefix(head, "@") {
			sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("unsupported css block %q", head))
			continue
		}

		decls := parseDeclarations(body)
		if len(decls) == 0 {
			continue
		}

		group, err := cascadia.ParseGroup(head)
		if err != nil {
			sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("invalid selector %q: %v", head, err))
			continue
		}
		for _, sel := range group {
			sheet.rules = append(sheet.rules, Rule{Selector: sel, Declarations: decls, order: order})
			order++
		}
	}

	// Cascade order: lower specificity first, source order breaks ties.
	sort.SliceStable(sheet.rules, func(i, j int) bool {
		si, sj := sheet.rules[i].Selector.Specificity(), sheet.rules[j].Selector.Specificity()
		if si != sj {
			return si.Less(sj)
		}
		return sheet.rules[i].order < sheet.rules[j].order
	})
	return sheet
}

// Rules returns the parsed rules in cascade order.
func (s *StyleSheet) Rules() []Rule {
	return s.rules
}

// Declarations returns every declaration that applies to n, in cascade
// order, so later entries win.
func (s *StyleSheet) Declarations(n *html.Node) []Declaration {
	if s == nil || n == nil || n.Type != html.ElementNode {
		return nil
	}
	var out []Declaration
	for _, r := range s.rules {
		if r.Selector.Match(n) {
			out = append(out, r.Declarations...)
		}
	}
	return out
}

func parseDeclarations(body string) []Declaration {
	var decls []Declaration
	for _, part := range strings.Split(body, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if prop == "" || value == "" {
			continue
		}
		decls = append(decls, Declaration{Property: prop, Value: value})
	}
	return decls
}

func stripComments(css string) string {
	var b strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			b.WriteString(css)
			return b.String()
		}
		b.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		css = css[start+2+end+2:]
	}
}
