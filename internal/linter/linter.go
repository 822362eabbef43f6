// Package linter reports layout problems in a page tree that are legal but
// usually unintended.
package linter

import (
	"fmt"
	"strings"

	"github.com/agentic-research/canopy/api"
)

// Rule names.
const (
	RuleEmptyContainer = "empty-container"
	RuleRootWidget     = "root-widget"
	RuleInnerFlag      = "inner-flag"
	RuleRowOverflow    = "row-overflow"
	RuleDeepNesting    = "deep-nesting"
)

// MaxDepth is the deepest container nesting before RuleDeepNesting fires.
const MaxDepth = 4

type Diagnostic struct {
	Path      string `json:"path"`
	ElementID string `json:"element_id"`
	Rule      string `json:"rule"`
	Message   string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (%s): %s [%s]", d.Path, d.ElementID, d.Message, d.Rule)
}

// Lint walks the tree and returns diagnostics in depth-first order.
func Lint(nodes []*api.Node) []Diagnostic {
	diags := []Diagnostic{}
	lint(nodes, "", 0, nil, &diags)
	return diags
}

func lint(nodes []*api.Node, prefix string, depth int, parent *api.Node, diags *[]Diagnostic) {
	if parent != nil {
		if d, ok := rowOverflow(parent, prefix); ok {
			*diags = append(*diags, d)
		}
	}
	for i, n := range nodes {
		if n == nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", prefix, i)
		report := func(rule, format string, args ...any) {
			*diags = append(*diags, Diagnostic{Path: path, ElementID: n.ID, Rule: rule, Message: fmt.Sprintf(format, args...)})
		}

		switch {
		case n.IsWidget():
			if parent == nil {
				report(RuleRootWidget, "%s widget sits directly in the page root; wrap it in a container", n.WidgetType)
			}
		default:
			if len(n.Children) == 0 {
				report(RuleEmptyContainer, "%s has no children", n.Kind)
			}
			if n.Kind == api.KindContainer && n.IsInner != (parent != nil) {
				report(RuleInnerFlag, "isInner is %t but the container is %s", n.IsInner, placement(parent))
			}
			if depth >= MaxDepth {
				report(RuleDeepNesting, "nested %d levels deep; deep trees are slow to render and hard to edit", depth+1)
			}
		}
		lint(n.Children, path+".elements", depth+1, n, diags)
	}
}

func placement(parent *api.Node) string {
	if parent == nil {
		return "at the page root"
	}
	return "nested"
}

// rowOverflow fires when the percentage widths of a non-wrapping row
// container's children add up to more than the row.
func rowOverflow(parent *api.Node, childPrefix string) (Diagnostic, bool) {
	dir, _ := parent.Settings["flex_direction"].(string)
	if dir != "row" && dir != "row-reverse" {
		return Diagnostic{}, false
	}
	if wrap, _ := parent.Settings["flex_wrap"].(string); wrap == "wrap" {
		return Diagnostic{}, false
	}
	total := 0.0
	for _, c := range parent.Children {
		if c == nil {
			continue
		}
		if pct, ok := percentWidth(c.Settings); ok {
			total += pct
		}
	}
	// Two-decimal rounding of equal shares may exceed 100 slightly.
	if total <= 100.5 {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Path:      strings.TrimSuffix(childPrefix, ".elements"),
		ElementID: parent.ID,
		Rule:      RuleRowOverflow,
		Message:   fmt.Sprintf("children claim %.2f%% of a non-wrapping row", total),
	}, true
}

func percentWidth(s api.Settings) (float64, bool) {
	w, ok := s["width"].(map[string]any)
	if !ok {
		return 0, false
	}
	if unit, _ := w["unit"].(string); unit != "%" {
		return 0, false
	}
	switch size := w["size"].(type) {
	case float64:
		return size, true
	case int:
		return float64(size), true
	}
	return 0, false
}

// Summary counts diagnostics per rule.
func Summary(diags []Diagnostic) map[string]int {
	out := make(map[string]int)
	for _, d := range diags {
		out[d.Rule]++
	}
	return out
}

