package tree

import (
	"fmt"

	"github.com/agentic-research/canopy/api"
)

// MalformedError describes the first structural defect found by Check.
type MalformedError struct {
	Path   string // index path from the root, e.g. "[0].elements[2]"
	ID     string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s (id %q): %s", e.Path, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Check verifies the tree invariants on externally supplied content: no nil
// nodes, a known kind on every node, widgetType present exactly on widgets,
// and unique non-empty ids. Use it before handing foreign trees to the
// panicking primitives.
func Check(nodes []*api.Node) error {
	seen := make(map[string]string)
	return check(nodes, "", seen)
}

func check(nodes []*api.Node, prefix string, seen map[string]string) error {
	for i, n := range nodes {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		if n == nil {
			return &MalformedError{Path: path, Reason: "null element"}
		}
		if n.ID == "" {
			return &MalformedError{Path: path, Reason: "missing id"}
		}
		if first, dup := seen[n.ID]; dup {
			return &MalformedError{Path: path, ID: n.ID, Reason: "duplicate id, first seen at " + first}
		}
		seen[n.ID] = path
		if !n.Kind.Valid() {
			return &MalformedError{Path: path, ID: n.ID, Reason: fmt.Sprintf("unknown element kind %q", n.Kind)}
		}
		if n.IsWidget() && n.WidgetType == "" {
			return &MalformedError{Path: path, ID: n.ID, Reason: "widget without widgetType"}
		}
		if !n.IsWidget() && n.WidgetType != "" {
			return &MalformedError{Path: path, ID: n.ID, Reason: fmt.Sprintf("%s carries widgetType %q", n.Kind, n.WidgetType)}
		}
		if err := check(n.Children, path+".elements", seen); err != nil {
			return err
		}
	}
	return nil
}

// Normalize replaces nil settings and children with empty values so the tree
// serializes with the same shape the factory produces.
func Normalize(nodes []*api.Node) {
	Walk(nodes, func(n *api.Node, _ int) bool {
		if n.Settings == nil {
			n.Settings = api.Settings{}
		}
		if n.Children == nil {
			n.Children = []*api.Node{}
		}
		return true
	})
}
