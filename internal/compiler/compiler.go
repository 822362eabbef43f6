// Package compiler materializes a declarative structure description into
// page-tree nodes.
//
// Under a row-direction parent, N > 1 siblings share the row equally: each
// receives content_width=full and width={size: round(100/N, 2), unit: "%"}
// unless it already sets a width, flex_wrap or a flex grow/size override.
// Those keys belong to the caller: an item carrying any of them is left
// alone, and the compiler never sets flex_wrap at all.
package compiler

import (
	"fmt"
	"math"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/element"
)

// Item types the compiler materializes.
const (
	TypeContainer = "container"
	TypeWidget    = "widget"
)

// CallerOwnedKeys suppress equal-width inference on the item carrying them.
var CallerOwnedKeys = []string{"width", "flex_wrap", "_flex_size", "_flex_grow", "_flex_shrink"}

// SkipError reports a structure item the compiler could not materialize.
// It is only returned in strict mode; permissive mode drops such items.
type SkipError struct {
	Path   string
	Reason string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("structure item %s: %s", e.Path, e.Reason)
}

// Compiler turns structure items into nodes via an element factory.
type Compiler struct {
	factory *element.Factory
	// Strict turns silently skipped items (widgets without widgetType,
	// unknown item types) into a SkipError.
	Strict bool
}

// Result is the output of one compile: the root-level nodes and the number
// of nodes materialized at every depth.
type Result struct {
	Elements []*api.Node
	Count    int
	// Skipped lists the paths of items dropped in permissive mode.
	Skipped []string
}

// New returns a permissive compiler minting nodes with f.
func New(f *element.Factory) *Compiler {
	return &Compiler{factory: f}
}

// Compile materializes items as a page-root sequence.
func (c *Compiler) Compile(items []api.StructureItem) (*Result, error) {
	res := &Result{}
	nodes, err := c.compile(items, false, "", "", res)
	if err != nil {
		return nil, err
	}
	res.Elements = nodes
	return res, nil
}

func (c *Compiler) compile(items []api.StructureItem, isInner bool, parentDirection, prefix string, res *Result) ([]*api.Node, error) {
	isRowParent := parentDirection == "row" || parentDirection == "row-reverse"
	var share float64
	distribute := isRowParent && len(items) > 1
	if distribute {
		share = EqualShare(len(items))
	}

	nodes := make([]*api.Node, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", prefix, i)

		settings := item.Settings.Clone()
		if settings == nil {
			settings = api.Settings{}
		}
		if distribute && !hasCallerOwnedKey(settings) {
			settings["content_width"] = "full"
			settings["width"] = map[string]any{"size": share, "unit": "%"}
		}

		switch item.Type {
		case TypeContainer:
			direction, _ := item.Settings["flex_direction"].(string)
			children, err := c.compile(item.Children, true, direction, path+".children", res)
			if err != nil {
				return nil, err
			}
			n := c.factory.Container(settings, children...)
			n.IsInner = isInner
			nodes = append(nodes, n)
			res.Count++
		case TypeWidget:
			if item.WidgetType == "" {
				if err := c.skip(res, path, "widget without widgetType"); err != nil {
					return nil, err
				}
				continue
			}
			nodes = append(nodes, c.factory.Widget(item.WidgetType, settings))
			res.Count++
		default:
			if err := c.skip(res, path, fmt.Sprintf("unsupported item type %q", item.Type)); err != nil {
				return nil, err
			}
		}
	}
	return nodes, nil
}

// skip records a dropped item, or fails in strict mode.
// TODO(product): permissive skipping hides caller mistakes; revisit the default once strict mode has usage data.
func (c *Compiler) skip(res *Result, path, reason string) error {
	if c.Strict {
		return &SkipError{Path: path, Reason: reason}
	}
	res.Skipped = append(res.Skipped, path)
	return nil
}

// EqualShare returns 100/n rounded to two decimals.
func EqualShare(n int) float64 {
	return math.Round(100/float64(n)*100) / 100
}

func hasCallerOwnedKey(s api.Settings) bool {
	for _, k := range CallerOwnedKeys {
		if _, ok := s[k]; ok {
			return true
		}
	}
	return false
}
