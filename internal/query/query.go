// Package query evaluates JSONPath selectors over exported page trees.
package query

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/ohler55/ojg/jp"

	"github.com/agentic-research/canopy/api"
)

// Generic converts a tree to plain maps and slices, the shape JSONPath
// evaluates against. Field names are the persisted ones (id, elType,
// widgetType, isInner, settings, elements).
func Generic(nodes []*api.Node) (any, error) {
	if nodes == nil {
		nodes = []*api.Node{}
	}
	raw, err := json.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return out, nil
}

// SelectorError reports a selector that does not parse.
type SelectorError struct {
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid jsonpath '%s': %v", e.Selector, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

// Select evaluates selector against the tree and returns every match,
// e.g. `$..[?(@.widgetType == 'heading')].id`.
func Select(nodes []*api.Node, selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, &SelectorError{Selector: selector, Err: err}
	}
	root, err := Generic(nodes)
	if err != nil {
		return nil, err
	}
	results := x.Get(root)
	if results == nil {
		results = []any{}
	}
	return results, nil
}
