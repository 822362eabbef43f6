package editor

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/element"
	"github.com/agentic-research/canopy/internal/tree"
)

// MaxSectionColumns bounds AddSection.
const MaxSectionColumns = 10

// AddContainer inserts an empty flex container under parentID (empty for
// the page root) at position. Negative positions append.
func (e *Editor) AddContainer(ctx context.Context, documentID, parentID string, position int, settings api.Settings) (*ElementResult, error) {
	const op = "add_container"
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	if err := checkParent(nodes, documentID, parentID); err != nil {
		return nil, err
	}

	f := e.factory(nodes)
	c := f.Container(settings)
	c.IsInner = parentID != ""
	nodes, _ = tree.Insert(nodes, parentID, c, position)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"element_id": c.ID, "parent_id": parentID})
	return &ElementResult{DocumentID: documentID, ElementID: c.ID}, nil
}

// SectionResult echoes a legacy section and its columns.
type SectionResult struct {
	DocumentID string   `json:"document_id"`
	ElementID  string   `json:"element_id"`
	ColumnIDs  []string `json:"column_ids"`
}

// AddSection inserts a legacy section with columns equal-width columns into
// the page root at position.
func (e *Editor) AddSection(ctx context.Context, documentID string, columns, position int, settings api.Settings) (*SectionResult, error) {
	const op = "add_section"
	if columns < 1 || columns > MaxSectionColumns {
		return nil, invalid("columns", "columns must be between 1 and %d, got %d", MaxSectionColumns, columns)
	}
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}

	f := e.factory(nodes)
	size := int(math.Round(100 / float64(columns)))
	cols := make([]*api.Node, columns)
	for i := range cols {
		cols[i] = f.Column(api.Settings{"column_size": size})
		cols[i].IsInner = true
	}
	sec := f.Section(settings, cols...)
	nodes, _ = tree.Insert(nodes, "", sec, position)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"element_id": sec.ID, "columns": columns})
	return &SectionResult{DocumentID: documentID, ElementID: sec.ID, ColumnIDs: rootIDs(cols)}, nil
}

// MoveElement moves elementID, with its subtree, under newParentID (empty for
// the page root) at position.
func (e *Editor) MoveElement(ctx context.Context, documentID, elementID, newParentID string, position int) (*ElementResult, error) {
	const op = "move_element"
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	n, err := findElement(nodes, documentID, elementID)
	if err != nil {
		return nil, err
	}
	if err := checkParent(nodes, documentID, newParentID); err != nil {
		return nil, err
	}
	if newParentID != "" && tree.Contains(n, newParentID) {
		return nil, conflict(newParentID, "cannot move element %q into itself or its own descendant %q", elementID, newParentID)
	}

	nodes, _ = tree.Remove(nodes, elementID)
	nest([]*api.Node{n}, newParentID)
	nodes, _ = tree.Insert(nodes, newParentID, n, position)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"element_id": elementID, "parent_id": newParentID, "position": position})
	return &ElementResult{DocumentID: documentID, ElementID: elementID}, nil
}

// RemoveResult reports the removed element and the size of its subtree.
type RemoveResult struct {
	DocumentID string `json:"document_id"`
	ElementID  string `json:"element_id"`
	Removed    int    `json:"removed"`
}

// RemoveElement deletes elementID and its subtree.
func (e *Editor) RemoveElement(ctx context.Context, documentID, elementID string) (*RemoveResult, error) {
	const op = "remove_element"
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	n, err := findElement(nodes, documentID, elementID)
	if err != nil {
		return nil, err
	}
	removed := tree.Count([]*api.Node{n})
	nodes, _ = tree.Remove(nodes, elementID)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"element_id": elementID, "removed": removed})
	return &RemoveResult{DocumentID: documentID, ElementID: elementID, Removed: removed}, nil
}

// DuplicateResult names the source element and its copy.
type DuplicateResult struct {
	DocumentID string `json:"document_id"`
	SourceID   string `json:"source_id"`
	ElementID  string `json:"element_id"`
	Count      int    `json:"count"`
}

// DuplicateElement inserts a copy of elementID, with fresh ids at every
// depth, immediately after the original in the same sequence.
func (e *Editor) DuplicateElement(ctx context.Context, documentID, elementID string) (*DuplicateResult, error) {
	const op = "duplicate_element"
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	n, err := findElement(nodes, documentID, elementID)
	if err != nil {
		return nil, err
	}

	dup := tree.ReassignNodeIDs(n, e.newID, tree.IDs(nodes))
	nodes, ok := tree.InsertAfter(nodes, elementID, dup)
	if !ok {
		return nil, notFound(elementID, "element %q not found in document %q", elementID, documentID)
	}

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	count := tree.Count([]*api.Node{dup})
	e.done(op, documentID, logrus.Fields{"source_id": elementID, "element_id": dup.ID, "count": count})
	return &DuplicateResult{DocumentID: documentID, SourceID: elementID, ElementID: dup.ID, Count: count}, nil
}

// AddWidget validates settings against widgetType's schema and inserts a new
// widget under parentID at position. Widgets always live inside a container.
func (e *Editor) AddWidget(ctx context.Context, documentID, parentID, widgetType string, position int, settings api.Settings) (*ElementResult, error) {
	const op = "add_widget"
	if widgetType == "" {
		return nil, required("widget_type")
	}
	if parentID == "" {
		return nil, required("parent_id")
	}
	if err := e.schemas.Validate(ctx, widgetType, settings); err != nil {
		return nil, e.fail(op, widgetType, err, "validate settings")
	}

	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	if err := checkParent(nodes, documentID, parentID); err != nil {
		return nil, err
	}

	w := e.factory(nodes).Widget(widgetType, settings)
	nodes, _ = tree.Insert(nodes, parentID, w, position)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"element_id": w.ID, "widget_type": widgetType, "parent_id": parentID})
	return &ElementResult{DocumentID: documentID, ElementID: w.ID}, nil
}

// UpdateWidget shallow-merges settings into widget elementID after
// validating them against the widget's own type.
func (e *Editor) UpdateWidget(ctx context.Context, documentID, elementID string, settings api.Settings) (*ElementResult, error) {
	const op = "update_widget"
	if len(settings) == 0 {
		return nil, required("settings")
	}
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	n, err := findElement(nodes, documentID, elementID)
	if err != nil {
		return nil, err
	}
	if !n.IsWidget() {
		return nil, conflict(elementID, "element %q is a %s, not a widget", elementID, n.Kind)
	}
	if err := e.schemas.Validate(ctx, n.WidgetType, settings); err != nil {
		return nil, e.fail(op, n.WidgetType, err, "validate settings")
	}
	tree.UpdateSettings(nodes, elementID, settings)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"element_id": elementID, "keys": len(settings)})
	return &ElementResult{DocumentID: documentID, ElementID: elementID}, nil
}

// factory returns an element factory that avoids every id in nodes.
func (e *Editor) factory(nodes []*api.Node) *element.Factory {
	f := element.New(tree.IDs(nodes))
	f.NewID = e.newID
	return f
}
