package editor

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/query"
	"github.com/agentic-research/canopy/internal/tree"
)

// DocumentResult echoes a document id.
type DocumentResult struct {
	DocumentID string `json:"document_id"`
}

// CreateDocument creates an empty document. Status and kind fall back to the
// store defaults.
func (e *Editor) CreateDocument(ctx context.Context, title, status, kind string) (*DocumentResult, error) {
	const op = "create_document"
	if strings.TrimSpace(title) == "" {
		return nil, required("title")
	}
	id, err := e.docs.CreateDocument(ctx, title, status, kind)
	if err != nil {
		return nil, e.fail(op, title, err, "create document")
	}
	e.done(op, id, logrus.Fields{"title": title})
	return &DocumentResult{DocumentID: id}, nil
}

// SettingsResult lists the document-level keys an update wrote.
type SettingsResult struct {
	DocumentID string   `json:"document_id"`
	Updated    []string `json:"updated"`
}

// UpdateDocumentSettings shallow-merges settings into the document's
// page-level settings.
func (e *Editor) UpdateDocumentSettings(ctx context.Context, documentID string, settings api.Settings) (*SettingsResult, error) {
	const op = "update_document_settings"
	if documentID == "" {
		return nil, required("document_id")
	}
	if len(settings) == 0 {
		return nil, required("settings")
	}

	current, err := e.docs.LoadSettings(ctx, documentID)
	if err != nil {
		return nil, e.fail(op, documentID, err, "load settings of "+documentID)
	}
	if current == nil {
		current = api.Settings{}
	}
	keys := make([]string, 0, len(settings))
	for k, v := range settings.Clone() {
		current[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := e.docs.SaveSettings(ctx, documentID, current); err != nil {
		return nil, e.fail(op, documentID, err, "save settings of "+documentID)
	}
	e.done(op, documentID, logrus.Fields{"keys": len(keys)})
	return &SettingsResult{DocumentID: documentID, Updated: keys}, nil
}

// ClearResult reports how many nodes a clear removed.
type ClearResult struct {
	DocumentID string `json:"document_id"`
	Removed    int    `json:"removed"`
}

// ClearDocumentContent empties the document's tree. Settings are kept.
func (e *Editor) ClearDocumentContent(ctx context.Context, documentID string) (*ClearResult, error) {
	const op = "clear_document_content"
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	removed := tree.Count(nodes)
	if err := e.saveTree(ctx, op, documentID, []*api.Node{}); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"removed": removed})
	return &ClearResult{DocumentID: documentID, Removed: removed}, nil
}

// ImportStructure inserts an externally supplied tree into the document's
// root sequence at position, or replaces the whole tree. Every imported node
// receives a fresh id.
func (e *Editor) ImportStructure(ctx context.Context, documentID string, elements []*api.Node, position int, replace bool) (*ElementsResult, error) {
	const op = "import_structure"
	if len(elements) == 0 {
		return nil, required("elements")
	}
	if err := tree.Check(elements); err != nil {
		return nil, classify("elements", err, "check elements")
	}
	tree.Normalize(elements)

	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	used := tree.IDs(nodes)
	if replace {
		nodes = []*api.Node{}
		used = nil
	}
	imported := tree.ReassignIDs(elements, e.newID, used)
	nest(imported, "")
	nodes = insertAll(nodes, "", imported, position)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	count := tree.Count(imported)
	e.done(op, documentID, logrus.Fields{"count": count, "replace": replace})
	return &ElementsResult{DocumentID: documentID, ElementIDs: rootIDs(imported), Count: count}, nil
}

// ExportResult is a full document, plus selector matches when a selector
// was given.
type ExportResult struct {
	Document *api.Document `json:"document"`
	Selector string        `json:"selector,omitempty"`
	Matches  []any         `json:"matches,omitempty"`
}

// ExportDocument returns the document with its tree and settings. A
// non-empty selector is a JSONPath evaluated over the element list.
func (e *Editor) ExportDocument(ctx context.Context, documentID, selector string) (*ExportResult, error) {
	const op = "export_document"
	if documentID == "" {
		return nil, required("document_id")
	}
	doc, err := e.docs.Document(ctx, documentID)
	if err != nil {
		return nil, e.fail(op, documentID, err, "load document "+documentID)
	}
	if doc.Elements == nil {
		doc.Elements = []*api.Node{}
	}
	out := &ExportResult{Document: doc}
	if selector != "" {
		matches, err := query.Select(doc.Elements, selector)
		if err != nil {
			return nil, classify("selector", err, "evaluate selector")
		}
		out.Selector = selector
		out.Matches = matches
	}
	e.done(op, documentID, logrus.Fields{"count": tree.Count(doc.Elements), "matches": len(out.Matches)})
	return out, nil
}

// OutlineEntry is one node of a document outline.
type OutlineEntry struct {
	ID         string   `json:"id"`
	Kind       api.Kind `json:"kind"`
	WidgetType string   `json:"widget_type,omitempty"`
	Depth      int      `json:"depth"`
	Children   int      `json:"children"`
}

// StructureResult is the outline of a document in depth-first order.
type StructureResult struct {
	DocumentID string         `json:"document_id"`
	Count      int            `json:"count"`
	Outline    []OutlineEntry `json:"outline"`
}

// GetDocumentStructure returns a compact depth-first outline of the tree,
// without settings.
func (e *Editor) GetDocumentStructure(ctx context.Context, documentID string) (*StructureResult, error) {
	nodes, err := e.loadTree(ctx, "get_document_structure", documentID)
	if err != nil {
		return nil, err
	}
	outline := make([]OutlineEntry, 0, len(nodes))
	tree.Walk(nodes, func(n *api.Node, depth int) bool {
		outline = append(outline, OutlineEntry{
			ID:         n.ID,
			Kind:       n.Kind,
			WidgetType: n.WidgetType,
			Depth:      depth,
			Children:   len(n.Children),
		})
		return true
	})
	return &StructureResult{DocumentID: documentID, Count: len(outline), Outline: outline}, nil
}
