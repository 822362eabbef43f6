// Package editor implements the mutation operations over documents.
//
// Every operation is one read-modify-write cycle: load the full tree, check
// all inputs, mutate an in-memory copy, save the whole tree back. Nothing is
// saved when any step fails. Failures are *Error values carrying a Kind.
package editor

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/ident"
	"github.com/agentic-research/canopy/internal/logging"
	"github.com/agentic-research/canopy/internal/schema"
	"github.com/agentic-research/canopy/internal/store"
	"github.com/agentic-research/canopy/internal/templates"
	"github.com/agentic-research/canopy/internal/tree"
)

// Options tune an Editor.
type Options struct {
	// StrictStructure makes BuildPage reject structure items the compiler
	// would otherwise skip.
	StrictStructure bool
	// NewID overrides the element id source. Defaults to ident.Generate.
	NewID ident.Source
	// Logger defaults to a discard logger.
	Logger *logrus.Entry
}

// Editor runs mutation operations against a document store.
type Editor struct {
	docs      store.Documents
	tokens    store.Tokens
	schemas   *schema.Generator
	templates *templates.Library
	strict    bool
	newID     ident.Source
	log       *logrus.Entry
}

// New wires an editor. tokens and lib may be nil when the token and template
// operations are not needed; those operations then fail as upstream failures.
func New(docs store.Documents, tokens store.Tokens, schemas *schema.Generator, lib *templates.Library, opts Options) *Editor {
	e := &Editor{
		docs:      docs,
		tokens:    tokens,
		schemas:   schemas,
		templates: lib,
		strict:    opts.StrictStructure,
		newID:     opts.NewID,
		log:       opts.Logger,
	}
	if e.newID == nil {
		e.newID = ident.Generate
	}
	if e.log == nil {
		e.log = logging.Discard()
	}
	return e
}

// Schemas exposes the schema generator backing validation.
func (e *Editor) Schemas() *schema.Generator { return e.schemas }

// ElementResult echoes the element an operation created or touched.
type ElementResult struct {
	DocumentID string `json:"document_id"`
	ElementID  string `json:"element_id"`
}

// ElementsResult lists root ids of inserted subtrees and the number of nodes
// they hold at every depth.
type ElementsResult struct {
	DocumentID string   `json:"document_id"`
	ElementIDs []string `json:"element_ids"`
	Count      int      `json:"count"`
}

func (e *Editor) loadTree(ctx context.Context, op, documentID string) ([]*api.Node, error) {
	if documentID == "" {
		return nil, required("document_id")
	}
	nodes, err := e.docs.LoadTree(ctx, documentID)
	if err != nil {
		return nil, e.fail(op, documentID, err, "load document "+documentID)
	}
	if nodes == nil {
		nodes = []*api.Node{}
	}
	return nodes, nil
}

func (e *Editor) saveTree(ctx context.Context, op, documentID string, nodes []*api.Node) error {
	if err := e.docs.SaveTree(ctx, documentID, nodes); err != nil {
		return e.fail(op, documentID, err, "save document "+documentID)
	}
	return nil
}

// fail classifies err and logs collaborator failures.
func (e *Editor) fail(op, subject string, err error, action string) error {
	out := classify(subject, err, action)
	if KindOf(out) == KindUpstreamFailure {
		e.log.WithFields(logrus.Fields{"op": op, "subject": subject}).WithError(err).Warn(action + " failed")
	}
	return out
}

func (e *Editor) done(op, documentID string, fields logrus.Fields) {
	entry := e.log.WithFields(logrus.Fields{"op": op, "document_id": documentID})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Debug("applied")
}

// findElement resolves id to a node or a NotFound naming both ids.
func findElement(nodes []*api.Node, documentID, id string) (*api.Node, error) {
	if id == "" {
		return nil, required("element_id")
	}
	n := tree.Find(nodes, id)
	if n == nil {
		return nil, notFound(id, "element %q not found in document %q", id, documentID)
	}
	return n, nil
}

// checkParent verifies parentID (empty means the root sequence) can take
// children.
func checkParent(nodes []*api.Node, documentID, parentID string) error {
	if parentID == "" {
		return nil
	}
	p := tree.Find(nodes, parentID)
	if p == nil {
		return conflict(parentID, "parent element %q not found in document %q", parentID, documentID)
	}
	if p.IsWidget() {
		return conflict(parentID, "element %q is a %s widget and cannot hold children", parentID, p.WidgetType)
	}
	return nil
}

// insertAll inserts add in order starting at position. The parent must have
// been checked already.
func insertAll(nodes []*api.Node, parentID string, add []*api.Node, position int) []*api.Node {
	for i, n := range add {
		pos := position
		if position >= 0 {
			pos = position + i
		}
		nodes, _ = tree.Insert(nodes, parentID, n, pos)
	}
	return nodes
}

// nest marks containers placed under another node as inner.
func nest(nodes []*api.Node, parentID string) {
	for _, n := range nodes {
		if !n.IsWidget() {
			n.IsInner = parentID != ""
		}
	}
}

func rootIDs(nodes []*api.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
