package editor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/compiler"
)

// BuildResult reports a compiled page.
type BuildResult struct {
	DocumentID string   `json:"document_id"`
	ElementIDs []string `json:"element_ids"`
	Count      int      `json:"count"`
	Skipped    []string `json:"skipped,omitempty"`
}

// BuildPage compiles a declarative structure into the document. With replace
// the compiled nodes become the whole tree, otherwise they are appended to
// the root sequence. Widget settings are validated before anything is built.
func (e *Editor) BuildPage(ctx context.Context, documentID string, structure []api.StructureItem, replace bool) (*BuildResult, error) {
	const op = "build_page"
	if len(structure) == 0 {
		return nil, required("structure")
	}
	if err := e.validateStructure(ctx, structure, ""); err != nil {
		return nil, err
	}

	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	if replace {
		nodes = []*api.Node{}
	}

	c := compiler.New(e.factory(nodes))
	c.Strict = e.strict
	res, err := c.Compile(structure)
	if err != nil {
		return nil, classify("structure", err, "compile structure")
	}
	nodes = append(nodes, res.Elements...)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	e.done(op, documentID, logrus.Fields{"count": res.Count, "skipped": len(res.Skipped), "replace": replace})
	return &BuildResult{
		DocumentID: documentID,
		ElementIDs: rootIDs(res.Elements),
		Count:      res.Count,
		Skipped:    res.Skipped,
	}, nil
}

// validateStructure checks the settings of every widget item that names a
// widget type. Items the compiler will skip are left to the compiler.
func (e *Editor) validateStructure(ctx context.Context, items []api.StructureItem, prefix string) error {
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		switch item.Type {
		case compiler.TypeWidget:
			if item.WidgetType == "" {
				continue
			}
			if err := e.schemas.Validate(ctx, item.WidgetType, item.Settings); err != nil {
				typed := classify(item.WidgetType, err, "validate settings").(*Error)
				typed.Message = fmt.Sprintf("structure item %s: %s", path, typed.Message)
				return typed
			}
		case compiler.TypeContainer:
			if err := e.validateStructure(ctx, item.Children, path+".children"); err != nil {
				return err
			}
		}
	}
	return nil
}
