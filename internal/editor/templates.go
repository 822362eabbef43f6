package editor

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/templates"
	"github.com/agentic-research/canopy/internal/tree"
)

var errNoTemplates = errors.New("template library not configured")

// TemplateResult echoes a saved template.
type TemplateResult struct {
	TemplateID string `json:"template_id"`
	Type       string `json:"type"`
	Count      int    `json:"count"`
}

// SaveAsTemplate stores the whole document tree (a page template) or, with
// elementID, one element subtree (a section template). Stored nodes carry
// fresh ids so the template never shares ids with its source.
func (e *Editor) SaveAsTemplate(ctx context.Context, documentID, title, elementID string) (*TemplateResult, error) {
	const op = "save_as_template"
	if strings.TrimSpace(title) == "" {
		return nil, required("title")
	}
	if e.templates == nil {
		return nil, e.fail(op, title, errNoTemplates, "save template")
	}
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}

	tpl := api.Template{Title: title, Type: templates.TypePage}
	if elementID != "" {
		n, err := findElement(nodes, documentID, elementID)
		if err != nil {
			return nil, err
		}
		tpl.Type = templates.TypeSection
		tpl.Elements = []*api.Node{tree.ReassignNodeIDs(n, e.newID, nil)}
	} else {
		if len(nodes) == 0 {
			return nil, invalid(documentID, "document %q has no content to save", documentID)
		}
		settings, err := e.docs.LoadSettings(ctx, documentID)
		if err != nil {
			return nil, e.fail(op, documentID, err, "load settings of "+documentID)
		}
		tpl.Elements = tree.ReassignIDs(nodes, e.newID, nil)
		tpl.Settings = settings
	}

	saved, err := e.templates.Save(tpl)
	if err != nil {
		return nil, e.fail(op, title, err, "save template")
	}
	count := tree.Count(saved.Elements)
	e.done(op, documentID, logrus.Fields{"template_id": saved.ID, "type": saved.Type, "count": count})
	return &TemplateResult{TemplateID: saved.ID, Type: saved.Type, Count: count}, nil
}

// ListTemplates returns every saved template, newest first.
func (e *Editor) ListTemplates(context.Context) ([]templates.Summary, error) {
	if e.templates == nil {
		return nil, e.fail("list_templates", "", errNoTemplates, "list templates")
	}
	list, err := e.templates.List()
	if err != nil {
		return nil, e.fail("list_templates", "", err, "list templates")
	}
	if list == nil {
		list = []templates.Summary{}
	}
	return list, nil
}

// ApplyTemplate inserts a copy of templateID's elements, with fresh ids,
// under parentID (empty for the page root) at position.
func (e *Editor) ApplyTemplate(ctx context.Context, templateID, documentID, parentID string, position int) (*ElementsResult, error) {
	const op = "apply_template"
	if templateID == "" {
		return nil, required("template_id")
	}
	if e.templates == nil {
		return nil, e.fail(op, templateID, errNoTemplates, "load template")
	}
	tpl, err := e.templates.Load(templateID)
	if err != nil {
		return nil, e.fail(op, templateID, err, "load template "+templateID)
	}
	if err := tree.Check(tpl.Elements); err != nil {
		return nil, e.fail(op, templateID, err, "check template")
	}

	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	if err := checkParent(nodes, documentID, parentID); err != nil {
		return nil, err
	}

	added := tree.ReassignIDs(tpl.Elements, e.newID, tree.IDs(nodes))
	tree.Normalize(added)
	nest(added, parentID)
	nodes = insertAll(nodes, parentID, added, position)

	if err := e.saveTree(ctx, op, documentID, nodes); err != nil {
		return nil, err
	}
	count := tree.Count(added)
	e.done(op, documentID, logrus.Fields{"template_id": templateID, "count": count})
	return &ElementsResult{DocumentID: documentID, ElementIDs: rootIDs(added), Count: count}, nil
}
