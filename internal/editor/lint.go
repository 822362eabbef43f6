package editor

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/internal/linter"
)

// LintResult lists layout diagnostics for a document.
type LintResult struct {
	DocumentID  string              `json:"document_id"`
	Diagnostics []linter.Diagnostic `json:"diagnostics"`
	Summary     map[string]int      `json:"summary"`
}

// LintDocument reports layout problems in the document's tree. It never
// modifies the document.
func (e *Editor) LintDocument(ctx context.Context, documentID string) (*LintResult, error) {
	const op = "lint_document"
	nodes, err := e.loadTree(ctx, op, documentID)
	if err != nil {
		return nil, err
	}
	diags := linter.Lint(nodes)
	e.done(op, documentID, logrus.Fields{"diagnostics": len(diags)})
	return &LintResult{DocumentID: documentID, Diagnostics: diags, Summary: linter.Summary(diags)}, nil
}
