package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/canopy/internal/linter"
)

func TestLintDocument(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.ed.LintDocument(ctx, f.doc)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	c, err := f.ed.AddContainer(ctx, f.doc, "", -1, nil)
	require.NoError(t, err)
	rev := f.revision(t)

	res, err = f.ed.LintDocument(ctx, f.doc)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, c.ElementID, res.Diagnostics[0].ElementID)
	assert.Equal(t, map[string]int{linter.RuleEmptyContainer: 1}, res.Summary)
	assert.Equal(t, rev, f.revision(t))

	_, err = f.ed.AddWidget(ctx, f.doc, c.ElementID, "spacer", -1, nil)
	require.NoError(t, err)
	res, err = f.ed.LintDocument(ctx, f.doc)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	_, err = f.ed.LintDocument(ctx, "missing")
	assertKind(t, KindNotFound, err)
}
