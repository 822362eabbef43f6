package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/canopy/api"
)

type backend interface {
	Documents
	Tokens
	OnSave(SaveHook)
}

func backends(t *testing.T) map[string]backend {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "canopy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]backend{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func sampleTree() []*api.Node {
	return []*api.Node{{
		ID:       "c1",
		Kind:     api.KindContainer,
		Settings: api.Settings{"flex_direction": "row", "width": map[string]any{"size": 50.0, "unit": "%"}},
		Children: []*api.Node{{
			ID:         "w1",
			Kind:       api.KindWidget,
			WidgetType: "heading",
			IsInner:    false,
			Settings:   api.Settings{"title": "Hello", "tags": []any{"a", "b"}},
			Children:   []*api.Node{},
		}},
	}}
}

func TestStore_DocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.CreateDocument(ctx, "Landing", "", "")
			require.NoError(t, err)
			require.NotEmpty(t, id)

			doc, err := s.Document(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "Landing", doc.Title)
			assert.Equal(t, DefaultStatus, doc.Status)
			assert.Equal(t, DefaultKind, doc.Kind)
			assert.Empty(t, doc.Elements)
			assert.Empty(t, doc.Settings)
			assert.Equal(t, int64(0), doc.Revision)

			nodes, err := s.LoadTree(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, nodes)
		})
	}
}

func TestStore_TreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var revisions []int64
			s.OnSave(func(_ context.Context, _ string, rev int64) { revisions = append(revisions, rev) })

			id, err := s.CreateDocument(ctx, "Page", "publish", "page")
			require.NoError(t, err)

			require.NoError(t, s.SaveTree(ctx, id, sampleTree()))
			got, err := s.LoadTree(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, sampleTree(), got)

			require.NoError(t, s.SaveTree(ctx, id, nil))
			got, err = s.LoadTree(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, got)

			assert.Equal(t, []int64{1, 2}, revisions)
			doc, err := s.Document(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, int64(2), doc.Revision)
			assert.Equal(t, "publish", doc.Status)
		})
	}
}

func TestStore_LoadedTreeIsACopy(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id, _ := s.CreateDocument(ctx, "Page", "", "")
			require.NoError(t, s.SaveTree(ctx, id, sampleTree()))

			got, err := s.LoadTree(ctx, id)
			require.NoError(t, err)
			got[0].Settings["flex_direction"] = "column"

			again, err := s.LoadTree(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "row", again[0].Settings["flex_direction"])
		})
	}
}

func TestStore_Settings(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id, _ := s.CreateDocument(ctx, "Page", "", "")
			require.NoError(t, s.SaveSettings(ctx, id, api.Settings{"background_color": "#fff"}))

			got, err := s.LoadSettings(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, api.Settings{"background_color": "#fff"}, got)

			nodes, err := s.LoadTree(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, nodes, "settings are disjoint from the tree")
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.LoadTree(ctx, "missing")
			assert.True(t, errors.Is(err, ErrNotFound))
			_, err = s.Document(ctx, "missing")
			assert.True(t, errors.Is(err, ErrNotFound))
			_, err = s.LoadSettings(ctx, "missing")
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.True(t, errors.Is(s.SaveTree(ctx, "missing", sampleTree()), ErrNotFound))
			assert.True(t, errors.Is(s.SaveSettings(ctx, "missing", api.Settings{}), ErrNotFound))
		})
	}
}

func TestStore_Tokens(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			tok, err := s.ActiveTokens(ctx)
			require.NoError(t, err)
			assert.Empty(t, tok.Colors)
			assert.Empty(t, tok.Typography)

			require.NoError(t, s.UpdateTokens(ctx, api.Tokens{
				Colors: []api.Color{{ID: "primary", Title: "Primary", Color: "#6EC1E4"}},
			}))
			require.NoError(t, s.UpdateTokens(ctx, api.Tokens{
				Typography: []api.Typography{{ID: "primary", Title: "Primary", Settings: api.Settings{"typography_font_family": "Roboto"}}},
			}))

			tok, err = s.ActiveTokens(ctx)
			require.NoError(t, err)
			require.Len(t, tok.Colors, 1, "a nil half is left untouched")
			assert.Equal(t, "#6EC1E4", tok.Colors[0].Color)
			require.Len(t, tok.Typography, 1)
			assert.Equal(t, "Roboto", tok.Typography[0].Settings["typography_font_family"])
		})
	}
}

func TestSQLiteStore_NestedTreeSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "canopy.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)

	id, err := s.CreateDocument(ctx, "Page", "", "")
	require.NoError(t, err)
	tree := sampleTree()
	tree[0].Children = append(tree[0].Children, &api.Node{
		ID:      "c2",
		Kind:    api.KindContainer,
		IsInner: true,
		Children: []*api.Node{{
			ID: "w2", Kind: api.KindWidget, WidgetType: "spacer", Children: []*api.Node{},
		}},
	})
	require.NoError(t, s.SaveTree(ctx, id, tree))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }() // test cleanup

	got, err := s.LoadTree(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}
