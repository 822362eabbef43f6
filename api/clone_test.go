package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeClone_IsDeep(t *testing.T) {
	src := nestedTree()
	dst := CloneNodes(src)
	require.Equal(t, src, dst)

	dst[0].Settings["flex_direction"] = "column"
	dst[0].Children[0].Settings["width"].(map[string]any)["size"] = 25.0
	w := dst[0].Children[0].Children[0]
	w.Settings["tags"].([]any)[1].(map[string]any)["x"] = 2.0
	w.Children = append(w.Children, &Node{ID: "extra"})

	assert.Equal(t, nestedTree(), src)
}

func TestNodeClone_PreservesNilAndEmpty(t *testing.T) {
	assert.Nil(t, (*Node)(nil).Clone())
	assert.Nil(t, Settings(nil).Clone())

	n := &Node{ID: "w", Kind: KindWidget, Children: []*Node{}}
	c := n.Clone()
	assert.NotNil(t, c.Children)
	assert.Empty(t, c.Children)
	assert.Nil(t, c.Settings)
}

func TestSettingsClone_IsDeep(t *testing.T) {
	src := Settings{"padding": map[string]any{"top": "10"}, "list": []any{"a"}}
	dst := src.Clone()
	dst["padding"].(map[string]any)["top"] = "0"
	dst["list"].([]any)[0] = "b"

	assert.Equal(t, "10", src["padding"].(map[string]any)["top"])
	assert.Equal(t, "a", src["list"].([]any)[0])
}
