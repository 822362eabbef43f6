package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/ident"
)

func TestContainer_MergesDefaultsUnderCallerSettings(t *testing.T) {
	f := New(nil)
	n := f.Container(api.Settings{"content_width": "full", "flex_direction": "row"})

	assert.Equal(t, api.KindContainer, n.Kind)
	assert.Empty(t, n.WidgetType)
	assert.False(t, n.IsInner)
	assert.Len(t, n.ID, ident.Length)
	assert.Equal(t, api.Settings{
		"container_type": "flex",
		"content_width":  "full",
		"flex_direction": "row",
	}, n.Settings)
	assert.NotNil(t, n.Children)
}

func TestContainer_DoesNotAliasDefaultsOrCaller(t *testing.T) {
	f := New(nil)
	caller := api.Settings{"width": map[string]any{"size": 50, "unit": "%"}}
	n := f.Container(caller)

	n.Settings["container_type"] = "grid"
	n.Settings["width"].(map[string]any)["size"] = 10

	assert.Equal(t, "flex", ContainerDefaults["container_type"])
	assert.Equal(t, 50, caller["width"].(map[string]any)["size"])
}

func TestWidget_SettingsVerbatim(t *testing.T) {
	f := New(nil)
	n := f.Widget("heading", api.Settings{"title": "Hello"})

	assert.Equal(t, api.KindWidget, n.Kind)
	assert.Equal(t, "heading", n.WidgetType)
	assert.Equal(t, api.Settings{"title": "Hello"}, n.Settings)
	assert.Empty(t, n.Children)

	empty := f.Widget("image", nil)
	assert.NotNil(t, empty.Settings)
}

func TestSectionAndColumn(t *testing.T) {
	f := New(nil)
	col := f.Column(nil, f.Widget("heading", nil))
	sec := f.Section(api.Settings{"layout": "boxed"}, col)

	assert.Equal(t, api.KindColumn, col.Kind)
	assert.Equal(t, 100, col.Settings["column_size"])
	assert.Equal(t, api.KindSection, sec.Kind)
	require.Len(t, sec.Children, 1)
	assert.Same(t, col, sec.Children[0])

	narrow := f.Column(api.Settings{"column_size": 50})
	assert.Equal(t, 50, narrow.Settings["column_size"])
}

func TestFactory_AvoidsUsedIDs(t *testing.T) {
	seq := []string{"aaaaaaa", "bbbbbbb"}
	i := 0
	f := &Factory{
		NewID: func() string { id := seq[i]; i++; return id },
		Used:  ident.NewSet("aaaaaaa"),
	}
	n := f.Widget("heading", nil)
	assert.Equal(t, "bbbbbbb", n.ID)
}
