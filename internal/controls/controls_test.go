package controls

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/canopy/api"
)

func TestMap_StructuralKindsExcluded(t *testing.T) {
	for _, kind := range []string{"section", "tab", "tabs", "heading", "divider", "raw_html", "button", "notice"} {
		_, ok := Map(api.Control{Name: "x", Type: kind})
		assert.False(t, ok, "kind %q should not produce a fragment", kind)
	}
}

func TestMap_Scalars(t *testing.T) {
	tests := []struct {
		kind     string
		wantType string
	}{
		{Text, "string"},
		{Textarea, "string"},
		{Wysiwyg, "string"},
		{Color, "string"},
		{Number, "number"},
		{"some_future_control", "string"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			s, ok := Map(api.Control{Name: "x", Type: tt.kind})
			require.True(t, ok)
			assert.Equal(t, tt.wantType, s.Type)
		})
	}
}

func TestMap_SelectEnumFollowsOptionOrder(t *testing.T) {
	s, ok := Map(api.Control{
		Name: "align",
		Type: Select,
		Options: []api.Option{
			{Key: "left", Label: "Left"},
			{Key: "center", Label: "Center"},
			{Key: "right", Label: "Right"},
		},
	})
	require.True(t, ok)
	assert.Equal(t, "string", s.Type)
	assert.Equal(t, []any{"left", "center", "right"}, s.Enum)
}

func TestMap_SwitcherUsesYesEmptyConvention(t *testing.T) {
	s, ok := Map(api.Control{Name: "show", Type: Switcher, Default: "yes"})
	require.True(t, ok)
	assert.Equal(t, "string", s.Type)
	assert.Equal(t, []any{"yes", ""}, s.Enum)
	assert.Equal(t, "yes", s.Default)
}

func TestMap_LabelAndScalarDefault(t *testing.T) {
	s, ok := Map(api.Control{Name: "title", Type: Text, Label: "Title", Default: "Add Your Heading Text Here"})
	require.True(t, ok)
	assert.Equal(t, "Title", s.Description)
	assert.Equal(t, "Add Your Heading Text Here", s.Default)
}

func TestMap_CompositeDefaultDropped(t *testing.T) {
	s, ok := Map(api.Control{
		Name:    "space",
		Type:    Slider,
		Default: map[string]any{"size": 50, "unit": "px"},
	})
	require.True(t, ok)
	assert.Nil(t, s.Default)
	assert.Equal(t, "object", s.Type)

	size, ok := s.Properties.Get("size")
	require.True(t, ok)
	assert.Equal(t, "number", size.Type)
	unit, ok := s.Properties.Get("unit")
	require.True(t, ok)
	assert.Equal(t, "string", unit.Type)
}

func TestMap_ObjectShapes(t *testing.T) {
	tests := []struct {
		kind  string
		props []string
	}{
		{URL, []string{"url", "is_external", "nofollow"}},
		{Media, []string{"url", "id"}},
		{Icons, []string{"value", "library"}},
		{Dimensions, []string{"top", "right", "bottom", "left", "unit", "isLinked"}},
		{BoxShadow, []string{"horizontal", "vertical", "blur", "spread", "color"}},
		{TextShadow, []string{"horizontal", "vertical", "blur", "color"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			s, ok := Map(api.Control{Name: "x", Type: tt.kind})
			require.True(t, ok)
			assert.Equal(t, "object", s.Type)
			var keys []string
			for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
				keys = append(keys, pair.Key)
			}
			assert.Equal(t, tt.props, keys)
		})
	}

	media, _ := Map(api.Control{Name: "image", Type: Media})
	id, _ := media.Properties.Get("id")
	assert.Equal(t, "integer", id.Type)
}

func TestMap_Repeater(t *testing.T) {
	s, ok := Map(api.Control{
		Name: "tabs",
		Type: Repeater,
		Fields: []api.Control{
			{Name: "tab_title", Type: Text, Label: "Title"},
			{Name: "tab_heading", Type: "heading"}, // panel-only, dropped
			{Name: "tab_content", Type: Wysiwyg},
		},
	})
	require.True(t, ok)
	assert.Equal(t, "array", s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, "object", s.Items.Type)
	assert.Equal(t, 2, s.Items.Properties.Len())

	title, ok := s.Items.Properties.Get("tab_title")
	require.True(t, ok)
	assert.Equal(t, "Title", title.Description)
	_, ok = s.Items.Properties.Get("tab_heading")
	assert.False(t, ok)
}

func TestMap_DateTimeAndGallery(t *testing.T) {
	dt, _ := Map(api.Control{Name: "due", Type: DateTime})
	assert.Equal(t, "string", dt.Type)
	assert.Equal(t, "date-time", dt.Format)

	g, _ := Map(api.Control{Name: "gallery", Type: Gallery})
	assert.Equal(t, "array", g.Type)
	require.NotNil(t, g.Items)
	id, ok := g.Items.Properties.Get("id")
	require.True(t, ok)
	assert.Equal(t, "integer", id.Type)
}

func TestMap_MarshalsAsJSONSchema(t *testing.T) {
	s, _ := Map(api.Control{Name: "link", Type: URL, Label: "Link"})
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, "Link", decoded["description"])
	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "url")
}
