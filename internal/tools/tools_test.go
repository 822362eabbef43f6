package tools

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/canopy/internal/catalog"
	"github.com/agentic-research/canopy/internal/editor"
	"github.com/agentic-research/canopy/internal/schema"
	"github.com/agentic-research/canopy/internal/store"
	"github.com/agentic-research/canopy/internal/templates"
)

type harness struct {
	t     *testing.T
	tools map[string]server.ServerTool
	store *store.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := store.NewMemoryStore()
	ed := editor.New(st, st, schema.NewGenerator(catalog.Default()), templates.NewLibrary(memfs.New()), editor.Options{})
	h := &harness{t: t, tools: map[string]server.ServerTool{}, store: st}
	for _, tool := range New(ed, nil).Tools() {
		h.tools[tool.Tool.Name] = tool
	}
	return h
}

func (h *harness) call(name string, args map[string]any) *mcp.CallToolResult {
	h.t.Helper()
	tool, ok := h.tools[name]
	require.True(h.t, ok, "tool %s not registered", name)
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(h.t, err)
	require.NotNil(h.t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

// ok calls name, requires success and decodes the payload.
func (h *harness) ok(name string, args map[string]any) map[string]any {
	h.t.Helper()
	res := h.call(name, args)
	require.False(h.t, res.IsError, text(h.t, res))
	var out map[string]any
	require.NoError(h.t, json.Unmarshal([]byte(text(h.t, res)), &out))
	return out
}

// fails calls name, requires a failure and returns its code.
func (h *harness) fails(name string, args map[string]any) string {
	h.t.Helper()
	res := h.call(name, args)
	require.True(h.t, res.IsError, text(h.t, res))
	var f failure
	require.NoError(h.t, json.Unmarshal([]byte(text(h.t, res)), &f))
	assert.False(h.t, f.Success)
	assert.NotEmpty(h.t, f.Error)
	return f.Code
}

func TestToolsRegistered(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{
		"create_document", "update_document_settings", "clear_document_content", "import_structure",
		"export_document", "get_document_structure", "lint_document", "build_page", "add_container", "add_section",
		"move_element", "remove_element", "duplicate_element", "add_widget", "update_widget",
		"list_widgets", "get_widget_schema", "save_as_template", "list_templates", "apply_template",
		"get_global_tokens", "update_global_colors", "update_global_typography",
		"add_heading", "add_text_editor", "add_image", "add_button", "add_icon", "add_spacer",
		"add_divider", "add_video",
	} {
		assert.Contains(t, h.tools, name)
	}
}

func TestBuildPageTool(t *testing.T) {
	h := newHarness(t)
	doc := h.ok("create_document", map[string]any{"title": "Landing"})["document_id"].(string)

	out := h.ok("build_page", map[string]any{
		"document_id": doc,
		"structure": []any{
			map[string]any{
				"type":     "container",
				"settings": map[string]any{"flex_direction": "row"},
				"children": []any{
					map[string]any{"type": "widget", "widgetType": "heading", "settings": map[string]any{"title": "Hello"}},
					map[string]any{"type": "widget", "widgetType": "image", "settings": map[string]any{}},
				},
			},
		},
	})
	assert.EqualValues(t, 3, out["count"])

	st := h.ok("get_document_structure", map[string]any{"document_id": doc})
	assert.EqualValues(t, 3, st["count"])

	lint := h.ok("lint_document", map[string]any{"document_id": doc})
	assert.Empty(t, lint["diagnostics"])
}

func TestElementTools(t *testing.T) {
	h := newHarness(t)
	doc := h.ok("create_document", map[string]any{"title": "Page"})["document_id"].(string)
	c := h.ok("add_container", map[string]any{"document_id": doc})["element_id"].(string)

	w := h.ok("add_widget", map[string]any{
		"document_id": doc, "parent_id": c, "widget_type": "heading",
		"settings": map[string]any{"title": "One"},
	})["element_id"].(string)

	h.ok("update_widget", map[string]any{"document_id": doc, "element_id": w, "settings": map[string]any{"align": "center"}})
	dup := h.ok("duplicate_element", map[string]any{"document_id": doc, "element_id": w})
	assert.NotEqual(t, w, dup["element_id"])

	h.ok("move_element", map[string]any{"document_id": doc, "element_id": dup["element_id"], "position": 0})
	removed := h.ok("remove_element", map[string]any{"document_id": doc, "element_id": c})
	assert.EqualValues(t, 2, removed["removed"])

	nodes, err := h.store.LoadTree(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "center", nodes[0].Settings["align"])
}

func TestToolFailures(t *testing.T) {
	h := newHarness(t)
	doc := h.ok("create_document", map[string]any{"title": "Page"})["document_id"].(string)
	c := h.ok("add_container", map[string]any{"document_id": doc})["element_id"].(string)

	assert.Equal(t, string(editor.KindInvalidInput), h.fails("create_document", map[string]any{}))
	assert.Equal(t, string(editor.KindNotFound), h.fails("remove_element", map[string]any{"document_id": doc, "element_id": "abcdef0"}))
	assert.Equal(t, string(editor.KindNotFound), h.fails("add_container", map[string]any{"document_id": "nope"}))
	assert.Equal(t, string(editor.KindInvalidInput), h.fails("add_widget", map[string]any{
		"document_id": doc, "parent_id": c, "widget_type": "heading", "settings": map[string]any{"bogus": 1},
	}))
	assert.Equal(t, string(editor.KindStructuralConflict), h.fails("update_widget", map[string]any{
		"document_id": doc, "element_id": c, "settings": map[string]any{"title": "x"},
	}))
	assert.Equal(t, string(editor.KindInvalidInput), h.fails("build_page", map[string]any{
		"document_id": doc, "structure": "not a list",
	}))
}

func TestShortcutTools(t *testing.T) {
	h := newHarness(t)
	doc := h.ok("create_document", map[string]any{"title": "Page"})["document_id"].(string)
	c := h.ok("add_container", map[string]any{"document_id": doc})["element_id"].(string)
	base := func(extra map[string]any) map[string]any {
		args := map[string]any{"document_id": doc, "parent_id": c}
		for k, v := range extra {
			args[k] = v
		}
		return args
	}

	h.ok("add_heading", base(map[string]any{"title": "Welcome", "tag": "h1", "color": "#222"}))
	h.ok("add_text_editor", base(map[string]any{"content": "<p>Hi</p>"}))
	h.ok("add_image", base(map[string]any{"url": "https://img.example/a.png", "media_id": 12, "caption": "A"}))
	h.ok("add_button", base(map[string]any{"text": "Go", "link": "https://example.com", "size": "lg"}))
	h.ok("add_icon", base(map[string]any{"icon": "fas fa-star"}))
	h.ok("add_spacer", base(map[string]any{"height": 80.0}))
	h.ok("add_divider", base(map[string]any{"style": "dashed", "weight": 2.0}))
	h.ok("add_video", base(map[string]any{"url": "https://vimeo.com/1", "source": "vimeo", "autoplay": true}))

	assert.Equal(t, string(editor.KindInvalidInput), h.fails("add_heading", base(nil)))

	nodes, err := h.store.LoadTree(context.Background(), doc)
	require.NoError(t, err)
	widgets := nodes[0].Children
	require.Len(t, widgets, 8)

	assert.Equal(t, "heading", widgets[0].WidgetType)
	assert.Equal(t, "h1", widgets[0].Settings["header_size"])
	assert.Equal(t, "#222", widgets[0].Settings["title_color"])

	assert.Equal(t, map[string]any{"url": "https://img.example/a.png", "id": 12}, widgets[2].Settings["image"])
	assert.Equal(t, "custom", widgets[2].Settings["caption_source"])

	assert.Equal(t, map[string]any{"url": "https://example.com", "is_external": false, "nofollow": false}, widgets[3].Settings["link"])
	assert.Equal(t, map[string]any{"size": float64(80), "unit": "px"}, widgets[5].Settings["space"])
	assert.Equal(t, "https://vimeo.com/1", widgets[7].Settings["vimeo_url"])
	assert.Equal(t, "yes", widgets[7].Settings["autoplay"])
}

func TestTemplateAndTokenTools(t *testing.T) {
	h := newHarness(t)
	doc := h.ok("create_document", map[string]any{"title": "Page"})["document_id"].(string)
	c := h.ok("add_container", map[string]any{"document_id": doc})["element_id"].(string)
	h.ok("add_spacer", map[string]any{"document_id": doc, "parent_id": c})

	tpl := h.ok("save_as_template", map[string]any{"document_id": doc, "title": "Block", "element_id": c})
	res := h.call("list_templates", map[string]any{})
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), "Block")

	applied := h.ok("apply_template", map[string]any{"template_id": tpl["template_id"], "document_id": doc})
	assert.EqualValues(t, 2, applied["count"])

	h.ok("update_global_colors", map[string]any{"colors": []any{
		map[string]any{"_id": "primary", "title": "Primary", "color": "#000"},
	}})
	tokens := h.ok("get_global_tokens", map[string]any{})
	colors := tokens["colors"].([]any)
	require.Len(t, colors, 1)
	assert.Equal(t, "#000", colors[0].(map[string]any)["color"])

	sch := h.ok("get_widget_schema", map[string]any{"widget_type": "heading"})
	assert.Equal(t, "object", sch["type"])
	assert.Contains(t, sch["properties"], "title")
}
