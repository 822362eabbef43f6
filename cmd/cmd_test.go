package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/canopy/internal/config"
	"github.com/agentic-research/canopy/internal/logging"
)

const landing = `
structure:
  - type: container
    settings:
      flex_direction: row
    children:
      - type: widget
        widgetType: heading
        settings:
          title: Hello
      - type: widget
        widgetType: image
`

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.Bytes()
}

func TestBuildThenExport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	db := filepath.Join(dir, "canopy.db")
	tplDir := filepath.Join(dir, "templates")
	page := filepath.Join(dir, "landing.yaml")
	require.NoError(t, os.WriteFile(page, []byte(landing), 0o644))

	var built struct {
		DocumentID string   `json:"document_id"`
		ElementIDs []string `json:"element_ids"`
		Count      int      `json:"count"`
	}
	raw := run(t, "build", "--db", db, "--templates-dir", tplDir, "--title", "Landing", page)
	require.NoError(t, json.Unmarshal(raw, &built))
	assert.Equal(t, 3, built.Count)
	require.Len(t, built.ElementIDs, 1)

	var matches []string
	raw = run(t, "export", "--db", db, "--templates-dir", tplDir, "--selector", "$..widgetType", built.DocumentID)
	require.NoError(t, json.Unmarshal(raw, &matches))
	assert.ElementsMatch(t, []string{"heading", "image"}, matches)
	exportSelector = ""

	var outline struct {
		Count int `json:"count"`
	}
	raw = run(t, "export", "--db", db, "--templates-dir", tplDir, "--outline", built.DocumentID)
	require.NoError(t, json.Unmarshal(raw, &outline))
	assert.Equal(t, 3, outline.Count)
	exportOutline = false

	out := run(t, "lint", "--db", db, "--templates-dir", tplDir, built.DocumentID)
	assert.Empty(t, out)
}

func TestReadStructure_JSONList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"widget","widgetType":"spacer"}]`), 0o644))

	items, err := readStructure(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "spacer", items[0].WidgetType)

	empty := filepath.Join(t.TempDir(), "e.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("structure: []\n"), 0o644))
	_, err = readStructure(empty)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	assert.Contains(t, string(out), "canopy dev")
}

func TestReloadCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogFile := filepath.Join(dir, "widgets.yaml")
	require.NoError(t, os.WriteFile(catalogFile, []byte("widgets:\n  - name: alert\n    title: Alert\n"), 0o644))

	cfg = &config.Config{
		DB:           filepath.Join(dir, "canopy.db"),
		TemplatesDir: filepath.Join(dir, "templates"),
		Catalog:      catalogFile,
	}
	logger = logging.New("error", logging.FormatText, io.Discard)

	a, err := openApp()
	require.NoError(t, err)
	defer func() { _ = a.Close() }() // test cleanup

	ctx := context.Background()
	types, err := a.editor.ListWidgets(ctx, "")
	require.NoError(t, err)
	require.Len(t, types, 1)
	_, err = a.editor.GetWidgetSchema(ctx, "alert")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(catalogFile, []byte("widgets:\n  - name: banner\n    title: Banner\n"), 0o644))
	require.NoError(t, a.reloadCatalog())
	types, err = a.editor.ListWidgets(ctx, "")
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "banner", types[0].Name)
	_, err = a.editor.GetWidgetSchema(ctx, "alert")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(catalogFile, []byte("widgets: [{title: x}]\n"), 0o644))
	assert.Error(t, a.reloadCatalog())
	types, err = a.editor.ListWidgets(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "banner", types[0].Name)
}
