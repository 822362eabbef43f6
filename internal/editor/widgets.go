package editor

import (
	"context"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/agentic-research/canopy/api"
)

// ListWidgets returns the registry's widget types sorted by name. A
// non-empty category keeps only types listed in it.
func (e *Editor) ListWidgets(ctx context.Context, category string) ([]api.WidgetType, error) {
	types, err := e.schemas.Registry().Types(ctx)
	if err != nil {
		return nil, e.fail("list_widgets", category, err, "list widget types")
	}
	out := make([]api.WidgetType, 0, len(types))
	for name, t := range types {
		if t.Name == "" {
			t.Name = name
		}
		if category != "" && !hasCategory(t, category) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func hasCategory(t api.WidgetType, category string) bool {
	for _, c := range t.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// GetWidgetSchema returns the settings schema of widgetType.
func (e *Editor) GetWidgetSchema(ctx context.Context, widgetType string) (*jsonschema.Schema, error) {
	if widgetType == "" {
		return nil, required("widget_type")
	}
	s, err := e.schemas.Generate(ctx, widgetType)
	if err != nil {
		return nil, e.fail("get_widget_schema", widgetType, err, "generate schema")
	}
	return s, nil
}
