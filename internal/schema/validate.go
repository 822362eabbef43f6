package schema

import (
	"context"
	"fmt"
	"sort"

	"github.com/agentic-research/canopy/api"
)

// InvalidKeyError names a settings key the widget's schema does not declare.
type InvalidKeyError struct {
	WidgetType string
	Key        string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("setting %q is not a known setting of widget %q", e.Key, e.WidgetType)
}

// Validate checks that every key of settings is declared by widgetType's schema.
// It is a key-membership check only; values are not type-checked. Keys are
// examined in sorted order so the reported key is stable.
func (g *Generator) Validate(ctx context.Context, widgetType string, settings api.Settings) error {
	if len(settings) == 0 {
		// Still resolve the type so unknown widgets are reported.
		_, err := g.Generate(ctx, widgetType)
		return err
	}

	s, err := g.Generate(ctx, widgetType)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := s.Properties.Get(k); !ok {
			return &InvalidKeyError{WidgetType: widgetType, Key: k}
		}
	}
	return nil
}
