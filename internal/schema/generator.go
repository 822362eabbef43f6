// Package schema folds a widget type's declared controls into one JSON Schema
// object and validates settings bags against it.
package schema

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/controls"
)

// ErrUnknownWidget is returned when the registry does not know a widget type.
// Registries signal absence by wrapping it.
var ErrUnknownWidget = errors.New("unknown widget type")

// Registry is the read-only widget type registry the schema layer queries.
type Registry interface {
	// Types lists every registered widget type keyed by name.
	Types(ctx context.Context) (map[string]api.WidgetType, error)
	// Controls returns the declared controls of one type, in declaration order.
	// Returns an error wrapping ErrUnknownWidget for an unregistered type.
	Controls(ctx context.Context, widgetType string) ([]api.Control, error)
}

// Generator builds per-widget settings schemas. Results are memoized per
// widget type; call Reset after the registry's contents change.
type Generator struct {
	registry Registry

	mu    sync.Mutex
	cache map[string]*jsonschema.Schema
	epoch uint64 // bumped by Reset
}

// NewGenerator returns a Generator reading from registry.
func NewGenerator(registry Registry) *Generator {
	return &Generator{
		registry: registry,
		cache:    make(map[string]*jsonschema.Schema),
	}
}

// Registry returns the registry the generator reads from.
func (g *Generator) Registry() Registry {
	return g.registry
}

// Reset drops every memoized schema.
func (g *Generator) Reset() {
	g.mu.Lock()
	g.cache = make(map[string]*jsonschema.Schema)
	g.epoch++
	g.mu.Unlock()
}

// Generate returns the object schema describing widgetType's settings.
// Properties follow the registry's declaration order.
func (g *Generator) Generate(ctx context.Context, widgetType string) (*jsonschema.Schema, error) {
	g.mu.Lock()
	cached, ok := g.cache[widgetType]
	epoch := g.epoch
	g.mu.Unlock()
	if ok {
		return cached, nil
	}

	ctrls, err := g.registry.Controls(ctx, widgetType)
	if err != nil {
		return nil, err
	}

	s := &jsonschema.Schema{
		Type:        "object",
		Description: fmt.Sprintf("Settings for the %s widget", widgetType),
		Properties:  orderedmap.New[string, *jsonschema.Schema](),
	}
	for _, c := range ctrls {
		if c.Name == "" {
			continue
		}
		frag, ok := controls.Map(c)
		if !ok {
			continue
		}
		s.Properties.Set(c.Name, frag)
	}

	// A Reset during the build means s may describe the previous registry.
	g.mu.Lock()
	if g.epoch == epoch {
		g.cache[widgetType] = s
	}
	g.mu.Unlock()
	return s, nil
}

// PropertyNames returns the schema's property names in declaration order.
func PropertyNames(s *jsonschema.Schema) []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}
