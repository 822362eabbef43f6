// Package catalog is a static widget type registry loaded from YAML.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/schema"
)

//go:embed widgets.yaml
var builtin []byte

type file struct {
	Widgets []entry `yaml:"widgets"`
}

type entry struct {
	api.WidgetType `yaml:",inline"`
	Controls       []api.Control `yaml:"controls"`
}

// Catalog holds widget types in declaration order. It is immutable after load.
type Catalog struct {
	order []string
	types map[string]entry
}

// Load decodes a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode widget catalog: %w", err)
	}

	c := &Catalog{types: make(map[string]entry, len(f.Widgets))}
	for i, w := range f.Widgets {
		if w.Name == "" {
			return nil, fmt.Errorf("widget catalog entry %d: missing name", i)
		}
		if _, dup := c.types[w.Name]; dup {
			return nil, fmt.Errorf("widget catalog: duplicate widget %q", w.Name)
		}
		c.order = append(c.order, w.Name)
		c.types[w.Name] = w
	}
	return c, nil
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open widget catalog %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // read-only

	return Load(f)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic("catalog: built-in widgets.yaml: " + err.Error())
	}
	return c
}

// Names returns widget type names in declaration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Types implements schema.Registry.
func (c *Catalog) Types(context.Context) (map[string]api.WidgetType, error) {
	out := make(map[string]api.WidgetType, len(c.types))
	for name, e := range c.types {
		out[name] = e.WidgetType
	}
	return out, nil
}

// Controls implements schema.Registry.
func (c *Catalog) Controls(_ context.Context, widgetType string) ([]api.Control, error) {
	e, ok := c.types[widgetType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", schema.ErrUnknownWidget, widgetType)
	}
	return append([]api.Control(nil), e.Controls...), nil
}

// Categories returns every category used by the catalog, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, e := range c.types {
		for _, cat := range e.Categories {
			seen[cat] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
