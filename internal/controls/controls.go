// Package controls maps widget control descriptors to JSON Schema fragments.
package controls

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/agentic-research/canopy/api"
)

// Control kinds understood by the mapper.
const (
	Text        = "text"
	Textarea    = "textarea"
	Wysiwyg     = "wysiwyg"
	Code        = "code"
	Hidden      = "hidden"
	Number      = "number"
	Slider      = "slider"
	Select      = "select"
	Select2     = "select2"
	Choose      = "choose"
	Switcher    = "switcher"
	Color       = "color"
	URL         = "url"
	Media       = "media"
	Icons       = "icons"
	Dimensions  = "dimensions"
	Repeater    = "repeater"
	DateTime    = "date_time"
	Gallery     = "gallery"
	BoxShadow   = "box_shadow"
	TextShadow  = "text_shadow"
	SectionKind = "section"
)

// structural lists control kinds that only shape the editing panel and never
// hold a setting value.
var structural = map[string]struct{}{
	SectionKind:         {},
	"tab":               {},
	"tabs":              {},
	"heading":           {},
	"divider":           {},
	"raw_html":          {},
	"button":            {},
	"notice":            {},
	"alert":             {},
	"deprecated_notice": {},
}

// IsStructural reports whether kind is a panel-only control.
func IsStructural(kind string) bool {
	_, ok := structural[kind]
	return ok
}

// Map returns the schema fragment for c, or false when c is a panel-only control.
// Unknown kinds map to a plain string.
func Map(c api.Control) (*jsonschema.Schema, bool) {
	if IsStructural(c.Type) {
		return nil, false
	}

	s := fragment(c)
	if c.Label != "" {
		s.Description = c.Label
	}
	if isScalar(c.Default) {
		s.Default = c.Default
	}
	return s, true
}

func fragment(c api.Control) *jsonschema.Schema {
	switch c.Type {
	case Text, Textarea, Wysiwyg, Code, Hidden, Color:
		return str()
	case Number:
		return num()
	case Slider:
		return object(
			prop{"size", num()},
			prop{"unit", str()},
		)
	case Select, Select2, Choose:
		s := str()
		for _, o := range c.Options {
			s.Enum = append(s.Enum, o.Key)
		}
		return s
	case Switcher:
		// The settings consumer reads "yes" / "" rather than a JSON boolean.
		s := str()
		s.Enum = []any{"yes", ""}
		return s
	case URL:
		return object(
			prop{"url", str()},
			prop{"is_external", boolean()},
			prop{"nofollow", boolean()},
		)
	case Media:
		return object(
			prop{"url", str()},
			prop{"id", integer()},
		)
	case Icons:
		return object(
			prop{"value", str()},
			prop{"library", str()},
		)
	case Dimensions:
		return object(
			prop{"top", str()},
			prop{"right", str()},
			prop{"bottom", str()},
			prop{"left", str()},
			prop{"unit", str()},
			prop{"isLinked", boolean()},
		)
	case Repeater:
		item := object()
		for _, f := range c.Fields {
			if fs, ok := Map(f); ok && f.Name != "" {
				item.Properties.Set(f.Name, fs)
			}
		}
		return &jsonschema.Schema{Type: "array", Items: item}
	case DateTime:
		s := str()
		s.Format = "date-time"
		return s
	case Gallery:
		return &jsonschema.Schema{
			Type: "array",
			Items: object(
				prop{"id", integer()},
				prop{"url", str()},
			),
		}
	case BoxShadow:
		return object(
			prop{"horizontal", num()},
			prop{"vertical", num()},
			prop{"blur", num()},
			prop{"spread", num()},
			prop{"color", str()},
		)
	case TextShadow:
		return object(
			prop{"horizontal", num()},
			prop{"vertical", num()},
			prop{"blur", num()},
			prop{"color", str()},
		)
	default:
		return str()
	}
}

type prop struct {
	name   string
	schema *jsonschema.Schema
}

func object(props ...prop) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}
	for _, p := range props {
		s.Properties.Set(p.name, p.schema)
	}
	return s
}

func str() *jsonschema.Schema     { return &jsonschema.Schema{Type: "string"} }
func num() *jsonschema.Schema     { return &jsonschema.Schema{Type: "number"} }
func integer() *jsonschema.Schema { return &jsonschema.Schema{Type: "integer"} }
func boolean() *jsonschema.Schema { return &jsonschema.Schema{Type: "boolean"} }

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
