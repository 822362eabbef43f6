package api

import "time"

// Option is one entry of an enumerated control, in declaration order.
type Option struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Control describes one configurable setting a widget type accepts.
type Control struct {
	Name    string    `json:"name" yaml:"name"`
	Type    string    `json:"type" yaml:"type"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Default any       `json:"default,omitempty" yaml:"default,omitempty"`
	Options []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Fields  []Control `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// WidgetType is the registry's summary of one widget type.
type WidgetType struct {
	Name       string   `json:"name" yaml:"name"`
	Title      string   `json:"title" yaml:"title"`
	Icon       string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Template is a reusable, saved element tree.
type Template struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"` // "page" or "section"
	Elements  []*Node   `json:"elements"`
	Settings  Settings  `json:"settings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Color is one site-wide color token.
type Color struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// Typography is one site-wide typography token. Fields beyond id and title
// are free-form typography settings (family, weight, size, ...).
type Typography struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Settings Settings `json:"settings,omitempty"`
}

// Tokens is the active global token set. In a partial update a nil slice
// leaves that half untouched.
type Tokens struct {
	Colors     []Color      `json:"colors"`
	Typography []Typography `json:"typography"`
}
