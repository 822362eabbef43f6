// Package element constructs well-formed page-tree nodes.
//
// The factory does not validate settings: callers that accept settings from
// outside run them through the schema validator first.
package element

import (
	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/ident"
)

// ContainerDefaults are merged underneath caller settings for new containers.
var ContainerDefaults = api.Settings{
	"container_type": "flex",
	"content_width":  "boxed",
}

// ColumnDefaults are merged underneath caller settings for legacy columns.
var ColumnDefaults = api.Settings{
	"column_size": 100,
}

// Factory mints nodes with fresh ids.
type Factory struct {
	// NewID produces raw ids. Defaults to ident.Generate.
	NewID ident.Source
	// Used, when set, holds ids already present in the destination tree;
	// minted ids avoid and extend it.
	Used *ident.Set
}

// New returns a factory that avoids the ids in used (which may be nil).
func New(used *ident.Set) *Factory {
	return &Factory{NewID: ident.Generate, Used: used}
}

func (f *Factory) id() string {
	return ident.Fresh(f.NewID, f.Used)
}

// Container builds a page-root flex container. Caller settings win over defaults.
func (f *Factory) Container(settings api.Settings, children ...*api.Node) *api.Node {
	return &api.Node{
		ID:       f.id(),
		Kind:     api.KindContainer,
		Settings: merge(ContainerDefaults, settings),
		Children: nonNil(children),
	}
}

// Widget builds a widget node. Settings are taken as given, without defaults.
func (f *Factory) Widget(widgetType string, settings api.Settings) *api.Node {
	s := settings.Clone()
	if s == nil {
		s = api.Settings{}
	}
	return &api.Node{
		ID:         f.id(),
		Kind:       api.KindWidget,
		WidgetType: widgetType,
		Settings:   s,
		Children:   []*api.Node{},
	}
}

// Section builds a legacy section holding columns.
func (f *Factory) Section(settings api.Settings, columns ...*api.Node) *api.Node {
	s := settings.Clone()
	if s == nil {
		s = api.Settings{}
	}
	return &api.Node{
		ID:       f.id(),
		Kind:     api.KindSection,
		Settings: s,
		Children: nonNil(columns),
	}
}

// Column builds a legacy column holding widgets.
func (f *Factory) Column(settings api.Settings, widgets ...*api.Node) *api.Node {
	return &api.Node{
		ID:       f.id(),
		Kind:     api.KindColumn,
		Settings: merge(ColumnDefaults, settings),
		Children: nonNil(widgets),
	}
}

func merge(defaults, settings api.Settings) api.Settings {
	out := defaults.Clone()
	for k, v := range settings.Clone() {
		out[k] = v
	}
	return out
}

func nonNil(nodes []*api.Node) []*api.Node {
	if nodes == nil {
		return []*api.Node{}
	}
	return nodes
}
