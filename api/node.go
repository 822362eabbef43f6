package api

// Kind names the structural role of a node in a page tree.
type Kind string

const (
	KindContainer Kind = "container"
	KindWidget    Kind = "widget"
	// Legacy layout kinds. Structurally identical to a container, without flex semantics.
	KindSection Kind = "section"
	KindColumn  Kind = "column"
)

// Valid reports whether k is one of the known node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindContainer, KindWidget, KindSection, KindColumn:
		return true
	}
	return false
}

// Settings is the open-ended settings bag of a node or document.
// Values are JSON-compatible: strings, numbers, booleans, nested maps, slices.
type Settings map[string]any

// Node is one entry in a document tree.
//
// The JSON field names are the ones the document store persists; they map
// 1:1 onto id/kind/widgetType/isInner/settings/children.
type Node struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"elType"`
	WidgetType string   `json:"widgetType,omitempty"`
	IsInner    bool     `json:"isInner"`
	Settings   Settings `json:"settings"`
	Children   []*Node  `json:"elements"`
}

// IsWidget reports whether the node renders a registry widget.
func (n *Node) IsWidget() bool {
	return n.Kind == KindWidget
}

// Document is a page as seen by the document store: metadata, a root-level
// element sequence and a flat settings map disjoint from any node's settings.
type Document struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Status   string   `json:"status"`
	Kind     string   `json:"type"`
	Revision int64    `json:"revision"`
	Elements []*Node  `json:"elements"`
	Settings Settings `json:"settings"`
}

// StructureItem is the declarative input of the structure compiler.
// It only lives for the duration of one compile call.
type StructureItem struct {
	Type       string          `json:"type"`
	WidgetType string          `json:"widgetType,omitempty"`
	Settings   Settings        `json:"settings,omitempty"`
	Children   []StructureItem `json:"children,omitempty"`
}
