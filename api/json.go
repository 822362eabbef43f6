package api

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Node and StructureItem carry their own codecs. Children are handled one
// level at a time as raw messages, so the encoder never compiles a
// self-referential type.

type nodeJSON struct {
	ID         string            `json:"id"`
	Kind       Kind              `json:"elType"`
	WidgetType string            `json:"widgetType,omitempty"`
	IsInner    bool              `json:"isInner"`
	Settings   Settings          `json:"settings"`
	Children   []json.RawMessage `json:"elements"`
}

var null = []byte("null")

// MarshalJSON encodes the node and its subtree. A nil child list is written
// as an empty array.
func (n Node) MarshalJSON() ([]byte, error) {
	children, err := marshalChildren(n.Children)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeJSON{
		ID:         n.ID,
		Kind:       n.Kind,
		WidgetType: n.WidgetType,
		IsInner:    n.IsInner,
		Settings:   n.Settings,
		Children:   children,
	})
}

func marshalChildren(nodes []*Node) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(nodes))
	for i, c := range nodes {
		if c == nil {
			out[i] = null
			continue
		}
		b, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// UnmarshalJSON decodes a node and its subtree. An absent or null
// "elements" leaves Children nil.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Node{
		ID:         raw.ID,
		Kind:       raw.Kind,
		WidgetType: raw.WidgetType,
		IsInner:    raw.IsInner,
		Settings:   raw.Settings,
	}
	if raw.Children == nil {
		return nil
	}
	n.Children = make([]*Node, len(raw.Children))
	for i, b := range raw.Children {
		if bytes.Equal(bytes.TrimSpace(b), null) {
			continue
		}
		c := &Node{}
		if err := c.UnmarshalJSON(b); err != nil {
			return err
		}
		n.Children[i] = c
	}
	return nil
}

type structureItemJSON struct {
	Type       string            `json:"type"`
	WidgetType string            `json:"widgetType,omitempty"`
	Settings   Settings          `json:"settings,omitempty"`
	Children   []json.RawMessage `json:"children,omitempty"`
}

func (s StructureItem) MarshalJSON() ([]byte, error) {
	raw := structureItemJSON{Type: s.Type, WidgetType: s.WidgetType, Settings: s.Settings}
	for _, c := range s.Children {
		b, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		raw.Children = append(raw.Children, b)
	}
	return json.Marshal(raw)
}

func (s *StructureItem) UnmarshalJSON(data []byte) error {
	var raw structureItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = StructureItem{Type: raw.Type, WidgetType: raw.WidgetType, Settings: raw.Settings}
	if len(raw.Children) == 0 {
		return nil
	}
	s.Children = make([]StructureItem, len(raw.Children))
	for i, b := range raw.Children {
		if bytes.Equal(bytes.TrimSpace(b), null) {
			continue
		}
		if err := s.Children[i].UnmarshalJSON(b); err != nil {
			return err
		}
	}
	return nil
}
