// Package tree implements the recursive operations over a page tree.
//
// A tree is the document's root-level node sequence. Every operation searches
// the whole tree depth-first; there are no parent pointers, so locating a
// parent is a walk from the root each time. Absence is reported through
// boolean or nil returns, never as an error. A nil node inside a tree is a
// broken caller contract and panics.
//
// Operations that may grow or shrink the root sequence return the new slice,
// the same way append does.
package tree

import (
	"github.com/agentic-research/canopy/api"
	"github.com/agentic-research/canopy/internal/ident"
)

func mustNode(n *api.Node) *api.Node {
	if n == nil {
		panic("tree: nil node in tree")
	}
	return n
}

// Find returns the first node with the given id in depth-first order, or nil.
// Ids are unique by invariant; which duplicate wins if that is violated is
// incidental.
func Find(nodes []*api.Node, id string) *api.Node {
	for _, n := range nodes {
		mustNode(n)
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Locate returns the node with the given id together with its parent (nil
// for root-level nodes) and its index in the parent's children.
func Locate(nodes []*api.Node, id string) (node, parent *api.Node, index int, ok bool) {
	return locate(nodes, nil, id)
}

func locate(nodes []*api.Node, parent *api.Node, id string) (*api.Node, *api.Node, int, bool) {
	for i, n := range nodes {
		mustNode(n)
		if n.ID == id {
			return n, parent, i, true
		}
		if found, p, idx, ok := locate(n.Children, n, id); ok {
			return found, p, idx, true
		}
	}
	return nil, nil, -1, false
}

// Insert places n into the children of the node parentID at position. An
// empty parentID targets the root sequence. A negative or out-of-range
// position appends. Returns false, leaving the tree untouched, if parentID is
// not empty and matches no node.
func Insert(nodes []*api.Node, parentID string, n *api.Node, position int) ([]*api.Node, bool) {
	mustNode(n)
	if parentID == "" {
		return insertAt(nodes, n, position), true
	}
	parent := Find(nodes, parentID)
	if parent == nil {
		return nodes, false
	}
	parent.Children = insertAt(parent.Children, n, position)
	return nodes, true
}

func insertAt(seq []*api.Node, n *api.Node, position int) []*api.Node {
	if position < 0 || position >= len(seq) {
		return append(seq, n)
	}
	seq = append(seq, nil)
	copy(seq[position+1:], seq[position:])
	seq[position] = n
	return seq
}

// InsertAfter splices n immediately after the node targetID, in whichever
// sequence holds it. Returns false if targetID is not in the tree.
func InsertAfter(nodes []*api.Node, targetID string, n *api.Node) ([]*api.Node, bool) {
	mustNode(n)
	_, parent, idx, ok := Locate(nodes, targetID)
	if !ok {
		return nodes, false
	}
	if parent == nil {
		return insertAt(nodes, n, idx+1), true
	}
	parent.Children = insertAt(parent.Children, n, idx+1)
	return nodes, true
}

// Remove splices the node id, with its whole subtree, out of the sequence
// holding it. Returns false, leaving the tree untouched, if id is not found.
func Remove(nodes []*api.Node, id string) ([]*api.Node, bool) {
	_, parent, idx, ok := Locate(nodes, id)
	if !ok {
		return nodes, false
	}
	if parent == nil {
		return removeAt(nodes, idx), true
	}
	parent.Children = removeAt(parent.Children, idx)
	return nodes, true
}

func removeAt(seq []*api.Node, idx int) []*api.Node {
	out := make([]*api.Node, 0, len(seq)-1)
	out = append(out, seq[:idx]...)
	return append(out, seq[idx+1:]...)
}

// UpdateSettings shallow-merges partial into the settings of node id: top-level
// keys of partial replace existing ones wholesale, nested values are not
// merged. Returns false if id is not found.
func UpdateSettings(nodes []*api.Node, id string, partial api.Settings) bool {
	n := Find(nodes, id)
	if n == nil {
		return false
	}
	if n.Settings == nil {
		n.Settings = api.Settings{}
	}
	for k, v := range partial.Clone() {
		n.Settings[k] = v
	}
	return true
}

// ReassignIDs returns a deep copy of nodes in which every node at every depth
// carries a fresh id. New ids avoid the originals and anything already in
// used; used (if not nil) is extended with both.
func ReassignIDs(nodes []*api.Node, src ident.Source, used *ident.Set) []*api.Node {
	used = withOriginals(nodes, used)
	out := make([]*api.Node, len(nodes))
	for i, n := range nodes {
		out[i] = reassign(mustNode(n), src, used)
	}
	return out
}

// ReassignNodeIDs is ReassignIDs rooted at a single node.
func ReassignNodeIDs(n *api.Node, src ident.Source, used *ident.Set) *api.Node {
	mustNode(n)
	used = withOriginals([]*api.Node{n}, used)
	return reassign(n, src, used)
}

func withOriginals(nodes []*api.Node, used *ident.Set) *ident.Set {
	if used == nil {
		used = ident.NewSet()
	}
	Walk(nodes, func(n *api.Node, _ int) bool {
		used.Add(n.ID)
		return true
	})
	return used
}

func reassign(n *api.Node, src ident.Source, used *ident.Set) *api.Node {
	c := &api.Node{
		ID:         ident.Fresh(src, used),
		Kind:       n.Kind,
		WidgetType: n.WidgetType,
		IsInner:    n.IsInner,
		Settings:   n.Settings.Clone(),
		Children:   make([]*api.Node, len(n.Children)),
	}
	for i, child := range n.Children {
		c.Children[i] = reassign(mustNode(child), src, used)
	}
	return c
}

// Count returns the number of nodes in the tree, descendants included.
func Count(nodes []*api.Node) int {
	total := 0
	Walk(nodes, func(*api.Node, int) bool {
		total++
		return true
	})
	return total
}

// Walk visits every node depth-first, pre-order, with its depth (0 for root
// nodes). Returning false from fn skips that node's children.
func Walk(nodes []*api.Node, fn func(n *api.Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []*api.Node, depth int, fn func(*api.Node, int) bool) {
	for _, n := range nodes {
		mustNode(n)
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// IDs collects every id in the tree.
func IDs(nodes []*api.Node) *ident.Set {
	return withOriginals(nodes, nil)
}

// Contains reports whether the subtree rooted at n (n included) holds id.
func Contains(n *api.Node, id string) bool {
	return Find([]*api.Node{n}, id) != nil
}
