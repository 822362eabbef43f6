package api

import (
	"github.com/tiendc/go-deepcopy"
)

// Clone returns a deep copy of s. Nested maps and slices are copied; scalar
// values are shared.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	var out Settings
	mustCopy(&out, &s)
	return out
}

// Clone returns a deep copy of n and its whole subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{}
	mustCopy(c, n)
	return c
}

// CloneNodes deep-copies a node sequence.
func CloneNodes(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// mustCopy copies between identical types, which deepcopy never rejects.
func mustCopy(dst, src any) {
	if err := deepcopy.Copy(dst, src); err != nil {
		panic("api: deep copy: " + err.Error())
	}
}
