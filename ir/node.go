package ir

import (
	"maps"
	"slices"
	"sync/atomic"
)

type Node struct {
	ID      string
	Type    *Node
	Value   any
	Default any

	Metadata    map[string]*Node
	Constraints map[string]*Node
	Children    map[string]*Node

	// memoized operator argument ordering, see ArgKeys
	argKeys atomic.Pointer[[]string]
}

// New creates a node of the given type. It panics if typ is nil.
func New(id string, typ *Node) *Node {
	if typ == nil {
		panic("ir: nil type for node " + id)
	}
	return &Node{ID: id, Type: typ}
}

func (n *Node) WithValue(v any) *Node {
	n.Value = v
	return n
}

func (n *Node) WithDefault(v any) *Node {
	n.Default = v
	return n
}

func (n *Node) WithChild(key string, c *Node) *Node {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	n.Children[key] = c
	return n
}

func (n *Node) WithMetadata(key string, m *Node) *Node {
	if n.Metadata == nil {
		n.Metadata = map[string]*Node{}
	}
	n.Metadata[key] = m
	return n
}

func (n *Node) WithConstraint(key string, c *Node) *Node {
	if n.Constraints == nil {
		n.Constraints = map[string]*Node{}
	}
	n.Constraints[key] = c
	return n
}

func (n *Node) HasValue() bool {
	return n != nil && n.Value != nil
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]*Node) []string {
	return slices.Sorted(maps.Keys(m))
}

func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	res := &Node{}
	return n.CloneTo(res)
}

// CloneTo deep copies n into dst. Type nodes are shared, not copied.
func (n *Node) CloneTo(dst *Node) *Node {
	dst.ID = n.ID
	dst.Type = n.Type
	dst.Value = CloneValue(n.Value)
	dst.Default = CloneValue(n.Default)
	dst.Metadata = cloneMap(n.Metadata)
	dst.Constraints = cloneMap(n.Constraints)
	dst.Children = cloneMap(n.Children)
	dst.argKeys.Store(nil)
	return dst
}

func cloneMap(m map[string]*Node) map[string]*Node {
	if m == nil {
		return nil
	}
	res := make(map[string]*Node, len(m))
	for k, v := range m {
		res[k] = v.Clone()
	}
	return res
}

// CloneValue deep copies the value forms a node may hold.
func CloneValue(v any) any {
	switch x := v.(type) {
	case *Node:
		return x.Clone()
	case []string:
		return slices.Clone(x)
	case []any:
		res := make([]any, len(x))
		for i := range x {
			res[i] = CloneValue(x[i])
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, xv := range x {
			res[k] = CloneValue(xv)
		}
		return res
	default:
		return v
	}
}

// FindParent searches depth first from root through children, metadata
// and constraints for the node holding target. It returns nil if target
// is root or not found.
func FindParent(root, target *Node) *Node {
	if root == nil || target == nil || root == target {
		return nil
	}
	return findParent(root, target)
}

func findParent(n, target *Node) *Node {
	for _, m := range [3]map[string]*Node{n.Children, n.Metadata, n.Constraints} {
		for _, c := range m {
			if c == target {
				return n
			}
		}
	}
	for _, m := range [3]map[string]*Node{n.Children, n.Metadata, n.Constraints} {
		for _, c := range m {
			if c == nil {
				continue
			}
			if p := findParent(c, target); p != nil {
				return p
			}
		}
	}
	return nil
}
