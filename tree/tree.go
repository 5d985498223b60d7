package tree

import (
	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

// RootKey is the rendered path of a wrapper relative to itself, used in
// notifications and validation results.
const RootKey = "$"

type Tree struct {
	node     *ir.Node
	key      string
	parent   *Tree
	registry *eval.Registry
	bindings map[string]any

	cache map[string]*Tree

	subs     []*subscription
	nextSub  int
	batching int
	pending  []ir.Path
}

type Option func(*Tree)

// WithRegistry sets the registry used by evaluating operations on the
// wrapper and its descendants.
func WithRegistry(r *eval.Registry) Option {
	return func(t *Tree) { t.registry = r }
}

// WithBindings sets named values visible to references evaluated on the
// wrapper and its descendants.
func WithBindings(vars map[string]any) Option {
	return func(t *Tree) { t.bindings = vars }
}

// New wraps root.
func New(root *ir.Node, opts ...Option) *Tree {
	t := &Tree{node: root}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tree) Node() *ir.Node { return t.node }
func (t *Tree) ID() string     { return t.node.ID }

// Key returns the key under which t is held by its parent, "" for a root.
func (t *Tree) Key() string   { return t.key }
func (t *Tree) Parent() *Tree { return t.parent }

func (t *Tree) Root() *Tree {
	r := t
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Path returns the keys leading from the root wrapper to t.
func (t *Tree) Path() ir.Path {
	return t.pathFrom(nil)
}

func (t *Tree) pathFrom(anc *Tree) ir.Path {
	n := 0
	for w := t; w != anc && w.parent != nil; w = w.parent {
		n++
	}
	res := make(ir.Path, n)
	for w := t; w != anc && w.parent != nil; w = w.parent {
		n--
		res[n] = w.key
	}
	return res
}

// Registry returns the registry of t or of its nearest ancestor having
// one.
func (t *Tree) Registry() *eval.Registry {
	for w := t; w != nil; w = w.parent {
		if w.registry != nil {
			return w.registry
		}
	}
	return nil
}

// SetRegistry sets the registry of t, shadowing any ancestor's.
func (t *Tree) SetRegistry(r *eval.Registry) {
	t.registry = r
}

// Bindings returns the bindings of t or of its nearest ancestor having
// any.
func (t *Tree) Bindings() map[string]any {
	for w := t; w != nil; w = w.parent {
		if w.bindings != nil {
			return w.bindings
		}
	}
	return nil
}

// Child returns the wrapper of the child at key, or nil if there is no
// such child. The wrapper is cached as long as the child node stays the
// same.
func (t *Tree) Child(key string) *Tree {
	c := t.node.Children[key]
	if c == nil {
		t.invalidate(key)
		return nil
	}
	if w := t.cache[key]; w != nil && w.node == c {
		return w
	}
	t.invalidate(key)
	w := &Tree{node: c, key: key, parent: t}
	if t.cache == nil {
		t.cache = map[string]*Tree{}
	}
	t.cache[key] = w
	return w
}

// invalidate drops the cached wrapper at key, detaching it.
func (t *Tree) invalidate(key string) {
	if w := t.cache[key]; w != nil {
		w.parent = nil
		delete(t.cache, key)
	}
}

// ChildKeys returns the keys of t's children, sorted.
func (t *Tree) ChildKeys() []string {
	return ir.SortedKeys(t.node.Children)
}

// Children returns the wrappers of t's children in key order.
func (t *Tree) Children() []*Tree {
	keys := t.ChildKeys()
	res := make([]*Tree, 0, len(keys))
	for _, k := range keys {
		if c := t.Child(k); c != nil {
			res = append(res, c)
		}
	}
	return res
}

// At follows path through children and returns the wrapper found there,
// or nil.
func (t *Tree) At(path ...string) *Tree {
	w := t
	for _, k := range path {
		if w = w.Child(k); w == nil {
			return nil
		}
	}
	return w
}

func (t *Tree) evalContext() (*eval.Context, error) {
	reg := t.Registry()
	if reg == nil {
		return nil, ErrNoRegistry
	}
	root := t.Root()
	return &eval.Context{
		Self:     t.node,
		Root:     root.node,
		Registry: reg,
		Bindings: t.Bindings(),
		ParentOf: func(n *ir.Node) *ir.Node {
			for w := t; w != nil; w = w.parent {
				if w.node != n {
					continue
				}
				if w.parent == nil {
					return nil
				}
				return w.parent.node
			}
			return ir.FindParent(root.node, n)
		},
	}, nil
}
