package tree

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/tony-format/nodal/ir"
)

// ValueKey holds a node's own value in a snapshot when the node also has
// children.
const ValueKey = "$value"

// Serialize returns the structural projection of the wrapped subtree.
func (t *Tree) Serialize() *ir.Serial {
	return ir.ToSerial(t.node)
}

// Deserialize builds a tree from s, resolving type ids with resolve. A
// nil resolve creates one type node per distinct id.
func Deserialize(s *ir.Serial, resolve ir.Resolver, opts ...Option) (*Tree, error) {
	n, err := ir.FromSerial(s, resolve)
	if err != nil {
		return nil, err
	}
	return New(n, opts...), nil
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Serialize())
}

// Clone returns a new root wrapper over a deep copy of the wrapped
// subtree, with the same registry and no subscriptions.
func (t *Tree) Clone() *Tree {
	return New(t.node.Clone(), WithRegistry(t.Registry()), WithBindings(t.Bindings()))
}

// Equal reports whether t and o wrap structurally equal subtrees.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	return ir.Equal(t.node, o.node)
}

// Snapshot evaluates the subtree into plain values. A node without
// children yields its evaluated value; a node with children yields a map
// of its children's snapshots, with its own value, if any, under
// ValueKey.
func (t *Tree) Snapshot(ctx context.Context) (any, error) {
	v, err := t.GetValue(ctx)
	if err != nil {
		return nil, err
	}
	keys := t.ChildKeys()
	if len(keys) == 0 {
		return v, nil
	}
	res := make(map[string]any, len(keys)+1)
	for _, c := range t.Children() {
		cv, err := c.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		res[c.key] = cv
	}
	if v != nil {
		res[ValueKey] = v
	}
	return res, nil
}

// Transaction runs fn and, if it fails or panics, restores the subtree
// to its state before fn. The error is returned and a panic resumed
// after the restore, which is notified like any other change.
func (t *Tree) Transaction(fn func() error) (err error) {
	saved := t.node.Clone()
	defer func() {
		r := recover()
		if r == nil && err == nil {
			return
		}
		t.restore(saved)
		if r != nil {
			panic(r)
		}
	}()
	return fn()
}

func (t *Tree) restore(n *ir.Node) {
	assign(t.node, n)
	t.notify(nil)
}

// assign overwrites dst with src in place, reusing the nodes of dst's
// children wherever src has a child at the same key so that wrappers
// over them stay valid. A node reachable under several keys is reused
// for the first of them only.
func assign(dst, src *ir.Node) {
	assignClaimed(dst, src, map[*ir.Node]bool{dst: true})
}

func assignClaimed(dst, src *ir.Node, claimed map[*ir.Node]bool) {
	dst.ID = src.ID
	dst.Type = src.Type
	dst.Value = src.Value
	dst.Default = src.Default
	dst.Metadata = src.Metadata
	dst.Constraints = src.Constraints
	if src.Children == nil {
		dst.Children = nil
		return
	}
	children := make(map[string]*ir.Node, len(src.Children))
	for _, k := range ir.SortedKeys(src.Children) {
		c := src.Children[k]
		if old := dst.Children[k]; old != nil && c != nil && old != c && !claimed[old] {
			claimed[old] = true
			assignClaimed(old, c, claimed)
			c = old
		}
		children[k] = c
	}
	dst.Children = children
}

// ApplyPatch applies an RFC 6902 JSON patch to the serialized form of the
// subtree and replaces the subtree with the result. Types are resolved
// against the types currently in use. On error the subtree is left
// unchanged.
func (t *Tree) ApplyPatch(patch []byte, opts ...SetOption) error {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return err
	}
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("decoding patch: %w", err)
	}
	doc, err := json.Marshal(w.Serialize())
	if err != nil {
		return err
	}
	out, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("applying patch: %w", err)
	}
	s := &ir.Serial{}
	if err := json.Unmarshal(out, s); err != nil {
		return fmt.Errorf("%w: %w", ir.ErrBadSerial, err)
	}
	types := ir.NewTypeTable()
	types.CollectTypes(w.node)
	n, err := ir.FromSerial(s, types.Resolve)
	if err != nil {
		return err
	}
	assign(w.node, n)
	if !o.silent {
		w.notify(nil)
	}
	return nil
}
