package tree

import (
	"context"
	"fmt"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

type setOpts struct {
	silent bool
	path   []string
}

// SetOption configures a mutation.
type SetOption func(*setOpts)

// Silent suppresses change notification.
func Silent() SetOption {
	return func(o *setOpts) { o.silent = true }
}

// AtPath applies the mutation to the descendant at path instead of the
// receiver.
func AtPath(path ...string) SetOption {
	return func(o *setOpts) { o.path = path }
}

func mutOpts(opts []SetOption) *setOpts {
	o := &setOpts{}
	for _, f := range opts {
		f(o)
	}
	return o
}

func (t *Tree) target(o *setOpts) (*Tree, error) {
	if len(o.path) == 0 {
		return t, nil
	}
	w := t.At(o.path...)
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ir.Path(o.path))
	}
	return w, nil
}

// Value returns the raw value of the wrapped node.
func (t *Tree) Value() any { return t.node.Value }

// SetValue sets the raw value of the wrapped node, or of a descendant
// with AtPath.
func (t *Tree) SetValue(v any, opts ...SetOption) error {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return err
	}
	w.node.Value = v
	if !o.silent {
		w.notify(nil)
	}
	return nil
}

// GetValue evaluates the value of the wrapped node.
func (t *Tree) GetValue(ctx context.Context) (any, error) {
	ec, err := t.evalContext()
	if err != nil {
		return nil, err
	}
	return eval.Value(ctx, t.node, ec)
}

// GetMetadata evaluates the metadata entry at key with the wrapped node
// as self. A missing entry yields nil.
func (t *Tree) GetMetadata(ctx context.Context, key string) (any, error) {
	return t.owned(ctx, t.node.Metadata[key])
}

// GetConstraint evaluates the constraint at key with the wrapped node as
// self. A missing constraint yields nil.
func (t *Tree) GetConstraint(ctx context.Context, key string) (any, error) {
	return t.owned(ctx, t.node.Constraints[key])
}

// Eval evaluates expr with the wrapped node as self.
func (t *Tree) Eval(ctx context.Context, expr *ir.Node) (any, error) {
	return t.owned(ctx, expr)
}

func (t *Tree) owned(ctx context.Context, n *ir.Node) (any, error) {
	ec, err := t.evalContext()
	if err != nil {
		return nil, err
	}
	return eval.Owned(ctx, n, t.node, ec)
}

func (t *Tree) Metadata(key string) *ir.Node   { return t.node.Metadata[key] }
func (t *Tree) Constraint(key string) *ir.Node { return t.node.Constraints[key] }
func (t *Tree) MetadataKeys() []string         { return ir.SortedKeys(t.node.Metadata) }
func (t *Tree) ConstraintKeys() []string       { return ir.SortedKeys(t.node.Constraints) }

func (t *Tree) SetMetadata(key string, m *ir.Node, opts ...SetOption) error {
	return t.setAttached(key, m, func(n *ir.Node) *map[string]*ir.Node { return &n.Metadata }, opts)
}

func (t *Tree) SetConstraint(key string, c *ir.Node, opts ...SetOption) error {
	return t.setAttached(key, c, func(n *ir.Node) *map[string]*ir.Node { return &n.Constraints }, opts)
}

// RemoveMetadata removes the metadata entry at key, reporting whether it
// was present.
func (t *Tree) RemoveMetadata(key string, opts ...SetOption) (bool, error) {
	return t.removeAttached(key, func(n *ir.Node) *map[string]*ir.Node { return &n.Metadata }, opts)
}

func (t *Tree) RemoveConstraint(key string, opts ...SetOption) (bool, error) {
	return t.removeAttached(key, func(n *ir.Node) *map[string]*ir.Node { return &n.Constraints }, opts)
}

func (t *Tree) setAttached(key string, v *ir.Node, field func(*ir.Node) *map[string]*ir.Node, opts []SetOption) error {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return err
	}
	m := field(w.node)
	if *m == nil {
		*m = map[string]*ir.Node{}
	}
	(*m)[key] = v
	if !o.silent {
		w.notify(nil)
	}
	return nil
}

func (t *Tree) removeAttached(key string, field func(*ir.Node) *map[string]*ir.Node, opts []SetOption) (bool, error) {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return false, err
	}
	m := field(w.node)
	if _, ok := (*m)[key]; !ok {
		return false, nil
	}
	delete(*m, key)
	if !o.silent {
		w.notify(nil)
	}
	return true, nil
}

// Reset copies the default value back into the value.
func (t *Tree) Reset(opts ...SetOption) error {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return err
	}
	w.reset(o.silent)
	return nil
}

func (t *Tree) reset(silent bool) {
	t.node.Value = ir.CloneValue(t.node.Default)
	if !silent {
		t.notify(nil)
	}
}

// ResetDeep resets every node of the subtree, issuing a single
// notification for all of them.
func (t *Tree) ResetDeep(opts ...SetOption) error {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return err
	}
	if o.silent {
		w.Walk(func(d *Tree) bool {
			d.reset(true)
			return true
		})
		return nil
	}
	w.Batch(func() {
		w.Walk(func(d *Tree) bool {
			d.reset(false)
			return true
		})
	})
	return nil
}

// AddChild sets the child at key to n, replacing any existing child.
func (t *Tree) AddChild(key string, n *ir.Node, opts ...SetOption) error {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("nil child %q", key)
	}
	if w.node.Children == nil {
		w.node.Children = map[string]*ir.Node{}
	}
	w.node.Children[key] = n
	w.invalidate(key)
	if !o.silent {
		w.notify(ir.Path{key})
	}
	return nil
}

// RemoveChild removes the child at key, reporting whether it was present.
func (t *Tree) RemoveChild(key string, opts ...SetOption) (bool, error) {
	o := mutOpts(opts)
	w, err := t.target(o)
	if err != nil {
		return false, err
	}
	if _, ok := w.node.Children[key]; !ok {
		return false, nil
	}
	delete(w.node.Children, key)
	w.invalidate(key)
	if !o.silent {
		w.notify(ir.Path{key})
	}
	return true, nil
}
