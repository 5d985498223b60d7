package eval

import (
	"maps"

	"github.com/signadot/tony-format/nodal/ir"
)

// MaxDepth bounds the nesting of evaluations.
const MaxDepth = 1000

// Context is the environment of an evaluation. Contexts are treated as
// immutable: helpers return modified copies.
type Context struct {
	// Self is the node references resolve against by default.
	Self *ir.Node
	// Root is the tree root, the origin of "root" references and of
	// parent lookups when ParentOf is nil.
	Root     *ir.Node
	Registry *Registry
	// Bindings are named values visible to references, such as the
	// item of a collection operator.
	Bindings map[string]any
	Depth    int
	// ParentOf, if set, returns the parent of a node in the tree.
	ParentOf func(*ir.Node) *ir.Node
}

// WithSelf returns a copy of c with Self set to n.
func (c *Context) WithSelf(n *ir.Node) *Context {
	cc := *c
	cc.Self = n
	return &cc
}

// Bind returns a copy of ec whose bindings are ec's merged with vars,
// vars taking precedence. ec is not modified.
func Bind(ec *Context, vars map[string]any) *Context {
	cc := *ec
	cc.Bindings = make(map[string]any, len(ec.Bindings)+len(vars))
	maps.Copy(cc.Bindings, ec.Bindings)
	maps.Copy(cc.Bindings, vars)
	return &cc
}

func (c *Context) parentOf(n *ir.Node) *ir.Node {
	if n == nil {
		return nil
	}
	if c.ParentOf != nil {
		return c.ParentOf(n)
	}
	return ir.FindParent(c.Root, n)
}

func (c *Context) descend() (*Context, error) {
	if c.Depth+1 > MaxDepth {
		return nil, ErrMaxDepth
	}
	cc := *c
	cc.Depth++
	return &cc, nil
}
