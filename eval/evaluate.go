package eval

import (
	"context"
	"fmt"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/ir"
)

// Evaluate computes the value of expr in ec.
//
// Literals yield their value, references are resolved with [Resolve] and
// operators are dispatched through ec.Registry. Any other node yields its
// raw value. A nil ec is treated as an empty context.
func Evaluate(ctx context.Context, expr *ir.Node, ec *Context) (any, error) {
	if ec == nil {
		ec = &Context{}
	}
	next, err := ec.descend()
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, nil
	}
	if debug.Eval() {
		debug.Logf("eval %s %q depth %d\n", expr.Kind(), expr.ID, next.Depth)
	}
	switch expr.Kind() {
	case ir.LiteralKind:
		return expr.Value, nil
	case ir.OperatorKind:
		return call(ctx, expr, next)
	case ir.ReferenceKind:
		return resolve(ctx, expr.RefSegments(), next)
	default:
		return expr.Value, nil
	}
}

func call(ctx context.Context, expr *ir.Node, ec *Context) (any, error) {
	fn, ok := ec.Registry.Get(expr.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, expr.ID)
	}
	args, err := expr.Args()
	if err != nil {
		return nil, fmt.Errorf("operator %s: %w", expr.ID, err)
	}
	if debug.Op() {
		debug.Logf("op %s with %d args\n", expr.ID, len(args))
	}
	res, err := fn(ctx, args, ec)
	if err != nil {
		return nil, err
	}
	return Await(ctx, res)
}

// Value evaluates the value held by n with n as self. An expression value
// is evaluated, a nested node's value is computed recursively, and any
// other value is returned as is.
func Value(ctx context.Context, n *ir.Node, ec *Context) (any, error) {
	if n == nil {
		return nil, nil
	}
	if ec == nil {
		ec = &Context{}
	}
	return valueOf(ctx, n, n, ec)
}

func valueOf(ctx context.Context, n, owner *ir.Node, ec *Context) (any, error) {
	v, ok := ir.AsNode(n.Value)
	if !ok {
		return n.Value, nil
	}
	if ir.IsExpression(v) {
		return Evaluate(ctx, v, ec.WithSelf(owner))
	}
	next, err := ec.descend()
	if err != nil {
		return nil, err
	}
	return valueOf(ctx, v, v, next)
}

// Owned evaluates n as held in the metadata or constraints of owner:
// expressions, and the value of any other node, are evaluated with owner
// as self.
func Owned(ctx context.Context, n, owner *ir.Node, ec *Context) (any, error) {
	if n == nil {
		return nil, nil
	}
	if ec == nil {
		ec = &Context{}
	}
	if ir.IsExpression(n) {
		return Evaluate(ctx, n, ec.WithSelf(owner))
	}
	return valueOf(ctx, n, owner, ec)
}
