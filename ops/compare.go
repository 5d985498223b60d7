package ops

import (
	"cmp"
	"context"
	"fmt"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

func pair(ctx context.Context, name string, args []*ir.Node, ec *eval.Context) (any, any, error) {
	if err := arity(name, args, 2); err != nil {
		return nil, nil, err
	}
	vs, err := eval.EvalSeq(ctx, args, ec)
	if err != nil {
		return nil, nil, err
	}
	return vs[0], vs[1], nil
}

func eq(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	a, b, err := pair(ctx, "eq", args, ec)
	if err != nil {
		return nil, err
	}
	return ir.ValueEqual(a, b), nil
}

func ne(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	a, b, err := pair(ctx, "ne", args, ec)
	if err != nil {
		return nil, err
	}
	return !ir.ValueEqual(a, b), nil
}

// compareOp orders two numbers or two strings.
func compareOp(ok func(int) bool) eval.Func {
	return func(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
		a, b, err := pair(ctx, "compare", args, ec)
		if err != nil {
			return nil, err
		}
		c, err := compare(a, b)
		if err != nil {
			return nil, err
		}
		return ok(c), nil
	}
}

func compare(a, b any) (int, error) {
	if fa, ok := ir.ToFloat(a); ok {
		if fb, ok := ir.ToFloat(b); ok {
			return cmp.Compare(fa, fb), nil
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return cmp.Compare(sa, sb), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot compare %T and %T", ErrType, a, b)
}
