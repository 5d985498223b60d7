package ops

import (
	"context"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

// and is true unless some argument is falsy, evaluating no argument after
// the first falsy one.
func and(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	for _, a := range args {
		v, err := eval.EvalOne(ctx, a, ec)
		if err != nil {
			return nil, err
		}
		if !ir.Truth(v) {
			return false, nil
		}
	}
	return true, nil
}

func or(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	for _, a := range args {
		v, err := eval.EvalOne(ctx, a, ec)
		if err != nil {
			return nil, err
		}
		if ir.Truth(v) {
			return true, nil
		}
	}
	return false, nil
}

func not(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("not", args, 1); err != nil {
		return nil, err
	}
	v, err := eval.EvalOne(ctx, args[0], ec)
	if err != nil {
		return nil, err
	}
	return !ir.Truth(v), nil
}

// ifOp evaluates its condition and then only the selected branch. A
// missing else branch yields nil.
func ifOp(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("if", args, 2, 3); err != nil {
		return nil, err
	}
	c, err := eval.EvalOne(ctx, args[0], ec)
	if err != nil {
		return nil, err
	}
	if ir.Truth(c) {
		return eval.EvalOne(ctx, args[1], ec)
	}
	if len(args) == 3 {
		return eval.EvalOne(ctx, args[2], ec)
	}
	return nil, nil
}
