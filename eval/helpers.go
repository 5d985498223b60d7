package eval

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/signadot/tony-format/nodal/ir"
)

// EvalOne evaluates a single argument.
func EvalOne(ctx context.Context, arg *ir.Node, ec *Context) (any, error) {
	return Evaluate(ctx, arg, ec)
}

// EvalSeq evaluates args left to right, stopping at the first error.
func EvalSeq(ctx context.Context, args []*ir.Node, ec *Context) ([]any, error) {
	res := make([]any, len(args))
	for i, a := range args {
		v, err := Evaluate(ctx, a, ec)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

// EvalParallel evaluates args concurrently and returns their values in
// argument order. The first error cancels the context passed to the
// remaining evaluations.
//
// Operators reached from args run concurrently and must not mutate the
// tree.
func EvalParallel(ctx context.Context, args []*ir.Node, ec *Context) ([]any, error) {
	res := make([]any, len(args))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range args {
		g.Go(func() error {
			v, err := Evaluate(gctx, a, ec)
			if err != nil {
				return err
			}
			res[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
