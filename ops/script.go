package ops

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

// script evaluates an expr-lang program: expr(src) or expr(src, vars).
// The program sees the current bindings, the entries of vars, and the
// functions of exprOpts.
func script(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("expr", args, 1, 2); err != nil {
		return nil, err
	}
	vs, err := eval.EvalSeq(ctx, args, ec)
	if err != nil {
		return nil, err
	}
	src, ok := vs[0].(string)
	if !ok {
		return nil, fmt.Errorf("expr: %w: source is %T", ErrType, vs[0])
	}
	env := map[string]any{}
	for k, v := range ec.Bindings {
		if env[k], err = plain(ctx, v, ec); err != nil {
			return nil, err
		}
	}
	if len(vs) == 2 && vs[1] != nil {
		vars, ok := vs[1].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expr: %w: vars are %T", ErrType, vs[1])
		}
		maps.Copy(env, vars)
	}
	if debug.Op() {
		debug.Logf("expr %q with %d vars\n", src, len(env))
	}
	prg, err := expr.Compile(src, exprOpts(ctx, ec)...)
	if err != nil {
		return nil, fmt.Errorf("expr: %w", err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return nil, fmt.Errorf("expr: %w", err)
	}
	return res, nil
}

func exprOpts(ctx context.Context, ec *eval.Context) []expr.Option {
	return []expr.Option{
		expr.Function("ref", func(params ...any) (any, error) {
			p, err := ir.ParsePath(params[0].(string))
			if err != nil {
				return nil, err
			}
			v, err := eval.Resolve(ctx, p, ec)
			if err != nil {
				return nil, err
			}
			return plain(ctx, v, ec)
		},
			new(func(string) any)),
		expr.Function("whoami", func(params ...any) (any, error) {
			if ec.Self == nil {
				return "", nil
			}
			return ec.Self.ID, nil
		},
			new(func() string)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// osEnv returns the value of the environment variable named by its
// argument.
func osEnv(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("env", args, 1); err != nil {
		return nil, err
	}
	v, err := eval.EvalOne(ctx, args[0], ec)
	if err != nil {
		return nil, err
	}
	name, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("env: %w: name is %T", ErrType, v)
	}
	return os.Getenv(strings.TrimSpace(name)), nil
}
