package ops

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

var ErrType = errors.New("type mismatch")

func symbols() map[string]eval.Func {
	return map[string]eval.Func{
		"and":      and,
		"or":       or,
		"not":      not,
		"if":       ifOp,
		"eq":       eq,
		"ne":       ne,
		"lt":       compareOp(func(c int) bool { return c < 0 }),
		"le":       compareOp(func(c int) bool { return c <= 0 }),
		"gt":       compareOp(func(c int) bool { return c > 0 }),
		"ge":       compareOp(func(c int) bool { return c >= 0 }),
		"add":      add,
		"sub":      sub,
		"mul":      mul,
		"div":      div,
		"concat":   concat,
		"len":      length,
		"empty":    empty,
		"matches":  matches,
		"list":     list,
		"parallel": parallel,
		"map":      mapOp,
		"filter":   filter,
		"reduce":   reduce,
		"let":      let,
		"expr":     script,
		"env":      osEnv,
		"decode":   decode,
	}
}

// Register installs every operator of the package in r, replacing
// operators of the same names.
func Register(r *eval.Registry) {
	for name, fn := range symbols() {
		r.Register(name, fn)
	}
}

// NewRegistry returns a registry holding the operators of the package.
func NewRegistry() *eval.Registry {
	r := eval.NewRegistry()
	Register(r)
	return r
}

// Names returns the names of the operators of the package, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(symbols()))
}

func arity(name string, args []*ir.Node, counts ...int) error {
	if slices.Contains(counts, len(args)) {
		return nil
	}
	return fmt.Errorf("%s: %w: got %d, want %v", name, eval.ErrArity, len(args), counts)
}

func minArity(name string, args []*ir.Node, n int) error {
	if len(args) >= n {
		return nil
	}
	return fmt.Errorf("%s: %w: got %d, want at least %d", name, eval.ErrArity, len(args), n)
}

// plain replaces nodes by their evaluated value, recursively through
// slices and maps.
func plain(ctx context.Context, v any, ec *eval.Context) (any, error) {
	switch x := v.(type) {
	case *ir.Node:
		if x == nil {
			return nil, nil
		}
		inner, err := eval.Value(ctx, x, ec)
		if err != nil {
			return nil, err
		}
		return plain(ctx, inner, ec)
	case []any:
		res := make([]any, len(x))
		for i := range x {
			pv, err := plain(ctx, x[i], ec)
			if err != nil {
				return nil, err
			}
			res[i] = pv
		}
		return res, nil
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, mv := range x {
			pv, err := plain(ctx, mv, ec)
			if err != nil {
				return nil, err
			}
			res[k] = pv
		}
		return res, nil
	case map[string]*ir.Node:
		res := make(map[string]any, len(x))
		for k, mv := range x {
			pv, err := plain(ctx, mv, ec)
			if err != nil {
				return nil, err
			}
			res[k] = pv
		}
		return res, nil
	}
	return v, nil
}
