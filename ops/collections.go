package ops

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

// Binding names of the collection operators.
const (
	ItemBinding  = "item"
	IndexBinding = "index"
	AccBinding   = "acc"
)

type entry struct {
	index any
	item  any
}

// entries lists the items of a collection: slices by position, maps and
// children in key order with the key as index. A node stands for its
// children.
func entries(name string, v any) ([]entry, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *ir.Node:
		return entries(name, x.Children)
	case []any:
		res := make([]entry, len(x))
		for i := range x {
			res[i] = entry{index: i, item: x[i]}
		}
		return res, nil
	case map[string]*ir.Node:
		keys := slices.Sorted(maps.Keys(x))
		res := make([]entry, len(keys))
		for i, k := range keys {
			res[i] = entry{index: k, item: x[k]}
		}
		return res, nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(x))
		res := make([]entry, len(keys))
		for i, k := range keys {
			res[i] = entry{index: k, item: x[k]}
		}
		return res, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		res := make([]entry, rv.Len())
		for i := range res {
			res[i] = entry{index: i, item: rv.Index(i).Interface()}
		}
		return res, nil
	}
	return nil, fmt.Errorf("%s: %w: %T is not a collection", name, ErrType, v)
}

func collection(ctx context.Context, name string, arg *ir.Node, ec *eval.Context) ([]entry, error) {
	v, err := eval.EvalOne(ctx, arg, ec)
	if err != nil {
		return nil, err
	}
	return entries(name, v)
}

func list(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	return eval.EvalSeq(ctx, args, ec)
}

// parallel is list with its arguments evaluated concurrently.
func parallel(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	return eval.EvalParallel(ctx, args, ec)
}

// mapOp evaluates its second argument for each item of the first.
func mapOp(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("map", args, 2); err != nil {
		return nil, err
	}
	es, err := collection(ctx, "map", args[0], ec)
	if err != nil {
		return nil, err
	}
	res := make([]any, 0, len(es))
	for _, e := range es {
		v, err := eval.EvalOne(ctx, args[1], bindEntry(ec, e))
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// filter keeps the items of its first argument for which the second is
// truthy. Node items are replaced by their values.
func filter(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("filter", args, 2); err != nil {
		return nil, err
	}
	es, err := collection(ctx, "filter", args[0], ec)
	if err != nil {
		return nil, err
	}
	res := []any{}
	for _, e := range es {
		v, err := eval.EvalOne(ctx, args[1], bindEntry(ec, e))
		if err != nil {
			return nil, err
		}
		if !ir.Truth(v) {
			continue
		}
		item, err := plain(ctx, e.item, ec)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, nil
}

// reduce folds the items of its first argument with the second, starting
// from the third.
func reduce(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("reduce", args, 3); err != nil {
		return nil, err
	}
	es, err := collection(ctx, "reduce", args[0], ec)
	if err != nil {
		return nil, err
	}
	acc, err := eval.EvalOne(ctx, args[2], ec)
	if err != nil {
		return nil, err
	}
	for _, e := range es {
		bec := eval.Bind(bindEntry(ec, e), map[string]any{AccBinding: acc})
		if acc, err = eval.EvalOne(ctx, args[1], bec); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func bindEntry(ec *eval.Context, e entry) *eval.Context {
	return eval.Bind(ec, map[string]any{ItemBinding: e.item, IndexBinding: e.index})
}

// let binds names to values and evaluates its last argument with them:
// let(name0, value0, name1, value1, ..., body). Each value sees the
// bindings before it.
func let(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if len(args)%2 != 1 {
		return nil, fmt.Errorf("let: %w: got %d, want name/value pairs and a body", eval.ErrArity, len(args))
	}
	for i := 0; i+1 < len(args); i += 2 {
		nv, err := eval.EvalOne(ctx, args[i], ec)
		if err != nil {
			return nil, err
		}
		name, ok := nv.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("let: %w: binding name %v", ErrType, nv)
		}
		v, err := eval.EvalOne(ctx, args[i+1], ec)
		if err != nil {
			return nil, err
		}
		ec = eval.Bind(ec, map[string]any{name: v})
	}
	return eval.EvalOne(ctx, args[len(args)-1], ec)
}
