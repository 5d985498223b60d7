package ops

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

var ErrDivByZero = errors.New("division by zero")

// number is an evaluated numeric argument. Integer arithmetic is used as
// long as every operand is an integer.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func toNumber(name string, v any) (number, error) {
	switch x := v.(type) {
	case int:
		return number{i: int64(x), f: float64(x), isInt: true}, nil
	case int8:
		return number{i: int64(x), f: float64(x), isInt: true}, nil
	case int16:
		return number{i: int64(x), f: float64(x), isInt: true}, nil
	case int32:
		return number{i: int64(x), f: float64(x), isInt: true}, nil
	case int64:
		return number{i: x, f: float64(x), isInt: true}, nil
	case uint8:
		return number{i: int64(x), f: float64(x), isInt: true}, nil
	case uint16:
		return number{i: int64(x), f: float64(x), isInt: true}, nil
	case uint32:
		return number{i: int64(x), f: float64(x), isInt: true}, nil
	case uint64:
		if x <= math.MaxInt64 {
			return number{i: int64(x), f: float64(x), isInt: true}, nil
		}
	}
	f, ok := ir.ToFloat(v)
	if !ok {
		return number{}, fmt.Errorf("%s: %w: %T is not a number", name, ErrType, v)
	}
	return number{f: f}, nil
}

func (n number) value() any {
	if n.isInt {
		return int(n.i)
	}
	return n.f
}

func numbers(ctx context.Context, name string, args []*ir.Node, ec *eval.Context) ([]number, error) {
	vs, err := eval.EvalSeq(ctx, args, ec)
	if err != nil {
		return nil, err
	}
	res := make([]number, len(vs))
	for i, v := range vs {
		if res[i], err = toNumber(name, v); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func fold(ns []number, fi func(a, b int64) int64, ff func(a, b float64) float64) number {
	acc := ns[0]
	for _, n := range ns[1:] {
		if acc.isInt && n.isInt {
			acc.i = fi(acc.i, n.i)
			acc.f = float64(acc.i)
			continue
		}
		acc = number{f: ff(acc.f, n.f)}
	}
	return acc
}

func add(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	ns, err := numbers(ctx, "add", args, ec)
	if err != nil {
		return nil, err
	}
	ns = append([]number{{isInt: true}}, ns...)
	return fold(ns,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b }).value(), nil
}

// sub negates a single argument and otherwise subtracts the rest from
// the first.
func sub(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := minArity("sub", args, 1); err != nil {
		return nil, err
	}
	ns, err := numbers(ctx, "sub", args, ec)
	if err != nil {
		return nil, err
	}
	if len(ns) == 1 {
		ns = append([]number{{isInt: true}}, ns...)
	}
	return fold(ns,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b }).value(), nil
}

func mul(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	ns, err := numbers(ctx, "mul", args, ec)
	if err != nil {
		return nil, err
	}
	ns = append([]number{{i: 1, f: 1, isInt: true}}, ns...)
	return fold(ns,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b }).value(), nil
}

// div divides the first argument by the others, always in floating
// point.
func div(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := minArity("div", args, 2); err != nil {
		return nil, err
	}
	ns, err := numbers(ctx, "div", args, ec)
	if err != nil {
		return nil, err
	}
	res := ns[0].f
	for _, n := range ns[1:] {
		if n.f == 0 {
			return nil, ErrDivByZero
		}
		res /= n.f
	}
	return res, nil
}
