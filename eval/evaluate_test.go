package eval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/signadot/tony-format/nodal/ir"
)

func addFunc(ctx context.Context, args []*ir.Node, ec *Context) (any, error) {
	vs, err := EvalSeq(ctx, args, ec)
	if err != nil {
		return nil, err
	}
	sum := 0.0
	for _, v := range vs {
		f, ok := ir.ToFloat(v)
		if !ok {
			return nil, errors.New("add: not a number")
		}
		sum += f
	}
	return sum, nil
}

func identityFunc(ctx context.Context, args []*ir.Node, ec *Context) (any, error) {
	if len(args) != 1 {
		return nil, ErrArity
	}
	return EvalOne(ctx, args[0], ec)
}

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register("add", addFunc)
	r.Register("identity", identityFunc)
	r.Register("loop", func(ctx context.Context, _ []*ir.Node, ec *Context) (any, error) {
		return Evaluate(ctx, ir.Op("loop"), ec)
	})
	return r
}

func TestEvaluateKinds(t *testing.T) {
	ctx := context.Background()
	ec := &Context{Registry: testRegistry()}
	plain := ir.New("x", ir.NewType("thing")).WithValue("raw")
	tests := []struct {
		name string
		expr *ir.Node
		want any
	}{
		{"nil", nil, nil},
		{"literal", ir.Lit("hello"), "hello"},
		{"literal nil", ir.Lit(nil), nil},
		{"operator", ir.Op("add", ir.Lit(1), ir.Lit(2), ir.Lit(3.5)), 6.5},
		{"nested operator", ir.Op("add", ir.Op("add", ir.Lit(1), ir.Lit(1)), ir.Lit(1)), 3.0},
		{"plain node", plain, "raw"},
		{"plain without value", ir.New("y", ir.NewType("thing")), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(ctx, tt.expr, ec)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.ValueEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnknownOperator(t *testing.T) {
	_, err := Evaluate(context.Background(), ir.Op("nope"), &Context{Registry: NewRegistry()})
	if !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("got %v, want ErrUnknownOperator", err)
	}
	if err.Error() != "unknown operator: nope" {
		t.Errorf("message %q", err.Error())
	}
	_, err = Evaluate(context.Background(), ir.Op("add"), &Context{})
	if !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("without registry: got %v", err)
	}
}

func TestIdentityChain(t *testing.T) {
	expr := ir.Lit(42)
	for range 50 {
		expr = ir.Op("identity", expr)
	}
	got, err := Evaluate(context.Background(), expr, &Context{Registry: testRegistry()})
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestMaxDepth(t *testing.T) {
	_, err := Evaluate(context.Background(), ir.Op("loop"), &Context{Registry: testRegistry()})
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("got %v, want ErrMaxDepth", err)
	}
	if !strings.Contains(err.Error(), "maximum evaluation depth exceeded") {
		t.Errorf("message %q", err.Error())
	}
}

func TestSelfReferentialValue(t *testing.T) {
	n := ir.New("n", ir.NewType("thing"))
	n.WithValue(ir.Ref("self", "value"))
	_, err := Value(context.Background(), n, &Context{Root: n})
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("got %v, want ErrMaxDepth", err)
	}
}

func TestBadArgKey(t *testing.T) {
	op := ir.Op("add", ir.Lit(1))
	op.Children["first"] = ir.Lit(2)
	_, err := Evaluate(context.Background(), op, &Context{Registry: testRegistry()})
	if !errors.Is(err, ir.ErrArgKey) {
		t.Errorf("got %v, want ErrArgKey", err)
	}
}

func TestOperatorSeesIncrementedDepth(t *testing.T) {
	r := NewRegistry()
	r.Register("depth", func(_ context.Context, _ []*ir.Node, ec *Context) (any, error) {
		return ec.Depth, nil
	})
	got, err := Evaluate(context.Background(), ir.Op("depth"), &Context{Registry: r, Depth: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got != 11 {
		t.Errorf("depth = %v, want 11", got)
	}
}
