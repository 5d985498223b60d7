package tree

import (
	"context"
	"fmt"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

// DefaultMessage is reported for a failing constraint without a message.
const DefaultMessage = "validation failed"

// Result is the outcome of validating one node: Errors maps each failing
// constraint to its message.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// DeepResult is the outcome of validating a subtree: Errors maps the
// path of each invalid node, relative to the validated wrapper, to that
// node's failures. The wrapper's own failures are under RootKey.
type DeepResult struct {
	Valid  bool                         `json:"valid"`
	Errors map[string]map[string]string `json:"errors"`
}

// Validate evaluates every constraint of the wrapped node.
func (t *Tree) Validate(ctx context.Context) (Result, error) {
	res := Result{Valid: true, Errors: map[string]string{}}
	keys := t.ConstraintKeys()
	if len(keys) == 0 {
		return res, nil
	}
	ec, err := t.evalContext()
	if err != nil {
		return res, err
	}
	for _, k := range keys {
		c := t.node.Constraints[k]
		v, err := eval.Owned(ctx, c, t.node, ec)
		if err != nil {
			return res, fmt.Errorf("constraint %s at %s: %w", k, render(t.Path()), err)
		}
		if ir.Truth(v) {
			continue
		}
		msg, err := t.message(ctx, c, ec)
		if err != nil {
			return res, fmt.Errorf("constraint %s message at %s: %w", k, render(t.Path()), err)
		}
		res.Valid = false
		res.Errors[k] = msg
	}
	return res, nil
}

func (t *Tree) message(ctx context.Context, c *ir.Node, ec *eval.Context) (string, error) {
	if c == nil {
		return DefaultMessage, nil
	}
	m, err := eval.Owned(ctx, c.Metadata["message"], t.node, ec)
	if err != nil {
		return "", err
	}
	switch x := m.(type) {
	case nil:
		return DefaultMessage, nil
	case string:
		if x == "" {
			return DefaultMessage, nil
		}
		return x, nil
	default:
		return fmt.Sprint(x), nil
	}
}

// ValidateDeep validates every node of the subtree in pre-order.
func (t *Tree) ValidateDeep(ctx context.Context) (DeepResult, error) {
	res := DeepResult{Valid: true, Errors: map[string]map[string]string{}}
	var err error
	t.Walk(func(w *Tree) bool {
		var r Result
		r, err = w.Validate(ctx)
		if err != nil {
			return false
		}
		if !r.Valid {
			res.Valid = false
			res.Errors[render(w.pathFrom(t))] = r.Errors
		}
		return true
	})
	return res, err
}
