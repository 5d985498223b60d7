// Package nodal loads documents into reactive trees.
//
// A Tool carries what every tree it loads shares: the operator registry,
// the table resolving type ids, and an environment of bindings visible to
// references.
package nodal

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
	"github.com/signadot/tony-format/nodal/ops"
	"github.com/signadot/tony-format/nodal/parse"
	"github.com/signadot/tony-format/nodal/tree"
)

type Tool struct {
	Registry *eval.Registry
	Types    *ir.TypeTable
	Env      map[string]any
}

// DefaultTool returns a tool with every operator of the ops package and
// an empty environment.
func DefaultTool() *Tool {
	return &Tool{
		Registry: ops.NewRegistry(),
		Types:    ir.NewTypeTable(),
		Env:      map[string]any{},
	}
}

// Load parses a serialized node and wraps it. Type ids are resolved
// through the tool's table, so trees loaded by one tool share types.
func (t *Tool) Load(data []byte, opts ...parse.ParseOption) (*tree.Tree, error) {
	if t.Types == nil {
		t.Types = ir.NewTypeTable()
	}
	opts = append(opts[:len(opts):len(opts)], parse.WithResolver(t.Types.Resolve))
	n, err := parse.Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	if debug.Eval() {
		debug.Logf("loaded %s\n", n)
	}
	return t.Wrap(n), nil
}

// LoadAll loads every document of a stream separated by "---" lines.
func (t *Tool) LoadAll(data []byte, opts ...parse.ParseOption) ([]*tree.Tree, error) {
	docs := bytes.Split(data, []byte("\n---\n"))
	res := make([]*tree.Tree, 0, len(docs))
	for i, doc := range docs {
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		tr, err := t.Load(doc, opts...)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		res = append(res, tr)
	}
	return res, nil
}

// Wrap wraps n with the tool's registry and environment.
func (t *Tool) Wrap(n *ir.Node) *tree.Tree {
	return tree.New(n, tree.WithRegistry(t.Registry), tree.WithBindings(t.Env))
}

// Get resolves a dotted reference path against the root of tr, as a
// reference expression with that path would. A leading "$" stands for
// the root.
func (t *Tool) Get(ctx context.Context, tr *tree.Tree, ref string) (any, error) {
	p, err := refPath(ref)
	if err != nil {
		return nil, err
	}
	root := tr.Root()
	return root.Eval(ctx, ir.Ref(p...))
}

func refPath(ref string) (ir.Path, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "$" || ref == "":
		return ir.Path{eval.SegRoot}, nil
	case strings.HasPrefix(ref, "$."):
		p, err := ir.ParsePath(ref[2:])
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", ref, err)
		}
		return append(ir.Path{eval.SegRoot}, p...), nil
	}
	p, err := ir.ParsePath(ref)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", ref, err)
	}
	return p, nil
}
