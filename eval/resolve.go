package eval

import (
	"context"
	"reflect"
	"strconv"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/ir"
)

// Reserved reference segments.
const (
	SegSelf        = "self"
	SegRoot        = "root"
	SegParent      = "parent"
	SegValue       = "value"
	SegType        = "type"
	SegID          = "id"
	SegChildren    = "children"
	SegMetadata    = "metadata"
	SegConstraints = "constraints"
)

// Resolve follows path from the origin it names and returns what it
// designates.
//
// The first segment selects the origin: "self", "root", "parent", the
// name of a binding, or otherwise self with the first segment kept as a
// navigation step. Navigation keeps track of the owner, the node that
// an expression found along the way is evaluated against: children and
// types become the owner, metadata and constraints do not.
//
// A bare key looks in children first and then in metadata. Paths that
// lead nowhere resolve to nil without error.
func Resolve(ctx context.Context, path []string, ec *Context) (any, error) {
	if ec == nil {
		ec = &Context{}
	}
	return resolve(ctx, path, ec)
}

func resolve(ctx context.Context, path []string, ec *Context) (any, error) {
	if debug.Resolve() {
		debug.Logf("resolve %s\n", ir.Path(path))
	}
	if len(path) == 0 {
		return nil, nil
	}
	var (
		current any
		owner   *ir.Node
		i       = 1
	)
	switch head := path[0]; head {
	case SegSelf:
		current, owner = ec.Self, ec.Self
	case SegRoot:
		current, owner = ec.Root, ec.Root
	case SegParent:
		p := ec.parentOf(ec.Self)
		current, owner = p, p
	default:
		if v, ok := ec.Bindings[head]; ok {
			current, owner = v, ec.Self
			if n, ok := ir.AsNode(v); ok {
				owner = n
			}
		} else {
			current, owner, i = ec.Self, ec.Self, 0
		}
	}
	for i < len(path) {
		seg := path[i]
		n, isNode := current.(*ir.Node)
		if !isNode {
			v, ok := index(current, seg)
			if !ok {
				return nil, nil
			}
			current = v
			i++
			continue
		}
		if n == nil {
			return nil, nil
		}
		switch seg {
		case SegValue:
			v, err := valueOf(ctx, n, owner, ec)
			if err != nil {
				return nil, err
			}
			current = v
		case SegType:
			current, owner = n.Type, n.Type
		case SegID:
			return n.ID, nil
		case SegChildren, SegMetadata, SegConstraints:
			m := namespace(n, seg)
			if i+1 == len(path) {
				return m, nil
			}
			i++
			c := m[path[i]]
			if c == nil {
				return nil, nil
			}
			current = c
			if seg == SegChildren {
				owner = c
			}
		case SegParent:
			p := ec.parentOf(n)
			current, owner = p, p
		default:
			if c := n.Children[seg]; c != nil {
				current, owner = c, c
			} else if m := n.Metadata[seg]; m != nil {
				current = m
			} else {
				return nil, nil
			}
		}
		i++
	}
	n, isNode := current.(*ir.Node)
	if !isNode {
		return current, nil
	}
	if n == nil {
		return nil, nil
	}
	if ir.IsExpression(n) {
		return Evaluate(ctx, n, ec.WithSelf(owner))
	}
	if n.Value != nil {
		return n.Value, nil
	}
	return n, nil
}

func namespace(n *ir.Node, seg string) map[string]*ir.Node {
	switch seg {
	case SegChildren:
		return n.Children
	case SegMetadata:
		return n.Metadata
	default:
		return n.Constraints
	}
}

// index looks up seg in a raw map or slice value.
func index(v any, seg string) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		r, ok := x[seg]
		return r, ok
	case map[string]*ir.Node:
		r, ok := x[seg]
		return r, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(x) {
			return nil, false
		}
		return x[i], true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		e := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !e.IsValid() {
			return nil, false
		}
		return e.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}
