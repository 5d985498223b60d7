package ir

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const argPrefix = "arg"

// ArgKey returns the synthetic Children key of the i'th operator argument.
func ArgKey(i int) string {
	return argPrefix + strconv.Itoa(i)
}

func argIndex(key string) (int, error) {
	d, ok := strings.CutPrefix(key, argPrefix)
	if !ok || d == "" {
		return 0, fmt.Errorf("%w: %q", ErrArgKey, key)
	}
	i, err := strconv.Atoi(d)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrArgKey, key)
	}
	return i, nil
}

// Lit creates a literal expression.
func Lit(v any) *Node {
	return &Node{ID: LiteralID, Type: literalType, Value: v}
}

// Ref creates a reference expression. An empty path refers to "self".
func Ref(path ...string) *Node {
	if len(path) == 0 {
		path = []string{"self"}
	}
	return &Node{ID: ReferenceID, Type: referenceType, Value: slices.Clone(path)}
}

// RefPath creates a reference from a dotted path, panicking if the path
// does not parse.
func RefPath(p string) *Node {
	path, err := ParsePath(p)
	if err != nil {
		panic(err)
	}
	return Ref(path...)
}

// Op creates an operator call expression.
func Op(name string, args ...*Node) *Node {
	n := &Node{ID: name, Type: operatorType}
	if len(args) == 0 {
		return n
	}
	n.Children = make(map[string]*Node, len(args))
	for i, a := range args {
		n.Children[ArgKey(i)] = a
	}
	return n
}

// NewConstraint creates a constraint whose value is the boolean
// expression expr, failing with message.
func NewConstraint(expr *Node, message string) *Node {
	n := &Node{ID: ConstraintID, Type: constraintType, Value: expr}
	if message != "" {
		n.WithMetadata("message", Lit(message))
	}
	return n
}

// RefSegments returns the path of a reference node.
func (n *Node) RefSegments() []string {
	switch v := n.Value.(type) {
	case []string:
		return v
	case []any:
		res := make([]string, 0, len(v))
		for _, s := range v {
			res = append(res, fmt.Sprint(s))
		}
		return res
	case string:
		p, err := ParsePath(v)
		if err != nil {
			return []string{v}
		}
		return p
	case Path:
		return v
	}
	return nil
}

// ArgKeys returns the argument keys of an operator node in call order.
// The ordering is memoized on the node and recomputed when Children no
// longer matches it. ArgKeys may be called concurrently as long as
// Children is not mutated.
func (n *Node) ArgKeys() ([]string, error) {
	if keys, ok := n.memoArgKeys(); ok {
		return keys, nil
	}
	type ik struct {
		i   int
		key string
	}
	iks := make([]ik, 0, len(n.Children))
	for k := range n.Children {
		i, err := argIndex(k)
		if err != nil {
			return nil, err
		}
		iks = append(iks, ik{i: i, key: k})
	}
	slices.SortFunc(iks, func(a, b ik) int {
		return cmp.Compare(a.i, b.i)
	})
	keys := make([]string, len(iks))
	for j := range iks {
		if j > 0 && iks[j].i == iks[j-1].i {
			return nil, fmt.Errorf("%w: %q and %q share index %d", ErrArgKey, iks[j-1].key, iks[j].key, iks[j].i)
		}
		keys[j] = iks[j].key
	}
	n.argKeys.Store(&keys)
	return keys, nil
}

func (n *Node) memoArgKeys() ([]string, bool) {
	p := n.argKeys.Load()
	if p == nil || len(*p) != len(n.Children) {
		return nil, false
	}
	for _, k := range *p {
		if _, ok := n.Children[k]; !ok {
			return nil, false
		}
	}
	return *p, true
}

// Args returns the argument nodes of an operator node in call order.
func (n *Node) Args() ([]*Node, error) {
	keys, err := n.ArgKeys()
	if err != nil {
		return nil, err
	}
	res := make([]*Node, len(keys))
	for i, k := range keys {
		res[i] = n.Children[k]
	}
	return res, nil
}
