package ir

import (
	"fmt"
)

// Serial is the structural projection of a Node, suitable for JSON and
// YAML encoding.
type Serial struct {
	ID          string             `json:"id" yaml:"id"`
	Type        TypeRef            `json:"type" yaml:"type"`
	Value       any                `json:"value,omitempty" yaml:"value,omitempty"`
	Default     any                `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Metadata    map[string]*Serial `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Constraints map[string]*Serial `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Children    map[string]*Serial `json:"children,omitempty" yaml:"children,omitempty"`
}

type TypeRef struct {
	ID string `json:"id" yaml:"id"`
}

// Resolver maps a type id to its type node. It returns nil for unknown
// ids.
type Resolver func(id string) *Node

// ToSerial projects n into its serialized form, recursing into node
// valued Value and Default fields.
func ToSerial(n *Node) *Serial {
	if n == nil {
		return nil
	}
	return &Serial{
		ID:          n.ID,
		Type:        TypeRef{ID: n.TypeID()},
		Value:       serialValue(n.Value),
		Default:     serialValue(n.Default),
		Metadata:    serialMap(n.Metadata),
		Constraints: serialMap(n.Constraints),
		Children:    serialMap(n.Children),
	}
}

func serialMap(m map[string]*Node) map[string]*Serial {
	if len(m) == 0 {
		return nil
	}
	res := make(map[string]*Serial, len(m))
	for k, v := range m {
		res[k] = ToSerial(v)
	}
	return res
}

func serialValue(v any) any {
	switch x := v.(type) {
	case *Node:
		return ToSerial(x)
	case []string:
		res := make([]any, len(x))
		for i := range x {
			res[i] = x[i]
		}
		return res
	case Path:
		return serialValue([]string(x))
	case []any:
		res := make([]any, len(x))
		for i := range x {
			res[i] = serialValue(x[i])
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, xv := range x {
			res[k] = serialValue(xv)
		}
		return res
	default:
		return v
	}
}

// FromSerial rebuilds a node. Builtin type ids always resolve to the
// bootstrap types; other ids go through resolve, which may be nil, in
// which case a fresh TypeTable is used.
func FromSerial(s *Serial, resolve Resolver) (*Node, error) {
	if resolve == nil {
		resolve = NewTypeTable().Resolve
	}
	return fromSerial(s, resolve)
}

func fromSerial(s *Serial, resolve Resolver) (*Node, error) {
	if s == nil {
		return nil, nil
	}
	n := &Node{ID: s.ID}
	if s.Type.ID != "" {
		n.Type = Builtin(s.Type.ID)
		if n.Type == nil {
			n.Type = resolve(s.Type.ID)
		}
		if n.Type == nil {
			return nil, fmt.Errorf("%w: unresolved type %q for node %q", ErrBadSerial, s.Type.ID, s.ID)
		}
	}
	var err error
	n.Value, err = valueFromSerial(s.Value, resolve)
	if err != nil {
		return nil, fmt.Errorf("value of %q: %w", s.ID, err)
	}
	if n.Kind() == ReferenceKind {
		switch segs := n.RefSegments(); {
		case len(segs) > 0:
			n.Value = segs
		case segs != nil || n.Value == nil:
			n.Value = []string{"self"}
		default:
			return nil, fmt.Errorf("%w: reference %q has path of type %T", ErrBadSerial, s.ID, n.Value)
		}
	}
	n.Default, err = valueFromSerial(s.Default, resolve)
	if err != nil {
		return nil, fmt.Errorf("default of %q: %w", s.ID, err)
	}
	if n.Metadata, err = mapFromSerial(s.Metadata, resolve); err != nil {
		return nil, err
	}
	if n.Constraints, err = mapFromSerial(s.Constraints, resolve); err != nil {
		return nil, err
	}
	if n.Children, err = mapFromSerial(s.Children, resolve); err != nil {
		return nil, err
	}
	return n, nil
}

func mapFromSerial(m map[string]*Serial, resolve Resolver) (map[string]*Node, error) {
	if len(m) == 0 {
		return nil, nil
	}
	res := make(map[string]*Node, len(m))
	for k, v := range m {
		if v == nil {
			return nil, fmt.Errorf("%w: nil entry %q", ErrBadSerial, k)
		}
		n, err := fromSerial(v, resolve)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		res[k] = n
	}
	return res, nil
}

func valueFromSerial(v any, resolve Resolver) (any, error) {
	switch x := v.(type) {
	case *Serial:
		return fromSerial(x, resolve)
	case []any:
		res := make([]any, len(x))
		for i := range x {
			xv, err := valueFromSerial(x[i], resolve)
			if err != nil {
				return nil, err
			}
			res[i] = xv
		}
		return res, nil
	case map[string]any:
		if s, ok := SerialFromAny(x); ok {
			return fromSerial(s, resolve)
		}
		res := make(map[string]any, len(x))
		for k, xv := range x {
			rv, err := valueFromSerial(xv, resolve)
			if err != nil {
				return nil, err
			}
			res[k] = rv
		}
		return res, nil
	default:
		return v, nil
	}
}

// SerialFromAny recognizes the decoded generic form of a Serial: a map
// holding a string "id" and a "type" map with a string "id". Objects
// shaped like this are always read back as nodes.
func SerialFromAny(v any) (*Serial, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	id, ok := m["id"].(string)
	if !ok {
		return nil, false
	}
	tm, ok := m["type"].(map[string]any)
	if !ok {
		return nil, false
	}
	tid, ok := tm["id"].(string)
	if !ok {
		return nil, false
	}
	for k := range m {
		switch k {
		case "id", "type", "value", "defaultValue", "metadata", "constraints", "children":
		default:
			return nil, false
		}
	}
	s := &Serial{ID: id, Type: TypeRef{ID: tid}, Value: m["value"], Default: m["defaultValue"]}
	var err error
	if s.Metadata, err = serialMapFromAny(m["metadata"]); err != nil {
		return nil, false
	}
	if s.Constraints, err = serialMapFromAny(m["constraints"]); err != nil {
		return nil, false
	}
	if s.Children, err = serialMapFromAny(m["children"]); err != nil {
		return nil, false
	}
	return s, true
}

func serialMapFromAny(v any) (map[string]*Serial, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected map, got %T", ErrBadSerial, v)
	}
	res := make(map[string]*Serial, len(m))
	for k, mv := range m {
		s, ok := SerialFromAny(mv)
		if !ok {
			return nil, fmt.Errorf("%w: entry %q is not a node", ErrBadSerial, k)
		}
		res[k] = s
	}
	return res, nil
}

// TypeTable resolves type ids, creating and remembering a fresh type for
// ids it has not seen.
type TypeTable struct {
	types map[string]*Node
}

func NewTypeTable(types ...*Node) *TypeTable {
	t := &TypeTable{types: map[string]*Node{}}
	t.Add(types...)
	return t
}

func (t *TypeTable) Add(types ...*Node) {
	for _, typ := range types {
		t.types[typ.ID] = typ
	}
}

// Lookup returns a registered type without creating one.
func (t *TypeTable) Lookup(id string) *Node {
	if b := Builtin(id); b != nil {
		return b
	}
	return t.types[id]
}

func (t *TypeTable) Resolve(id string) *Node {
	if typ := t.Lookup(id); typ != nil {
		return typ
	}
	typ := NewType(id)
	t.types[id] = typ
	return typ
}

// CollectTypes registers every type reachable from n, following values,
// defaults and the three maps.
func (t *TypeTable) CollectTypes(n *Node) {
	if n == nil {
		return
	}
	if n.Type != nil && Builtin(n.Type.ID) != n.Type {
		if _, ok := t.types[n.Type.ID]; !ok {
			t.types[n.Type.ID] = n.Type
		}
	}
	for _, v := range [2]any{n.Value, n.Default} {
		if vn, ok := AsNode(v); ok {
			t.CollectTypes(vn)
		}
	}
	for _, m := range [3]map[string]*Node{n.Metadata, n.Constraints, n.Children} {
		for _, c := range m {
			t.CollectTypes(c)
		}
	}
}
