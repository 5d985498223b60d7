package ir

import "fmt"

// Ids of the bootstrap types.
const (
	TypeID       = "type"
	LiteralID    = "literal"
	ReferenceID  = "reference"
	OperatorID   = "operator"
	ConstraintID = "constraint"
)

// the root meta-type is allocated first and then patched to point at
// itself.
var rootType = func() *Node {
	n := &Node{ID: TypeID}
	n.Type = n
	return n
}()

var (
	literalType    = &Node{ID: LiteralID, Type: rootType}
	referenceType  = &Node{ID: ReferenceID, Type: rootType}
	operatorType   = &Node{ID: OperatorID, Type: rootType}
	constraintType = &Node{ID: ConstraintID, Type: rootType}
)

// RootType returns the self-typed meta-type.
func RootType() *Node { return rootType }

func LiteralType() *Node    { return literalType }
func ReferenceType() *Node  { return referenceType }
func OperatorType() *Node   { return operatorType }
func ConstraintType() *Node { return constraintType }

// Builtin returns the bootstrap type with the given id, or nil.
func Builtin(id string) *Node {
	switch id {
	case TypeID:
		return rootType
	case LiteralID:
		return literalType
	case ReferenceID:
		return referenceType
	case OperatorID:
		return operatorType
	case ConstraintID:
		return constraintType
	}
	return nil
}

// NewType creates an application type typed by the root meta-type.
func NewType(id string) *Node {
	return &Node{ID: id, Type: rootType}
}

// Kind discriminates expression nodes from plain ones.
type Kind int

const (
	PlainKind Kind = iota
	LiteralKind
	ReferenceKind
	OperatorKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		PlainKind:     "Plain",
		LiteralKind:   "Literal",
		ReferenceKind: "Reference",
		OperatorKind:  "Operator",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"Plain":     PlainKind,
		"Literal":   LiteralKind,
		"Reference": ReferenceKind,
		"Operator":  OperatorKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

func (n *Node) Kind() Kind {
	if n == nil {
		return PlainKind
	}
	switch n.Type {
	case literalType:
		return LiteralKind
	case referenceType:
		return ReferenceKind
	case operatorType:
		return OperatorKind
	default:
		return PlainKind
	}
}

func IsLiteral(n *Node) bool    { return n.Kind() == LiteralKind }
func IsReference(n *Node) bool  { return n.Kind() == ReferenceKind }
func IsOperator(n *Node) bool   { return n.Kind() == OperatorKind }
func IsExpression(n *Node) bool { return n.Kind() != PlainKind }

// IsType reports whether n is a type, that is typed by the root meta-type.
func IsType(n *Node) bool {
	return n != nil && n.Type == rootType
}

func IsConstraint(n *Node) bool {
	return n != nil && n.Type == constraintType
}

// AsNode returns v as a node if it holds one.
func AsNode(v any) (*Node, bool) {
	n, ok := v.(*Node)
	return n, ok && n != nil
}

// TypeID returns the id of n's type, or "" if n is untyped.
func (n *Node) TypeID() string {
	if n == nil || n.Type == nil {
		return ""
	}
	return n.Type.ID
}
