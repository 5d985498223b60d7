// Package ir provides the node model for nodal trees.
//
// # Overview
//
// Everything in a nodal tree is an ir.Node: plain data, the types that
// describe data, validation rules and computed values. A Node carries an
// id, a shared pointer to its type node, an optional value and default
// value, and three independent maps of named sub-nodes:
//
//   - Children: what the node is made of
//   - Metadata: descriptive or computed attributes of the node
//   - Constraints: named validation rules
//
// # Types
//
// Types are nodes too. The root meta-type returned by RootType is its own
// type, which terminates the type-of-type chain. The bootstrap types
// LiteralType, ReferenceType, OperatorType and ConstraintType mark nodes as
// expressions or constraints; NewType creates application types.
//
// # Expressions
//
// A node typed by one of the expression types is an expression:
//
//   - Lit(v): evaluates to v
//   - Ref(segs...): evaluates by navigating the tree along segs
//   - Op(name, args...): evaluates by calling the operator registered
//     under name with args stored in Children under ArgKey(i)
//
// Kind reports which of these a node is by comparing its type pointer with
// the bootstrap singletons.
//
// # Serialized form
//
// Serial is the JSON/YAML compatible projection of a Node. FromSerial
// needs a Resolver to map type ids back to type nodes.
package ir
