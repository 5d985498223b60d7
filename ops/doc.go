// Package ops is a library of general purpose operators.
//
// None of them is available to an [eval.Registry] until installed with
// [Register]. All operators receive their arguments unevaluated and
// evaluate them left to right, so "and", "or" and "if" short-circuit.
//
// The collection operators "map", "filter" and "reduce" evaluate their
// function argument once per item with the bindings "item", "index" and,
// for reduce, "acc". When the collection is a node's children, items are
// the child nodes, so "item.value" and "item.id" resolve through them.
//
// The "exec" operator runs shell commands and is only installed by
// [RegisterExec].
package ops
