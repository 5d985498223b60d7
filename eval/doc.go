// Package eval evaluates expression nodes.
//
// An expression is one of the three bootstrap kinds of [ir.Node]:
// literals, references and operator calls. Operators are looked up by
// name in a [Registry] and receive their arguments unevaluated, so they
// control evaluation order themselves, typically through [EvalOne],
// [EvalSeq] or [EvalParallel].
//
// References are resolved against the node tree reachable from the
// [Context]: "self", "root", "parent", a binding name, or implicitly
// self. The remaining segments navigate values, types, children,
// metadata and constraints.
//
// Evaluation depth is bounded by [MaxDepth], which is the only defense
// against cyclic references and runaway recursion.
package eval
