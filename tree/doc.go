// Package tree provides Tree, a reactive wrapper over an [ir.Node] tree.
//
// A Tree wraps exactly one node. Child wrappers are created on first
// access and cached by key, so repeated navigation returns the same
// wrapper, which is where subscriptions live. Each wrapper keeps a
// back-pointer to its parent.
//
// Raw accessors such as [Tree.Value] read and write node fields
// directly. Evaluated accessors such as [Tree.GetValue] run the
// evaluator and need a registry set on the wrapper or one of its
// ancestors.
//
// Mutations made through a Tree notify subscribers of the mutated wrapper
// and of every ancestor, each receiving the changed path relative to
// itself. [Tree.Batch] coalesces the notifications of a group of
// mutations into one.
//
// A Tree, like the nodes it wraps, is not safe for concurrent mutation.
package tree
