package tree

// Walk visits the subtree in pre-order, children in key order. It stops
// as soon as fn returns false and reports whether the walk completed.
func (t *Tree) Walk(fn func(*Tree) bool) bool {
	if !fn(t) {
		return false
	}
	for _, c := range t.Children() {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// WalkPost visits the subtree in post-order.
func (t *Tree) WalkPost(fn func(*Tree)) {
	for _, c := range t.Children() {
		c.WalkPost(fn)
	}
	fn(t)
}

// WalkBreadth visits the subtree level by level, stopping when fn
// returns false.
func (t *Tree) WalkBreadth(fn func(*Tree) bool) bool {
	q := []*Tree{t}
	for len(q) > 0 {
		w := q[0]
		q = q[1:]
		if !fn(w) {
			return false
		}
		q = append(q, w.Children()...)
	}
	return true
}

// Find returns the first wrapper in pre-order satisfying pred, or nil.
func (t *Tree) Find(pred func(*Tree) bool) *Tree {
	var res *Tree
	t.Walk(func(w *Tree) bool {
		if pred(w) {
			res = w
			return false
		}
		return true
	})
	return res
}

func (t *Tree) FindAll(pred func(*Tree) bool) []*Tree {
	return t.Filter(pred)
}

func (t *Tree) FindByID(id string) *Tree {
	return t.Find(func(w *Tree) bool { return w.node.ID == id })
}

// FindByType returns the wrappers whose node type has the given id.
func (t *Tree) FindByType(typeID string) []*Tree {
	return t.Filter(func(w *Tree) bool { return w.node.TypeID() == typeID })
}

func (t *Tree) Filter(pred func(*Tree) bool) []*Tree {
	return Reduce(t, func(acc []*Tree, w *Tree) []*Tree {
		if pred(w) {
			acc = append(acc, w)
		}
		return acc
	}, nil)
}

func (t *Tree) Some(pred func(*Tree) bool) bool {
	return t.Find(pred) != nil
}

func (t *Tree) Every(pred func(*Tree) bool) bool {
	return t.Walk(pred)
}

// Count returns the number of wrappers satisfying pred, or the size of
// the subtree if pred is nil.
func (t *Tree) Count(pred func(*Tree) bool) int {
	return Reduce(t, func(n int, w *Tree) int {
		if pred == nil || pred(w) {
			n++
		}
		return n
	}, 0)
}

// Map applies fn to every wrapper of the subtree in pre-order.
func Map[T any](t *Tree, fn func(*Tree) T) []T {
	return Reduce(t, func(acc []T, w *Tree) []T {
		return append(acc, fn(w))
	}, nil)
}

// Reduce folds the subtree in pre-order.
func Reduce[A any](t *Tree, fn func(A, *Tree) A, init A) A {
	acc := init
	t.Walk(func(w *Tree) bool {
		acc = fn(acc, w)
		return true
	})
	return acc
}
