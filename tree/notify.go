package tree

import (
	"slices"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/ir"
)

// Listener receives the changed paths, rendered relative to the wrapper
// it subscribed to. A change to the wrapper itself is rendered as
// RootKey.
type Listener func(paths []string)

type subscription struct {
	id     int
	fn     Listener
	filter ir.Path
}

// Subscribe registers fn for changes to t and its descendants. With a
// filter, only changed paths having filter as prefix are delivered. The
// returned function cancels the subscription.
func (t *Tree) Subscribe(fn Listener, filter ...string) func() {
	t.nextSub++
	s := &subscription{id: t.nextSub, fn: fn, filter: ir.Path(slices.Clone(filter))}
	t.subs = append(t.subs, s)
	return func() {
		t.subs = slices.DeleteFunc(t.subs, func(x *subscription) bool {
			return x.id == s.id
		})
	}
}

// Watch subscribes fn to changes at or below the dotted path.
func (t *Tree) Watch(path string, fn Listener) func() {
	p, err := ir.ParsePath(path)
	if err != nil {
		p = ir.Path{path}
	}
	return t.Subscribe(fn, p...)
}

// Batch runs fn and then delivers every change made during it as a
// single notification, with duplicate paths removed. Batches nest: only
// the outermost one on a wrapper delivers.
func (t *Tree) Batch(fn func()) {
	t.batching++
	defer func() {
		t.batching--
		if t.batching > 0 {
			return
		}
		ps := dedupe(t.pending)
		t.pending = nil
		if len(ps) != 0 {
			t.notifyAll(ps)
		}
	}()
	fn()
}

func (t *Tree) notify(p ir.Path) {
	t.notifyAll([]ir.Path{p})
}

// notifyAll delivers ps at t and bubbles them towards the root, stopping
// at a batching wrapper which collects them instead.
func (t *Tree) notifyAll(ps []ir.Path) {
	for w := t; w != nil; w = w.parent {
		if w.batching > 0 {
			w.pending = append(w.pending, ps...)
			return
		}
		w.deliver(ps)
		if w.parent == nil {
			return
		}
		next := make([]ir.Path, len(ps))
		for i, p := range ps {
			next[i] = p.Prepend(w.key)
		}
		ps = next
	}
}

func (t *Tree) deliver(ps []ir.Path) {
	if debug.Notify() {
		debug.Logf("notify %s: %v\n", t.Path(), ps)
	}
	// listeners may subscribe or unsubscribe while being called
	for _, s := range slices.Clone(t.subs) {
		var out []string
		for _, p := range ps {
			if p.HasPrefix(s.filter) {
				out = append(out, render(p))
			}
		}
		if len(out) != 0 {
			s.fn(out)
		}
	}
}

func render(p ir.Path) string {
	if len(p) == 0 {
		return RootKey
	}
	return p.String()
}

func dedupe(ps []ir.Path) []ir.Path {
	seen := make(map[string]bool, len(ps))
	res := make([]ir.Path, 0, len(ps))
	for _, p := range ps {
		k := render(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		res = append(res, p)
	}
	return res
}
