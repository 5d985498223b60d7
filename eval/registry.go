package eval

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/signadot/tony-format/nodal/ir"
)

// Func implements an operator. args are the unevaluated argument nodes in
// call order. A Func may return an [Awaitable], which the evaluator
// awaits before handing the result to its caller.
type Func func(ctx context.Context, args []*ir.Node, ec *Context) (any, error)

// Registry maps operator names to implementations. Nothing is registered
// by default.
type Registry struct {
	mu sync.RWMutex
	d  map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{d: map[string]Func{}}
}

// Register adds fn under name, replacing any previous entry.
func (r *Registry) Register(name string, fn Func) {
	if fn == nil {
		panic("eval: nil operator " + name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.d == nil {
		r.d = map[string]Func{}
	}
	r.d[name] = fn
}

func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, present := r.d[name]
	delete(r.d, name)
	return present
}

func (r *Registry) Get(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.d[name]
	return fn, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Keys returns the registered names, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.d))
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.d)
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.d)
}
