package ir

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestArgKeysOrder(t *testing.T) {
	args := make([]*Node, 12)
	for i := range args {
		args[i] = Lit(i)
	}
	op := Op("list", args...)
	keys, err := op.ArgKeys()
	if err != nil {
		t.Fatal(err)
	}
	for i, k := range keys {
		if k != ArgKey(i) {
			t.Errorf("key %d: got %q, want %q", i, k, ArgKey(i))
		}
	}
	got, err := op.Args()
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range got {
		if a.Value != i {
			t.Errorf("arg %d has value %v", i, a.Value)
		}
	}
}

func TestArgKeysMemoInvalidated(t *testing.T) {
	op := Op("f", Lit(0), Lit(1))
	if _, err := op.ArgKeys(); err != nil {
		t.Fatal(err)
	}
	op.Children[ArgKey(2)] = Lit(2)
	keys, err := op.ArgKeys()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(keys, []string{"arg0", "arg1", "arg2"}) {
		t.Errorf("got %v", keys)
	}
}

func TestArgKeysConcurrent(t *testing.T) {
	op := Op("f", Lit(0), Lit(1), Lit(2))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keys, err := op.ArgKeys()
			if err != nil || !slices.Equal(keys, []string{"arg0", "arg1", "arg2"}) {
				t.Errorf("got %v, %v", keys, err)
			}
		}()
	}
	wg.Wait()
}

func TestArgKeysMalformed(t *testing.T) {
	for _, key := range []string{"x", "arg", "arg-1", "argx"} {
		op := Op("f", Lit(0))
		op.Children[key] = Lit(1)
		if _, err := op.ArgKeys(); !errors.Is(err, ErrArgKey) {
			t.Errorf("%q: expected ErrArgKey, got %v", key, err)
		}
	}
	op := Op("f", Lit(0), Lit(1))
	op.Children["arg01"] = Lit(2)
	if _, err := op.ArgKeys(); !errors.Is(err, ErrArgKey) {
		t.Errorf("duplicate index: expected ErrArgKey, got %v", err)
	}
}

func TestRefNeverEmpty(t *testing.T) {
	r := Ref()
	if !slices.Equal(r.RefSegments(), []string{"self"}) {
		t.Errorf("got %v", r.RefSegments())
	}
	r = RefPath("root.children.'a.b'.value")
	if !slices.Equal(r.RefSegments(), []string{"root", "children", "a.b", "value"}) {
		t.Errorf("got %v", r.RefSegments())
	}
}
