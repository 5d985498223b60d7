package rpc

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/tony-format/nodal/ir"
	"github.com/signadot/tony-format/nodal/ops"
	"github.com/signadot/tony-format/nodal/tree"
)

// profile returns
//
//	profile = "Hello " + name
//	  age  = 3
//	  name = "", required
func profile() *tree.Tree {
	required := ir.NewConstraint(ir.Op("not", ir.Op("empty", ir.Ref("self", "value"))), "name is required")
	root := ir.New("profile", ir.NewType("profile")).
		WithValue(ir.Op("concat", ir.Lit("Hello "), ir.Ref("name", "value"))).
		WithChild("age", ir.New("age", ir.NewType("number")).WithValue(3)).
		WithChild("name", ir.New("name", ir.NewType("string")).
			WithValue("").
			WithConstraint("required", required))
	return tree.New(root, tree.WithRegistry(ops.NewRegistry()))
}

type harness struct {
	client  *Client
	changes chan *Changed
	served  chan error
}

func start(t *testing.T, tr *tree.Tree) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv, cli := net.Pipe()
	h := &harness{changes: make(chan *Changed, 16), served: make(chan error, 1)}
	go func() {
		h.served <- NewSession(tr).Serve(ctx, srv)
	}()
	h.client = Dial(ctx, cli, func(c *Changed) { h.changes <- c })
	t.Cleanup(func() {
		h.client.Close()
		select {
		case err := <-h.served:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("session did not stop")
		}
		cancel()
	})
	return h
}

func (h *harness) noChange(t *testing.T) {
	t.Helper()
	select {
	case c := <-h.changes:
		t.Errorf("unexpected change %+v", c)
	default:
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	h := start(t, profile())
	c := h.client

	keys, err := c.Children(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"age", "name"}, keys); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	v, err := c.Value(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v != "Hello " {
		t.Errorf("value: got %v", v)
	}

	vr, err := c.Validate(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	want := &ValidateResult{Deep: map[string]map[string]string{"name": {"required": "name is required"}}}
	if diff := cmp.Diff(want, vr); diff != "" {
		t.Errorf("validate (-want +got):\n%s", diff)
	}

	id, err := c.Subscribe(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "Ada", "name"); err != nil {
		t.Fatal(err)
	}
	select {
	case ch := <-h.changes:
		if diff := cmp.Diff(&Changed{ID: id, Paths: []string{"name"}}, ch); diff != "" {
			t.Errorf("changed (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	snap, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantSnap := map[string]any{tree.ValueKey: "Hello Ada", "age": float64(3), "name": "Ada"}
	if diff := cmp.Diff(wantSnap, snap); diff != "" {
		t.Errorf("snapshot (-want +got):\n%s", diff)
	}

	vr, err = c.Validate(ctx, false, "name")
	if err != nil {
		t.Fatal(err)
	}
	if !vr.Valid {
		t.Errorf("name should be valid: %+v", vr)
	}

	s, err := c.Get(ctx, "name")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "name" || s.Type.ID != "string" || s.Value != "Ada" {
		t.Errorf("get: got %+v", s)
	}

	txt, err := c.Serialize(ctx, "json", "name")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(txt, `"value": "Ada"`) {
		t.Errorf("serialize: got %s", txt)
	}

	ok, err := c.Unsubscribe(ctx, id)
	if err != nil || !ok {
		t.Fatalf("unsubscribe: %v %v", ok, err)
	}
	if err := c.Set(ctx, "Bob", "name"); err != nil {
		t.Fatal(err)
	}
	h.noChange(t)
	if ok, _ := c.Unsubscribe(ctx, id); ok {
		t.Error("second unsubscribe succeeded")
	}
}

func TestSessionFilteredSubscription(t *testing.T) {
	ctx := context.Background()
	h := start(t, profile())
	c := h.client

	id, err := c.Subscribe(ctx, nil, []string{"age"})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "Ada", "name"); err != nil {
		t.Fatal(err)
	}
	h.noChange(t)
	if err := c.Set(ctx, 4, "age"); err != nil {
		t.Fatal(err)
	}
	select {
	case ch := <-h.changes:
		if ch.ID != id || len(ch.Paths) != 1 || ch.Paths[0] != "age" {
			t.Errorf("changed: got %+v", ch)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func code(err error) jsonrpc2.Code {
	var e *jsonrpc2.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

func TestSessionErrors(t *testing.T) {
	ctx := context.Background()
	h := start(t, profile())
	c := h.client

	_, err := c.Value(ctx, "nope")
	if got := code(err); got != CodeNotFound {
		t.Errorf("missing path: got code %d (%v)", got, err)
	}
	_, err = c.Serialize(ctx, "toml")
	if got := code(err); got != jsonrpc2.InvalidParams {
		t.Errorf("bad format: got code %d (%v)", got, err)
	}
	_, err = c.conn.Call(ctx, "tree/nope", nil, nil)
	if got := code(err); got != jsonrpc2.MethodNotFound {
		t.Errorf("unknown method: got code %d (%v)", got, err)
	}
	_, err = c.conn.Call(ctx, MethodValue, map[string]any{"bogus": 1}, nil)
	if got := code(err); got != jsonrpc2.InvalidParams {
		t.Errorf("unknown field: got code %d (%v)", got, err)
	}
}

func TestSessionNoRegistry(t *testing.T) {
	ctx := context.Background()
	root := ir.New("r", ir.NewType("t")).WithValue(ir.Op("concat", ir.Lit("x")))
	h := start(t, tree.New(root))

	_, err := h.client.Value(ctx)
	if got := code(err); got != jsonrpc2.InternalError {
		t.Errorf("got code %d (%v)", got, err)
	}
	if err == nil || !strings.Contains(err.Error(), "registry") {
		t.Errorf("expected registry error, got %v", err)
	}
}
