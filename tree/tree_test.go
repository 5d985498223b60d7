package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

func testRegistry() *eval.Registry {
	r := eval.NewRegistry()
	r.Register("nonEmpty", func(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
		if len(args) != 1 {
			return nil, eval.ErrArity
		}
		v, err := eval.EvalOne(ctx, args[0], ec)
		if err != nil {
			return nil, err
		}
		return v != nil && v != "", nil
	})
	r.Register("concat", func(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
		vs, err := eval.EvalSeq(ctx, args, ec)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		for _, v := range vs {
			if v != nil {
				fmt.Fprint(&sb, v)
			}
		}
		return sb.String(), nil
	})
	return r
}

func required(msg string) *ir.Node {
	return ir.NewConstraint(ir.Op("nonEmpty", ir.Ref("self", "value")), msg)
}

// signupForm returns
//
//	signup (title, greeting)
//	  address
//	    city   required, no message
//	  email    required
//	  name     required
func signupForm() *ir.Node {
	str := ir.NewType("string")
	field := func(id, msg string) *ir.Node {
		return ir.New(id, str).WithDefault("").WithValue("").WithConstraint("required", required(msg))
	}
	address := ir.New("address", ir.NewType("group")).
		WithChild("city", field("city", ""))
	return ir.New("signup", ir.NewType("form")).
		WithChild("address", address).
		WithChild("email", field("email", "email is required").
			WithMetadata("alias", ir.Ref("self", "value"))).
		WithChild("name", field("name", "name is required")).
		WithMetadata("title", ir.Lit("Sign up")).
		WithMetadata("greeting", ir.Op("concat", ir.Lit("Hello "), ir.Ref("root", "name", "value")))
}

func newForm() *Tree {
	return New(signupForm(), WithRegistry(testRegistry()))
}

type recorder struct {
	calls [][]string
}

func (r *recorder) listen(paths []string) {
	r.calls = append(r.calls, paths)
}

func TestNavigation(t *testing.T) {
	tr := newForm()
	email := tr.Child("email")
	if email == nil || email != tr.Child("email") {
		t.Fatalf("child wrapper not cached")
	}
	if email.Parent() != tr || email.Root() != tr || email.Key() != "email" || email.ID() != "email" {
		t.Errorf("bad linkage for email")
	}
	if tr.Child("phone") != nil {
		t.Errorf("missing child has a wrapper")
	}
	city := tr.At("address", "city")
	if city == nil {
		t.Fatal("no address.city")
	}
	if got := city.Path().String(); got != "address.city" {
		t.Errorf("path %q", got)
	}
	if len(tr.Path()) != 0 {
		t.Errorf("root path %v", tr.Path())
	}
	if diff := cmp.Diff([]string{"address", "email", "name"}, tr.ChildKeys()); diff != "" {
		t.Errorf("ChildKeys (-want +got):\n%s", diff)
	}
	if n := len(tr.Children()); n != 3 {
		t.Errorf("%d children", n)
	}
	if tr.At("address", "nope") != nil {
		t.Errorf("At found a missing path")
	}
}

func TestStructuralMutation(t *testing.T) {
	tr := newForm()
	rec := &recorder{}
	tr.Subscribe(rec.listen)
	old := tr.Child("email")
	if err := tr.AddChild("email", ir.New("email", ir.NewType("string")).WithValue("new")); err != nil {
		t.Fatal(err)
	}
	email := tr.Child("email")
	if email == old || email.Value() != "new" {
		t.Errorf("cached wrapper survived replacement")
	}
	if old.Parent() != nil {
		t.Errorf("replaced wrapper still attached")
	}
	ok, err := tr.RemoveChild("name")
	if err != nil || !ok {
		t.Fatalf("RemoveChild = %v, %v", ok, err)
	}
	if ok, _ := tr.RemoveChild("name"); ok {
		t.Errorf("second RemoveChild reported presence")
	}
	if tr.Child("name") != nil {
		t.Errorf("removed child still reachable")
	}
	want := [][]string{{"email"}, {"name"}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestRegistryRequired(t *testing.T) {
	ctx := context.Background()
	bare := New(signupForm())
	if _, err := bare.Child("email").GetValue(ctx); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("GetValue without registry: %v", err)
	}
	if _, err := bare.Child("email").Validate(ctx); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("Validate without registry: %v", err)
	}
	// no constraints, nothing to evaluate
	if r, err := bare.Validate(ctx); err != nil || !r.Valid {
		t.Errorf("Validate = %v, %v", r, err)
	}
	tr := newForm()
	if tr.Child("email").Registry() != tr.Registry() {
		t.Errorf("registry not inherited")
	}
}

func TestEvaluatedAccessors(t *testing.T) {
	ctx := context.Background()
	tr := newForm()
	if err := tr.SetValue("Ada", AtPath("name")); err != nil {
		t.Fatal(err)
	}
	got, err := tr.GetMetadata(ctx, "greeting")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello Ada" {
		t.Errorf("greeting %q", got)
	}
	if got, _ := tr.GetMetadata(ctx, "title"); got != "Sign up" {
		t.Errorf("title %v", got)
	}
	if got, err := tr.GetMetadata(ctx, "nope"); got != nil || err != nil {
		t.Errorf("missing metadata: %v, %v", got, err)
	}
	name := tr.Child("name")
	if got, _ := name.GetConstraint(ctx, "required"); got != true {
		t.Errorf("required = %v", got)
	}
	if err := tr.SetValue(1, AtPath("phone")); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetValue at missing path: %v", err)
	}
}

func TestMetadataAlias(t *testing.T) {
	ctx := context.Background()
	email := newForm().Child("email")
	email.SetValue("a@b.c")
	direct, err := email.GetValue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	alias, err := email.GetMetadata(ctx, "alias")
	if err != nil {
		t.Fatal(err)
	}
	if direct != "a@b.c" || alias != direct {
		t.Errorf("alias %v, direct %v", alias, direct)
	}
}

func TestMetadataAccessors(t *testing.T) {
	tr := newForm()
	rec := &recorder{}
	tr.Subscribe(rec.listen)
	if err := tr.SetMetadata("hint", ir.Lit("x")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"greeting", "hint", "title"}, tr.MetadataKeys()); diff != "" {
		t.Errorf("MetadataKeys (-want +got):\n%s", diff)
	}
	if ok, _ := tr.RemoveMetadata("hint"); !ok || tr.Metadata("hint") != nil {
		t.Errorf("hint not removed")
	}
	if err := tr.SetConstraint("min", required("x"), AtPath("address"), Silent()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"min"}, tr.Child("address").ConstraintKeys()); diff != "" {
		t.Errorf("ConstraintKeys (-want +got):\n%s", diff)
	}
	if ok, _ := tr.Child("address").RemoveConstraint("min"); !ok {
		t.Errorf("min not removed")
	}
	if tr.Child("address").Constraint("min") != nil {
		t.Errorf("min still present")
	}
	want := [][]string{{"$"}, {"$"}, {"address"}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestBindings(t *testing.T) {
	ctx := context.Background()
	root := signupForm().WithMetadata("who", ir.Ref("env", "user"))
	tr := New(root, WithRegistry(testRegistry()), WithBindings(map[string]any{
		"env": map[string]any{"user": "ada"},
	}))
	got, err := tr.GetMetadata(ctx, "who")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ada" {
		t.Errorf("who = %v", got)
	}
	if tr.Child("address").Child("city").Bindings()["env"] == nil {
		t.Error("bindings not inherited")
	}
	if c := tr.Clone(); c.Bindings()["env"] == nil {
		t.Error("clone lost bindings")
	}
}
