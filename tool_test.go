package nodal

import (
	"context"
	"errors"
	"testing"

	"github.com/signadot/tony-format/nodal/ir"
	"github.com/signadot/tony-format/nodal/parse"
	"github.com/signadot/tony-format/nodal/tree"
)

const profileYAML = `
id: profile
type: {id: profile}
value:
  id: concat
  type: {id: operator}
  children:
    arg0: {id: literal, type: {id: literal}, value: "Hello "}
    arg1: {id: reference, type: {id: reference}, value: [name, value]}
metadata:
  who: {id: reference, type: {id: reference}, value: [env, user]}
children:
  age: {id: age, type: {id: number}, value: 3}
  name: {id: name, type: {id: string}, value: Ada}
`

type getTest struct {
	Path string
	Res  any
}

var getTests = []getTest{
	{Path: "$.value", Res: "Hello Ada"},
	{Path: "value", Res: "Hello Ada"},
	{Path: "$.name", Res: "Ada"},
	{Path: "name.value", Res: "Ada"},
	{Path: "age", Res: 3},
	{Path: "$.type.id", Res: "profile"},
	{Path: "who", Res: "ada"},
	{Path: "env.user", Res: "ada"},
	{Path: "name.parent.id", Res: "profile"},
	{Path: "nope", Res: nil},
	{Path: "$.nope.value", Res: nil},
}

func load(t *testing.T, tool *Tool) *tree.Tree {
	t.Helper()
	tr, err := tool.Load([]byte(profileYAML))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	tool := DefaultTool()
	tool.Env["env"] = map[string]any{"user": "ada"}
	tr := load(t, tool)
	for _, tt := range getTests {
		t.Run(tt.Path, func(t *testing.T) {
			got, err := tool.Get(ctx, tr, tt.Path)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.ValueEqual(got, tt.Res) {
				t.Errorf("got %v (%T), want %v", got, got, tt.Res)
			}
		})
	}
	// from a descendant, paths still start at the root
	if got, _ := tool.Get(ctx, tr.Child("name"), "age"); !ir.ValueEqual(got, 3) {
		t.Errorf("get from child: %v", got)
	}
	root, err := tool.Get(ctx, tr, "$")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := root.(*ir.Node); !ok || !ir.IsOperator(n) {
		t.Errorf("$ should be the raw root value, got %#v", root)
	}
}

func TestGetBadPath(t *testing.T) {
	tool := DefaultTool()
	tr := load(t, tool)
	if _, err := tool.Get(context.Background(), tr, "a..b"); !errors.Is(err, ir.ErrBadPath) {
		t.Errorf("expected ErrBadPath, got %v", err)
	}
}

func TestLoadSharesTypes(t *testing.T) {
	tool := DefaultTool()
	a := load(t, tool)
	b := load(t, tool)
	if a.Child("name").Node().Type != b.Child("name").Node().Type {
		t.Error("string type not shared between loads")
	}
	if a.Node().Type == b.Child("name").Node().Type {
		t.Error("distinct ids share a type")
	}
	if a.Registry() != tool.Registry {
		t.Error("registry not attached")
	}
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	tool := DefaultTool()
	data := []byte(profileYAML + "\n---\n" + `{"id": "n", "type": {"id": "number"}, "value": 1}` + "\n")
	trs, err := tool.LoadAll(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(trs) != 2 {
		t.Fatalf("got %d trees", len(trs))
	}
	if trs[0].Child("age").Node().Type != trs[1].Node().Type {
		t.Error("number type not shared across documents")
	}
	v, err := trs[1].GetValue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.ValueEqual(v, 1) {
		t.Errorf("value %v", v)
	}
	if _, err := tool.LoadAll([]byte("id: x\n---\nid: y\n")); !errors.Is(err, parse.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
