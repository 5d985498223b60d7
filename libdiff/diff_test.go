package libdiff

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tony-format/nodal/ir"
)

func TestStrings(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     []Line
	}{
		{
			name: "same",
			from: "a\nb\n",
			to:   "a\nb\n",
			want: []Line{{Equal, "a"}, {Equal, "b"}},
		},
		{
			name: "replace middle",
			from: "a\nb\nc\n",
			to:   "a\nx\nc\n",
			want: []Line{{Equal, "a"}, {Delete, "b"}, {Insert, "x"}, {Equal, "c"}},
		},
		{
			name: "append",
			from: "a\n",
			to:   "a\nb\n",
			want: []Line{{Equal, "a"}, {Insert, "b"}},
		},
		{
			name: "from empty",
			from: "",
			to:   "a\n",
			want: []Line{{Insert, "a"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Strings(tt.from, tt.to)
			if diff := cmp.Diff(tt.want, d.Lines); diff != "" {
				t.Errorf("lines (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	d := Strings("a\nb\nc\nd\ne\n", "a\nb\nc\nd\nE\n")
	if got, want := d.String(), "  a\n  b\n  c\n  d\n- e\n+ E\n"; got != want {
		t.Errorf("full: got %q want %q", got, want)
	}
	buf := &strings.Builder{}
	if err := d.Print(buf, 1, false); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "...\n  d\n- e\n+ E\n"; got != want {
		t.Errorf("context 1: got %q want %q", got, want)
	}
	buf.Reset()
	if err := d.Print(buf, 0, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected escapes in %q", buf.String())
	}
}

func TestNodes(t *testing.T) {
	typ := ir.NewType("t")
	a := ir.New("x", typ).WithValue(1)
	b := ir.New("x", typ).WithValue(2)
	d, err := Nodes(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ins, del := d.Stats()
	if ins != 1 || del != 1 {
		t.Fatalf("stats: got +%d -%d\n%s", ins, del, d)
	}
	if !strings.Contains(d.String(), "- value: 1\n+ value: 2\n") {
		t.Errorf("unexpected diff:\n%s", d)
	}

	d, err = Nodes(a, a.Clone())
	if err != nil {
		t.Fatal(err)
	}
	if !d.Empty() {
		t.Errorf("clone differs:\n%s", d)
	}
}

func TestValues(t *testing.T) {
	d, err := Values(map[string]any{"a": 1, "b": "x"}, map[string]any{"a": 1, "b": "y"})
	if err != nil {
		t.Fatal(err)
	}
	want := []Line{{Equal, "a: 1"}, {Delete, "b: x"}, {Insert, "b: y"}}
	if diff := cmp.Diff(want, d.Lines); diff != "" {
		t.Errorf("lines (-want +got):\n%s", diff)
	}
}

func TestPatch(t *testing.T) {
	from := "id: form\nvalue: draft\n"
	to := "id: form\nvalue: final\n"
	p := MakePatch(from, to)
	got, err := ApplyPatch(p, from)
	if err != nil {
		t.Fatal(err)
	}
	if got != to {
		t.Errorf("got %q want %q", got, to)
	}
	if _, err := ApplyPatch(p, "zzz\n"); !errors.Is(err, ErrPatchFailed) {
		t.Errorf("expected ErrPatchFailed, got %v", err)
	}
	if _, err := ApplyPatch("not a patch", from); err == nil {
		t.Error("expected parse error")
	}
}
