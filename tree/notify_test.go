package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBubbling(t *testing.T) {
	tr := newForm()
	root, addr, city := &recorder{}, &recorder{}, &recorder{}
	tr.Subscribe(root.listen)
	tr.Child("address").Subscribe(addr.listen)
	tr.At("address", "city").Subscribe(city.listen)

	tr.At("address", "city").SetValue("Paris")

	if diff := cmp.Diff([][]string{{"$"}}, city.calls); diff != "" {
		t.Errorf("city (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"city"}}, addr.calls); diff != "" {
		t.Errorf("address (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"address.city"}}, root.calls); diff != "" {
		t.Errorf("root (-want +got):\n%s", diff)
	}
}

func TestBatch(t *testing.T) {
	tr := newForm()
	rec := &recorder{}
	tr.Subscribe(rec.listen)
	tr.Batch(func() {
		tr.SetValue("a@b.c", AtPath("email"))
		tr.SetValue("Ada", AtPath("name"))
		tr.SetValue("x@y.z", AtPath("email"))
		tr.Batch(func() {
			tr.At("address", "city").SetValue("Paris")
		})
		if len(rec.calls) != 0 {
			t.Errorf("notified during batch: %v", rec.calls)
		}
	})
	want := [][]string{{"email", "name", "address.city"}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBatchBubblesOnce(t *testing.T) {
	tr := newForm()
	rec := &recorder{}
	tr.Subscribe(rec.listen)
	addr := tr.Child("address")
	addr.Batch(func() {
		addr.SetValue("home")
		addr.Child("city").SetValue("Paris")
		addr.SetValue("work")
	})
	want := [][]string{{"address", "address.city"}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSilent(t *testing.T) {
	tr := newForm()
	rec := &recorder{}
	tr.Subscribe(rec.listen)
	tr.SetValue("a@b.c", AtPath("email"), Silent())
	tr.Child("name").SetValue("Ada", Silent())
	tr.AddChild("phone", signupForm().Children["email"], Silent())
	tr.Reset(AtPath("email"), Silent())
	if len(rec.calls) != 0 {
		t.Errorf("silent mutations notified: %v", rec.calls)
	}
	if tr.Child("name").Value() != "Ada" {
		t.Errorf("silent SetValue not applied")
	}
}

func TestFilterAndWatch(t *testing.T) {
	tr := newForm()
	addr, email := &recorder{}, &recorder{}
	tr.Watch("address", addr.listen)
	tr.Subscribe(email.listen, "email")
	tr.SetValue("a@b.c", AtPath("email"))
	tr.SetValue("Paris", AtPath("address", "city"))
	tr.Batch(func() {
		tr.SetValue("Ada", AtPath("name"))
		tr.SetValue("Rome", AtPath("address", "city"))
		tr.SetValue("home", AtPath("address"))
	})
	want := [][]string{{"address.city"}, {"address.city", "address"}}
	if diff := cmp.Diff(want, addr.calls); diff != "" {
		t.Errorf("address (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"email"}}, email.calls); diff != "" {
		t.Errorf("email (-want +got):\n%s", diff)
	}
}

func TestUnsubscribe(t *testing.T) {
	tr := newForm()
	rec := &recorder{}
	cancel := tr.Subscribe(rec.listen)
	tr.SetValue(1)
	cancel()
	tr.SetValue(2)
	if len(rec.calls) != 1 {
		t.Errorf("got %d notifications, want 1", len(rec.calls))
	}
}

func TestReentrantNotification(t *testing.T) {
	tr := newForm()
	rec := &recorder{}
	tr.Subscribe(rec.listen)
	name := tr.Child("name")
	name.Subscribe(func([]string) {
		if name.Value() == "ada" {
			name.SetValue("Ada")
		}
	})
	name.SetValue("ada")
	want := [][]string{{"name"}, {"name"}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if name.Value() != "Ada" {
		t.Errorf("value %v", name.Value())
	}
}

func TestResetDeep(t *testing.T) {
	tr := newForm()
	tr.SetValue("a@b.c", AtPath("email"))
	tr.SetValue("Ada", AtPath("name"))
	tr.SetValue("Paris", AtPath("address", "city"))
	rec := &recorder{}
	tr.Subscribe(rec.listen)
	if err := tr.ResetDeep(); err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("got %d notifications, want 1", len(rec.calls))
	}
	for _, k := range [][]string{{"email"}, {"name"}, {"address", "city"}} {
		if v := tr.At(k...).Value(); v != "" {
			t.Errorf("%v = %v after reset", k, v)
		}
	}

	tr.SetValue("Ada", AtPath("name"), Silent())
	tr.ResetDeep(Silent())
	if len(rec.calls) != 1 {
		t.Errorf("silent ResetDeep notified")
	}
	if v := tr.Child("name").Value(); v != "" {
		t.Errorf("name = %v after silent reset", v)
	}
}

func TestResetCopiesDefault(t *testing.T) {
	tr := newForm()
	tags := tr.Child("name")
	tags.Node().Default = []any{"a"}
	tags.Reset()
	tags.Value().([]any)[0] = "b"
	if diff := cmp.Diff([]any{"a"}, tags.Node().Default); diff != "" {
		t.Errorf("default aliased by value (-want +got):\n%s", diff)
	}
}
