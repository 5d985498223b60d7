package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"y", YAMLFormat},
		{"yaml", YAMLFormat},
		{"yml", YAMLFormat},
		{"j", JSONFormat},
		{"json", JSONFormat},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseFormat("tony"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v, want ErrBadFormat", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var g Format
		if err := g.UnmarshalText(d); err != nil || g != f {
			t.Errorf("%s: got %v, %v", f, g, err)
		}
		if g, ok := BySuffix(f.Suffix()); !ok || g != f {
			t.Errorf("BySuffix(%s) = %v, %v", f.Suffix(), g, ok)
		}
	}
	if _, err := Format(9).MarshalText(); err == nil {
		t.Errorf("bad format marshaled")
	}
}

func TestBySuffix(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
		ok   bool
	}{
		{".yaml", YAMLFormat, true},
		{".yml", YAMLFormat, true},
		{".json", JSONFormat, true},
		{".toml", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := BySuffix(tt.ext)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BySuffix(%q) = %v, %v", tt.ext, got, ok)
		}
	}
}
