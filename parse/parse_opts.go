package parse

import (
	"path/filepath"

	"github.com/signadot/tony-format/nodal/format"
	"github.com/signadot/tony-format/nodal/ir"
)

type parseOpts struct {
	format  format.Format
	resolve ir.Resolver
	strict  bool
}

type ParseOption func(*parseOpts)

func ParseYAML() ParseOption {
	return ParseFormat(format.YAMLFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// FromPath sets the format from the extension of path. Unknown
// extensions read as YAML, which also reads JSON.
func FromPath(path string) ParseOption {
	f, ok := format.BySuffix(filepath.Ext(path))
	if !ok {
		f = format.YAMLFormat
	}
	return ParseFormat(f)
}

// WithResolver sets the resolver of type ids.
func WithResolver(r ir.Resolver) ParseOption {
	return func(o *parseOpts) { o.resolve = r }
}

// Strict rejects unknown fields in serialized nodes.
func Strict(v bool) ParseOption {
	return func(o *parseOpts) { o.strict = v }
}

func newParseOpts(opts []ParseOption) *parseOpts {
	o := &parseOpts{}
	for _, f := range opts {
		f(o)
	}
	return o
}
