package parse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/signadot/tony-format/nodal/format"
	"github.com/signadot/tony-format/nodal/ir"
)

// Parse decodes a serialized node.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	o := newParseOpts(opts)
	s, err := o.serial(d)
	if err != nil {
		return nil, err
	}
	n, err := ir.FromSerial(s, o.resolve)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return n, nil
}

// ParseSerial decodes a serialized node without resolving its types.
func ParseSerial(d []byte, opts ...ParseOption) (*ir.Serial, error) {
	return newParseOpts(opts).serial(d)
}

func (o *parseOpts) serial(d []byte) (*ir.Serial, error) {
	s := &ir.Serial{}
	if err := o.decode(d, s); err != nil {
		return nil, err
	}
	if s.Type.ID == "" {
		return nil, fmt.Errorf("%w: %w: missing type id", ErrParse, ir.ErrBadSerial)
	}
	return s, nil
}

// ParseValue decodes a plain document.
func ParseValue(d []byte, opts ...ParseOption) (any, error) {
	var v any
	if err := newParseOpts(opts).decode(d, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (o *parseOpts) decode(d []byte, v any) error {
	switch o.format {
	case format.JSONFormat:
		dec := json.NewDecoder(bytes.NewReader(d))
		if o.strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		return nil
	case format.YAMLFormat:
		var yopts []yaml.DecodeOption
		if o.strict {
			yopts = append(yopts, yaml.DisallowUnknownField())
		}
		if err := yaml.UnmarshalWithOptions(d, v, yopts...); err != nil {
			return fmt.Errorf("%w: %w", ErrParse, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", format.ErrBadFormat, o.format)
	}
}
