package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/tony-format/nodal/format"
	"github.com/signadot/tony-format/nodal/ir"
)

// Encode writes the serialized form of node to w.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	return EncodeValue(ir.ToSerial(node), w, opts...)
}

// EncodeValue writes a plain value, such as a snapshot, to w.
func EncodeValue(v any, w io.Writer, opts ...EncodeOption) error {
	es := newEncState(opts)
	d, err := es.marshal(v)
	if err != nil {
		return err
	}
	if es.colors != nil {
		d = []byte(es.colors.Colorize(string(d)))
	}
	if len(d) == 0 || d[len(d)-1] != '\n' {
		d = append(d, '\n')
	}
	_, err = w.Write(d)
	return err
}

func (es *EncState) marshal(v any) ([]byte, error) {
	switch es.format {
	case format.JSONFormat:
		if es.wire {
			return json.Marshal(v)
		}
		return json.MarshalIndent(v, "", strings.Repeat(" ", es.indent))
	case format.YAMLFormat:
		yopts := []yaml.EncodeOption{
			yaml.Indent(es.indent),
			yaml.IndentSequence(true),
			yaml.UseLiteralStyleIfMultiline(true),
		}
		if es.wire {
			yopts = append(yopts, yaml.Flow(true))
		}
		return yaml.MarshalWithOptions(v, yopts...)
	default:
		return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, es.format)
	}
}

// MustString encodes node as compact YAML, panicking on error.
func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, EncodeWire(true)); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
