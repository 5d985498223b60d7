package ops

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/format"
	"github.com/signadot/tony-format/nodal/ir"
	"github.com/signadot/tony-format/nodal/parse"
)

// decode parses a YAML or JSON document into a plain value:
// decode(text) or decode(text, format).
func decode(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("decode", args, 1, 2); err != nil {
		return nil, err
	}
	vs, err := eval.EvalSeq(ctx, args, ec)
	if err != nil {
		return nil, err
	}
	txt, ok := vs[0].(string)
	if !ok {
		return nil, fmt.Errorf("decode: %w: text is %T", ErrType, vs[0])
	}
	f := format.YAMLFormat
	if len(vs) == 2 {
		name, ok := vs[1].(string)
		if !ok {
			return nil, fmt.Errorf("decode: %w: format is %T", ErrType, vs[1])
		}
		if f, err = format.ParseFormat(name); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}
	if debug.Op() {
		debug.Logf("decode %d bytes of %s\n", len(txt), f)
	}
	return parse.ParseValue([]byte(txt), parse.ParseFormat(f))
}

// ExecName is the operator installed by RegisterExec.
const ExecName = "exec"

// RegisterExec installs the "exec" operator, which runs its argument as
// a shell command and yields the command's standard output. It is not
// part of Register.
func RegisterExec(r *eval.Registry) {
	r.Register(ExecName, execOp)
}

func execOp(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity(ExecName, args, 1); err != nil {
		return nil, err
	}
	v, err := eval.EvalOne(ctx, args[0], ec)
	if err != nil {
		return nil, err
	}
	line, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("exec: %w: command is %T", ErrType, v)
	}
	if debug.Op() {
		debug.Logf("exec %q\n", line)
	}
	return eval.Go(ctx, func(ctx context.Context) (any, error) {
		cmd := exec.CommandContext(ctx, "sh", "-c", line)
		out, errOut := bytes.NewBuffer(nil), bytes.NewBuffer(nil)
		cmd.Stdout = out
		cmd.Stderr = errOut
		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(errOut.String()); msg != "" {
				return nil, fmt.Errorf("exec %q: %w: %s", line, err, msg)
			}
			return nil, fmt.Errorf("exec %q: %w", line, err)
		}
		return out.String(), nil
	}), nil
}
