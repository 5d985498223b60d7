package main

import (
	"bytes"
	"fmt"

	"github.com/signadot/tony-format/nodal/encode"
	"github.com/signadot/tony-format/nodal/libdiff"
	"github.com/signadot/tony-format/nodal/tree"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	tool, err := newTool(nil)
	if err != nil {
		return err
	}
	t1, err := loadOne(cfg.MainConfig, cc, tool, args[0])
	if err != nil {
		return err
	}
	t2, err := loadOne(cfg.MainConfig, cc, tool, args[1])
	if err != nil {
		return err
	}
	from, to, err := cfg.sides(t1, t2)
	if err != nil {
		return err
	}
	if cfg.Patch {
		a, err := encodeText(cfg, from)
		if err != nil {
			return err
		}
		b, err := encodeText(cfg, to)
		if err != nil {
			return err
		}
		if a == b {
			return nil
		}
		fmt.Fprint(cc.Out, libdiff.MakePatch(a, b))
		return cli.ExitCodeErr(1)
	}
	d, err := libdiff.Values(from, to, cfg.encOpts(nil)...)
	if err != nil {
		return err
	}
	if d.Empty() {
		return nil
	}
	if err := d.Print(cc.Out, cfg.Context, cfg.colored(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

// sides returns what is compared: serialized nodes, or with -s their
// snapshots.
func (cfg *DiffConfig) sides(t1, t2 *tree.Tree) (any, any, error) {
	if !cfg.Snapshot {
		return t1.Serialize(), t2.Serialize(), nil
	}
	s1, err := t1.Snapshot(cfg.ctx)
	if err != nil {
		return nil, nil, err
	}
	s2, err := t2.Snapshot(cfg.ctx)
	if err != nil {
		return nil, nil, err
	}
	return s1, s2, nil
}

func encodeText(cfg *DiffConfig, v any) (string, error) {
	buf := bytes.NewBuffer(nil)
	opts := append(cfg.encOpts(nil), encode.EncodeColors(nil))
	if err := encode.EncodeValue(v, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
