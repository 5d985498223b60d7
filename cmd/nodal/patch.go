package main

import (
	"bytes"
	"fmt"

	"github.com/signadot/tony-format/nodal/encode"
	"github.com/signadot/tony-format/nodal/libdiff"
	"github.com/signadot/tony-format/nodal/parse"

	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file, and optionally files to which to apply it", cli.ErrUsage)
	}
	p, err := readInput(cc, args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	tool, err := newTool(nil)
	if err != nil {
		return err
	}
	docs, err := loadDocs(cfg.MainConfig, cc, tool, args[1:])
	if err != nil {
		return err
	}
	for i, doc := range docs {
		if !cfg.Text {
			if err := doc.tree.ApplyPatch(p); err != nil {
				return fmt.Errorf("error patching %s: %w", doc.name, err)
			}
			if err := output(cfg.MainConfig, cc.Out, doc.tree.Node(), i); err != nil {
				return fmt.Errorf("error encoding result: %w", err)
			}
			continue
		}
		// text patches apply to the encoding diff -p compared
		buf := bytes.NewBuffer(nil)
		eOpts := append(cfg.encOpts(nil), encode.EncodeColors(nil))
		if err := encode.EncodeValue(doc.tree.Serialize(), buf, eOpts...); err != nil {
			return err
		}
		txt, err := libdiff.ApplyPatch(string(p), buf.String())
		if err != nil {
			return fmt.Errorf("error patching %s: %w", doc.name, err)
		}
		tr, err := tool.Load([]byte(txt), parse.ParseFormat(encode.FormatFromOpts(eOpts...)))
		if err != nil {
			return fmt.Errorf("error decoding patched %s: %w", doc.name, err)
		}
		if err := output(cfg.MainConfig, cc.Out, tr.Node(), i); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
	}
	return nil
}
