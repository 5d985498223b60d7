package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a reference path", cli.ErrUsage)
	}
	ref := args[0]
	if ref == "" {
		return fmt.Errorf("%w: invalid reference \"\"", cli.ErrUsage)
	}
	tool, err := newTool(cfg.Env)
	if err != nil {
		return err
	}
	docs, err := loadDocs(cfg.MainConfig, cc, tool, args[1:])
	if err != nil {
		return err
	}
	for i, doc := range docs {
		v, err := tool.Get(cfg.ctx, doc.tree, ref)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", doc.name, ref, err)
		}
		if err := output(cfg.MainConfig, cc.Out, v, i); err != nil {
			return err
		}
	}
	return nil
}
