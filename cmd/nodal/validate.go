package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/signadot/tony-format/nodal/tree"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		return err
	}
	tool, err := newTool(cfg.Env)
	if err != nil {
		return err
	}
	docs, err := loadDocs(cfg.MainConfig, cc, tool, args)
	if err != nil {
		return err
	}
	failed := false
	for _, doc := range docs {
		res, err := doc.tree.ValidateDeep(cfg.ctx)
		if err != nil {
			return fmt.Errorf("error validating %s: %w", doc.name, err)
		}
		if res.Valid {
			continue
		}
		failed = true
		if cfg.Quiet {
			continue
		}
		if err := report(cc.Out, doc.name, res, cfg.colored(cc.Out)); err != nil {
			return err
		}
	}
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// report writes one line per failing constraint, ordered by path and
// then constraint key.
func report(w io.Writer, name string, res tree.DeepResult, colored bool) error {
	where := color.New(color.FgYellow)
	msg := color.New(color.FgRed)
	if colored {
		where.EnableColor()
		msg.EnableColor()
	} else {
		where.DisableColor()
		msg.DisableColor()
	}
	for _, p := range slices.Sorted(maps.Keys(res.Errors)) {
		errs := res.Errors[p]
		for _, k := range slices.Sorted(maps.Keys(errs)) {
			_, err := fmt.Fprintf(w, "%s: %s: %s\n", name, where.Sprintf("%s[%s]", p, k), msg.Sprint(errs[k]))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
