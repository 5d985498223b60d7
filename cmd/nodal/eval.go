package main

import (
	"fmt"
	"strings"

	"github.com/signadot/tony-format/nodal/ops"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

func evalCmd(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Ops {
		fmt.Fprintf(cc.Out, "available operators:\n")
		for _, name := range ops.Names() {
			fmt.Fprintf(cc.Out, "\t- %s\n", name)
		}
		return nil
	}
	tool, err := newTool(cfg.Env)
	if err != nil {
		return err
	}
	if cfg.Exec {
		ops.RegisterExec(tool.Registry)
	}
	docs, err := loadDocs(cfg.MainConfig, cc, tool, args)
	if err != nil {
		return err
	}
	for i, doc := range docs {
		snap, err := doc.tree.Snapshot(cfg.ctx)
		if err != nil {
			return fmt.Errorf("error evaluating %s: %w", doc.name, err)
		}
		if err := output(cfg.MainConfig, cc.Out, snap, i); err != nil {
			return fmt.Errorf("error encoding result %d: %w", i, err)
		}
	}
	return nil
}

// envFunc sets the dotted key of a key=val argument in env to val,
// decoded as YAML.
func envFunc(env map[string]any, a string) error {
	key, val, ok := strings.Cut(a, "=")
	if !ok {
		return fmt.Errorf("%w: argument %q expected key=val", cli.ErrUsage, a)
	}
	var v any
	err := yaml.Unmarshal([]byte(val), &v)
	if err != nil {
		return err
	}
	parts := strings.Split(key, ".")
	n := len(parts)
	tmpEnv := env
	for i, part := range parts {
		if i == n-1 {
			tmpEnv[part] = v
			break
		}
		next := tmpEnv[part]
		if next == nil {
			next = map[string]any{}
			tmpEnv[part] = next
		}
		nextEnv, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot access %s, list or scalar", strings.Join(parts[:i+1], "."))
		}
		tmpEnv = nextEnv
	}
	return nil
}
