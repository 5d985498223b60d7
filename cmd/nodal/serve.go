package main

import (
	"fmt"
	"os"

	"github.com/signadot/tony-format/nodal/rpc"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	// stdin carries the protocol
	if len(args) != 1 || args[0] == "-" {
		return fmt.Errorf("%w: serve requires one file, got %v", cli.ErrUsage, args)
	}
	tool, err := newTool(cfg.Env)
	if err != nil {
		return err
	}
	tr, err := loadOne(cfg.MainConfig, cc, tool, args[0])
	if err != nil {
		return err
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "gops agent failed: %v\n", err)
		} else {
			defer agent.Close()
		}
	}
	return rpc.NewSession(tr).Serve(cfg.ctx, rpc.Stdio())
}
