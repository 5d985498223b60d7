package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/signadot/tony-format/nodal/encode"
	"github.com/signadot/tony-format/nodal/format"
	"github.com/signadot/tony-format/nodal/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	WireOut bool `cli:"name=wire desc='output in compact format'"`
	Strict  bool `cli:"name=strict desc='reject unknown fields in input'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	ctx  context.Context
	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) inFormat() format.Format {
	var fmat format.Format
	switch {
	case cfg.Y:
		fmat = format.YAMLFormat
	case cfg.J:
		fmat = format.JSONFormat
	}
	if cfg.InFormat != nil {
		fmat = *cfg.InFormat
	}
	return fmat
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{
		parse.ParseFormat(cfg.inFormat()),
		parse.Strict(cfg.Strict),
	}
}

// parseOptsFor is parseOpts, with the input format taken from the file
// suffix unless one was given on the command line.
func (cfg *MainConfig) parseOptsFor(path string) []parse.ParseOption {
	res := cfg.parseOpts()
	if cfg.InFormat != nil || cfg.J || cfg.Y {
		return res
	}
	if path == "-" {
		return res
	}
	return append(res, parse.FromPath(path))
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var fmat format.Format
	switch {
	case cfg.Y:
		fmat = format.YAMLFormat
	case cfg.J:
		fmat = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		fmat = *cfg.OutFormat
	}
	res := []encode.EncodeOption{
		encode.EncodeFormat(fmat),
		encode.EncodeWire(cfg.WireOut),
	}
	if cfg.colored(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// colored reports whether output to w is colored: when -color is given,
// or, without it, when w is a terminal.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type EvalConfig struct {
	*MainConfig
	Env  map[string]any
	Ops  bool `cli:"name=ops desc='show available operators'"`
	Exec bool `cli:"name=exec desc='enable the exec operator, which runs shell commands'"`

	Eval *cli.Command
}

type GetConfig struct {
	*MainConfig
	Env map[string]any

	Get *cli.Command
}

type ValidateConfig struct {
	*MainConfig
	Env   map[string]any
	Quiet bool `cli:"name=q desc='only set the exit status'"`

	Validate *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Snapshot bool `cli:"name=s desc='diff evaluated snapshots instead of nodes'"`
	Context  int  `cli:"name=C desc='lines of context around changes, -1 for all'"`
	Patch    bool `cli:"name=p desc='output a text patch'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Text bool `cli:"name=t desc='patch is a text patch from diff -p'"`

	Patch *cli.Command
}

type ServeConfig struct {
	*MainConfig
	Env  map[string]any
	Gops bool `cli:"name=gops desc='start a gops diagnostics agent'"`

	Serve *cli.Command
}
