package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/tony-format/nodal"
	"github.com/signadot/tony-format/nodal/encode"
	"github.com/signadot/tony-format/nodal/ir"
	"github.com/signadot/tony-format/nodal/tree"

	"github.com/scott-cotton/cli"
)

type document struct {
	name string
	tree *tree.Tree
}

func newTool(flags map[string]any) (*nodal.Tool, error) {
	env, err := mergeEnv(flags)
	if err != nil {
		return nil, err
	}
	tool := nodal.DefaultTool()
	if env != nil {
		tool.Env = env
	}
	return tool, nil
}

func readInput(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

// loadDocs loads every document of every file, or of stdin when there
// are no files.
func loadDocs(cfg *MainConfig, cc *cli.Context, tool *nodal.Tool, files []string) ([]document, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	var res []document
	for _, file := range files {
		d, err := readInput(cc, file)
		if err != nil {
			return nil, err
		}
		trs, err := tool.LoadAll(d, cfg.parseOptsFor(file)...)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", file, err)
		}
		for i, tr := range trs {
			name := file
			if len(trs) > 1 {
				name = fmt.Sprintf("%s#%d", file, i)
			}
			res = append(res, document{name: name, tree: tr})
		}
	}
	return res, nil
}

// loadOne loads the first document of file.
func loadOne(cfg *MainConfig, cc *cli.Context, tool *nodal.Tool, file string) (*tree.Tree, error) {
	docs, err := loadDocs(cfg, cc, tool, []string{file})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no document", file)
	}
	return docs[0].tree, nil
}

// output encodes v, which is a node or a plain value, preceded by a
// document separator unless it is the first.
func output(cfg *MainConfig, w io.Writer, v any, i int) error {
	if i > 0 {
		if _, err := w.Write([]byte("---\n")); err != nil {
			return err
		}
	}
	if n, ok := ir.AsNode(v); ok {
		return encode.Encode(n, w, cfg.encOpts(w)...)
	}
	return encode.EncodeValue(v, w, cfg.encOpts(w)...)
}
