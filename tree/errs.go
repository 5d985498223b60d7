package tree

import (
	"errors"

	"github.com/signadot/tony-format/nodal/eval"
)

var (
	// ErrNoRegistry is returned by evaluating operations when neither the
	// wrapper nor any of its ancestors has a registry.
	ErrNoRegistry = eval.ErrNoRegistry
	ErrNotFound   = errors.New("no such node")
)
