package eval

import "errors"

var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrMaxDepth        = errors.New("maximum evaluation depth exceeded")
	ErrNoRegistry      = errors.New("no registry")
	ErrArity           = errors.New("wrong number of arguments")
)
