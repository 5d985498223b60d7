package parse

import (
	"errors"
)

var ErrParse = errors.New("parse error")
