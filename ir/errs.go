package ir

import "errors"

var (
	ErrArgKey    = errors.New("malformed operator argument key")
	ErrBadSerial = errors.New("bad serialized node")
	ErrBadPath   = errors.New("bad path")
)
