package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Eval    bool
	Resolve bool
	Op      bool
	Notify  bool
	RPC     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Eval = boolEnv("NODAL_DEBUG_EVAL")
	d.Resolve = boolEnv("NODAL_DEBUG_RESOLVE")
	d.Op = boolEnv("NODAL_DEBUG_OP")
	d.Notify = boolEnv("NODAL_DEBUG_NOTIFY")
	d.RPC = boolEnv("NODAL_DEBUG_RPC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Eval() bool {
	return d.Eval
}
func Resolve() bool {
	return d.Resolve
}
func Op() bool {
	return d.Op
}
func Notify() bool {
	return d.Notify
}
func RPC() bool {
	return d.RPC
}
