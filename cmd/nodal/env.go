package main

import (
	"fmt"
	"maps"
	"os"

	"github.com/signadot/tony-format/nodal/debug"
	"github.com/signadot/tony-format/nodal/parse"
)

const EnvEnv = "NODAL_ENV"

// loadEnv decodes the YAML mapping in $NODAL_ENV, if set.
func loadEnv() (map[string]any, error) {
	envEnv := os.Getenv(EnvEnv)
	if envEnv == "" {
		return nil, nil
	}
	v, err := parse.ParseValue([]byte(envEnv))
	if err != nil {
		return nil, fmt.Errorf("error decoding env $%s: %w", EnvEnv, err)
	}
	env, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error decoding env $%s: wrong type %T", EnvEnv, v)
	}
	if debug.Eval() {
		debug.Logf("loaded env from $%s: %v\n", EnvEnv, env)
	}
	return env, nil
}

// mergeEnv returns the bindings of $NODAL_ENV overridden at the top
// level by flags.
func mergeEnv(flags map[string]any) (map[string]any, error) {
	env, err := loadEnv()
	if err != nil {
		return nil, err
	}
	if env == nil {
		return flags, nil
	}
	maps.Copy(env, flags)
	return env, nil
}
