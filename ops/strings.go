package ops

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/signadot/tony-format/nodal/eval"
	"github.com/signadot/tony-format/nodal/ir"
)

// concat joins the string forms of its arguments, skipping nil.
func concat(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	vs, err := eval.EvalSeq(ctx, args, ec)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, v := range vs {
		if v != nil {
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String(), nil
}

func length(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("len", args, 1); err != nil {
		return nil, err
	}
	v, err := eval.EvalOne(ctx, args[0], ec)
	if err != nil {
		return nil, err
	}
	n, ok := lenOf(v)
	if !ok {
		return nil, fmt.Errorf("len: %w: %T has no length", ErrType, v)
	}
	return n, nil
}

func lenOf(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, true
	case string:
		return utf8.RuneCountInString(x), true
	case *ir.Node:
		return len(x.Children), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// empty is true for nil and for empty strings and collections.
func empty(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	if err := arity("empty", args, 1); err != nil {
		return nil, err
	}
	v, err := eval.EvalOne(ctx, args[0], ec)
	if err != nil {
		return nil, err
	}
	n, ok := lenOf(v)
	return ok && n == 0, nil
}

var patterns sync.Map

// matches reports whether its first argument, a string, matches the
// regular expression given as second argument. A nil subject does not
// match.
func matches(ctx context.Context, args []*ir.Node, ec *eval.Context) (any, error) {
	s, p, err := pair(ctx, "matches", args, ec)
	if err != nil {
		return nil, err
	}
	pat, ok := p.(string)
	if !ok {
		return nil, fmt.Errorf("matches: %w: pattern is %T", ErrType, p)
	}
	if s == nil {
		return false, nil
	}
	str, ok := s.(string)
	if !ok {
		return nil, fmt.Errorf("matches: %w: subject is %T", ErrType, s)
	}
	re, err := compilePattern(pat)
	if err != nil {
		return nil, err
	}
	return re.MatchString(str), nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(p); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	patterns.Store(p, re)
	return re, nil
}
