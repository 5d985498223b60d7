package ir

import (
	"reflect"
)

// Equal reports whether a and b are structurally equal. Types are compared
// by id; values are compared with ValueEqual.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.ID != b.ID || a.TypeID() != b.TypeID() {
		return false
	}
	if !ValueEqual(a.Value, b.Value) || !ValueEqual(a.Default, b.Default) {
		return false
	}
	return mapEqual(a.Metadata, b.Metadata) &&
		mapEqual(a.Constraints, b.Constraints) &&
		mapEqual(a.Children, b.Children)
}

func mapEqual(a, b map[string]*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// ValueEqual compares node values. Nodes compare structurally, numbers
// numerically regardless of their Go type, and slices and string keyed
// maps element wise.
func ValueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, aok := a.(*Node)
	bn, bok := b.(*Node)
	if aok || bok {
		return aok && bok && Equal(an, bn)
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok || bok {
		return aok && bok && af == bf
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ra.Kind() {
	case reflect.Slice, reflect.Array:
		if rb.Kind() != reflect.Slice && rb.Kind() != reflect.Array {
			return false
		}
		if ra.Len() != rb.Len() {
			return false
		}
		for i := range ra.Len() {
			if !ValueEqual(ra.Index(i).Interface(), rb.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if rb.Kind() != reflect.Map || ra.Len() != rb.Len() {
			return false
		}
		if ra.Type().Key().Kind() != reflect.String || rb.Type().Key().Kind() != reflect.String {
			return reflect.DeepEqual(a, b)
		}
		iter := ra.MapRange()
		for iter.Next() {
			bv := rb.MapIndex(reflect.ValueOf(iter.Key().String()).Convert(rb.Type().Key()))
			if !bv.IsValid() || !ValueEqual(iter.Value().Interface(), bv.Interface()) {
				return false
			}
		}
		return true
	}
	if ra.Type().Comparable() && rb.Type().Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// ToFloat converts any Go numeric value to float64.
func ToFloat(v any) (float64, bool) {
	return toFloat(v)
}
