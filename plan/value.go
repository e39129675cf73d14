package plan

import (
	"cmp"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/query"
)

// lookup resolves a dotted field path against a record. A path segment that
// lands on a non-object reports the field as missing.
func lookup(r Record, field string) (any, bool) {
	var cur any = r
	for part := range strings.SplitSeq(field, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func fieldValue(r Record, field string) any {
	v, _ := lookup(r, field)
	return v
}

func isNumber(v any) bool {
	_, err := query.Number(v)
	return err == nil
}

// normalize maps every numeric type to float64 so values read from JSON and
// SQLite compare and group alike.
func normalize(v any) any {
	if n, err := query.Number(v); err == nil {
		return n
	}
	return v
}

// compareValues orders two field values. nil sorts before everything;
// numbers, strings, bools and times compare among themselves. Any other pair
// is a TYPE_MISMATCH.
func compareValues(a, b any) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}
	if x, err := query.Number(a); err == nil {
		y, err := query.Number(b)
		if err != nil {
			return 0, errors.TypeMismatch(kindName(a), kindName(b))
		}
		return cmp.Compare(x, y), nil
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, errors.TypeMismatch("string", kindName(b))
		}
		return cmp.Compare(x, y), nil
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, errors.TypeMismatch("bool", kindName(b))
		}
		switch {
		case x == y:
			return 0, nil
		case !x:
			return -1, nil
		default:
			return 1, nil
		}
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, errors.TypeMismatch("time", kindName(b))
		}
		return x.Compare(y), nil
	}
	return 0, errors.TypeMismatch("comparable value", kindName(a))
}

// equalValues reports whether two field values are the same. Numbers compare
// by value regardless of their Go type, also inside objects and lists.
func equalValues(a, b any) bool {
	if x, err := query.Number(a); err == nil {
		y, err := query.Number(b)
		return err == nil && x == y
	}
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !equalValues(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		return ok && slices.EqualFunc(x, y, equalValues)
	}
	return reflect.DeepEqual(a, b)
}

func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func kindName(v any) string {
	switch {
	case v == nil:
		return "null"
	case isNumber(v):
		return "number"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case time.Time:
		return "time"
	case map[string]any:
		return "object"
	}
	if _, ok := asList(v); ok {
		return "list"
	}
	return reflect.TypeOf(v).String()
}
