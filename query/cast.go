package query

import (
	"fmt"
	"reflect"

	apperrors "github.com/kbukum/recq/errors"
)

// As downcasts an opaque value to R. A value of another dynamic type yields a
// TYPE_MISMATCH error.
func As[R any](v any) (R, error) {
	r, ok := v.(R)
	if !ok {
		return r, apperrors.TypeMismatch(reflect.TypeFor[R]().String(), typeName(v))
	}
	return r, nil
}

// Number converts any Go numeric value to float64. Other values yield a
// TYPE_MISMATCH error.
func Number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, apperrors.TypeMismatch("number", typeName(v))
	}
}

// ValueAs returns the summary value called name downcast to R.
func ValueAs[R, T any](g *Group[T], name string) (R, error) {
	v, ok := g.Lookup(name)
	if !ok {
		var zero R
		return zero, apperrors.NotFound("summary value", name)
	}
	return As[R](v)
}

// KeyAs returns the key component at index i downcast to R.
func KeyAs[R, T any](g *Group[T], i int) (R, error) {
	if i < 0 || i >= len(g.keys) {
		var zero R
		return zero, apperrors.NotFound("key component", fmt.Sprint(i))
	}
	return As[R](g.keys[i])
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
