package query

import "cmp"

// Predicate tests a single record.
type Predicate[T any] func(T) (bool, error)

// Comparator orders two records: negative when a sorts before b, zero when
// they are equal, positive otherwise.
type Comparator[T any] func(a, b T) (int, error)

// KeyExtractor returns the composite grouping key of a record.
type KeyExtractor[T any] func(T) (Key, error)

// Aggregator computes the summary of one group from its key and members.
type Aggregator[T any] func(keys Key, members []T) (map[string]any, error)

// Mapper transforms a record into a result value.
type Mapper[T, R any] func(T) (R, error)

// Reducer folds a record into the accumulator.
type Reducer[T, A any] func(acc A, record T) (A, error)

// Differ reports whether two records at the same position differ.
type Differ[T any] func(current, other T) (bool, error)

// Test adapts an infallible boolean function into a Predicate.
func Test[T any](fn func(T) bool) Predicate[T] {
	return func(r T) (bool, error) { return fn(r), nil }
}

// Not negates a predicate.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(r T) (bool, error) {
		ok, err := p(r)
		return !ok, err
	}
}

// Compare adapts an infallible comparison function into a Comparator.
func Compare[T any](fn func(a, b T) int) Comparator[T] {
	return func(a, b T) (int, error) { return fn(a, b), nil }
}

// Ascending orders records by an ordered field, smallest first.
func Ascending[T any, K cmp.Ordered](field func(T) K) Comparator[T] {
	return func(a, b T) (int, error) { return cmp.Compare(field(a), field(b)), nil }
}

// Descending orders records by an ordered field, largest first.
func Descending[T any, K cmp.Ordered](field func(T) K) Comparator[T] {
	return Reverse(Ascending(field))
}

// Reverse inverts a comparator.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) (int, error) { return c(b, a) }
}

// ThenBy chains comparators: later comparators break ties left by earlier
// ones.
func ThenBy[T any](comparators ...Comparator[T]) Comparator[T] {
	return func(a, b T) (int, error) {
		for _, c := range comparators {
			n, err := c(a, b)
			if err != nil || n != 0 {
				return n, err
			}
		}
		return 0, nil
	}
}

// Fields builds a KeyExtractor whose key components are the values returned
// by fields, in order.
func Fields[T any](fields ...func(T) any) KeyExtractor[T] {
	return func(r T) (Key, error) {
		key := make(Key, len(fields))
		for i, f := range fields {
			key[i] = f(r)
		}
		return key, nil
	}
}

// Changed builds a Differ that reports a difference when field is unequal
// between the two records.
func Changed[T any, K comparable](field func(T) K) Differ[T] {
	return func(current, other T) (bool, error) {
		return field(current) != field(other), nil
	}
}
