package query

import apperrors "github.com/kbukum/recq/errors"

// Map applies fn to every record of s in order and returns the results.
// The result has exactly one element per record.
func Map[T, R any](s *Stage[T], fn Mapper[T, R]) ([]R, error) {
	if err := s.accepts("map"); err != nil {
		return nil, err
	}
	out := make([]R, len(s.records))
	for i, r := range s.records {
		v, err := fn(r)
		if err != nil {
			return nil, capabilityErr("map", err)
		}
		out[i] = v
	}
	return out, nil
}

// Reduce folds the records of s from left to right starting at init. On an
// empty stage it returns init unchanged.
func Reduce[T, A any](s *Stage[T], init A, fn Reducer[T, A]) (A, error) {
	if err := s.accepts("reduce"); err != nil {
		return init, err
	}
	acc := init
	for _, r := range s.records {
		next, err := fn(acc, r)
		if err != nil {
			return init, capabilityErr("reduce", err)
		}
		acc = next
	}
	return acc, nil
}

// ToDiff walks the records of s and other by position and returns the records
// of s for which differ reports a difference, in their original order. Both
// sequences must have the same length.
func (s *Stage[T]) ToDiff(differ Differ[T], other []T) ([]T, error) {
	if err := s.accepts("toDiff"); err != nil {
		return nil, err
	}
	if len(s.records) != len(other) {
		return nil, apperrors.LengthMismatch(len(s.records), len(other))
	}
	out := make([]T, 0, len(s.records))
	for i, r := range s.records {
		changed, err := differ(r, other[i])
		if err != nil {
			return nil, capabilityErr("toDiff", err)
		}
		if changed {
			out = append(out, r)
		}
	}
	return out, nil
}
