package query

import "slices"

// Filter keeps the records for which p returns true, preserving their
// relative order. A predicate error fails the stage.
func (s *Stage[T]) Filter(p Predicate[T]) *Stage[T] {
	if err := s.accepts("filter"); err != nil {
		return s.fail(err)
	}
	out := make([]T, 0, len(s.records))
	for _, r := range s.records {
		ok, err := p(r)
		if err != nil {
			return s.fail(capabilityErr("filter", err))
		}
		if ok {
			out = append(out, r)
		}
	}
	return s.next(out)
}

// SortBy orders the records with c. The sort is not stable: records that
// compare equal may be reordered, so callers needing determinism must break
// ties inside c (see ThenBy). A comparator error fails the stage.
func (s *Stage[T]) SortBy(c Comparator[T]) *Stage[T] {
	if err := s.accepts("sortBy"); err != nil {
		return s.fail(err)
	}
	out := slices.Clone(s.records)
	var cmpErr error
	slices.SortFunc(out, func(a, b T) int {
		if cmpErr != nil {
			return 0
		}
		n, err := c(a, b)
		if err != nil {
			cmpErr = err
			return 0
		}
		return n
	})
	if cmpErr != nil {
		return s.fail(capabilityErr("sortBy", cmpErr))
	}
	return s.next(out)
}

// Skip drops the first n records. Skipping past the end yields an empty stage.
func (s *Stage[T]) Skip(n int) *Stage[T] {
	if err := s.accepts("skip"); err != nil {
		return s.fail(err)
	}
	return s.window(clamp(n, len(s.records)), len(s.records))
}

// Take keeps the first n records.
func (s *Stage[T]) Take(n int) *Stage[T] {
	if err := s.accepts("take"); err != nil {
		return s.fail(err)
	}
	return s.window(0, clamp(n, len(s.records)))
}

// Tail keeps the last n records in their original order.
func (s *Stage[T]) Tail(n int) *Stage[T] {
	if err := s.accepts("tail"); err != nil {
		return s.fail(err)
	}
	size := len(s.records)
	return s.window(size-clamp(n, size), size)
}

// Slice keeps the records at positions [start, end). Both bounds are clamped
// to [0, Len()] and start >= end yields an empty stage.
func (s *Stage[T]) Slice(start, end int) *Stage[T] {
	if err := s.accepts("slice"); err != nil {
		return s.fail(err)
	}
	size := len(s.records)
	start, end = clamp(start, size), clamp(end, size)
	if start >= end {
		return s.next([]T{})
	}
	return s.window(start, end)
}

func (s *Stage[T]) window(start, end int) *Stage[T] {
	return s.next(slices.Clone(s.records[start:end]))
}

// clamp bounds n to [0, size].
func clamp(n, size int) int {
	return max(0, min(n, size))
}
