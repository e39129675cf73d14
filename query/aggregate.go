package query

// Measure extracts a number from a record.
type Measure[T any] func(T) (float64, error)

// Field adapts an infallible numeric field accessor into a Measure.
func Field[T any](fn func(T) float64) Measure[T] {
	return func(r T) (float64, error) { return fn(r), nil }
}

// Aggregate computes one named value of a group summary.
type Aggregate[T any] struct {
	Name    string
	Compute func(members []T) (any, error)
}

// Aggregates combines named aggregates into an Aggregator. Each aggregate
// contributes one entry to the summary under its Name.
func Aggregates[T any](aggs ...Aggregate[T]) Aggregator[T] {
	return func(_ Key, members []T) (map[string]any, error) {
		out := make(map[string]any, len(aggs))
		for _, a := range aggs {
			v, err := a.Compute(members)
			if err != nil {
				return nil, err
			}
			out[a.Name] = v
		}
		return out, nil
	}
}

// Count reports the number of members as an int.
func Count[T any](name string) Aggregate[T] {
	return Aggregate[T]{Name: name, Compute: func(members []T) (any, error) {
		return len(members), nil
	}}
}

// Sum adds the measure over all members.
func Sum[T any](name string, m Measure[T]) Aggregate[T] {
	return Aggregate[T]{Name: name, Compute: func(members []T) (any, error) {
		var total float64
		for _, r := range members {
			v, err := m(r)
			if err != nil {
				return nil, err
			}
			total += v
		}
		return total, nil
	}}
}

// Avg is the arithmetic mean of the measure, or nil for no members.
func Avg[T any](name string, m Measure[T]) Aggregate[T] {
	sum := Sum(name, m)
	return Aggregate[T]{Name: name, Compute: func(members []T) (any, error) {
		if len(members) == 0 {
			return nil, nil
		}
		total, err := sum.Compute(members)
		if err != nil {
			return nil, err
		}
		return total.(float64) / float64(len(members)), nil
	}}
}

// Min is the smallest value of the measure, or nil for no members.
func Min[T any](name string, m Measure[T]) Aggregate[T] {
	return extreme(name, m, func(v, best float64) bool { return v < best })
}

// Max is the largest value of the measure, or nil for no members.
func Max[T any](name string, m Measure[T]) Aggregate[T] {
	return extreme(name, m, func(v, best float64) bool { return v > best })
}

func extreme[T any](name string, m Measure[T], better func(v, best float64) bool) Aggregate[T] {
	return Aggregate[T]{Name: name, Compute: func(members []T) (any, error) {
		var best any
		for _, r := range members {
			v, err := m(r)
			if err != nil {
				return nil, err
			}
			if best == nil || better(v, best.(float64)) {
				best = v
			}
		}
		return best, nil
	}}
}

// First is field of the first member, or nil for no members.
func First[T any](name string, field func(T) any) Aggregate[T] {
	return Aggregate[T]{Name: name, Compute: func(members []T) (any, error) {
		if len(members) == 0 {
			return nil, nil
		}
		return field(members[0]), nil
	}}
}

// Last is field of the last member, or nil for no members.
func Last[T any](name string, field func(T) any) Aggregate[T] {
	return Aggregate[T]{Name: name, Compute: func(members []T) (any, error) {
		if len(members) == 0 {
			return nil, nil
		}
		return field(members[len(members)-1]), nil
	}}
}
