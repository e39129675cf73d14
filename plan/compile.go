package plan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/query"
)

// apply runs one step on the stage. Errors raised while the step runs are
// carried by the returned stage.
func apply(s *query.Stage[Record], step Step) (*query.Stage[Record], error) {
	switch step.Op {
	case OpFilter:
		return s.Filter(wherePredicate(step.Where)), nil
	case OpSort:
		return s.SortBy(sortComparator(step.Sort)), nil
	case OpSkip:
		return s.Skip(step.N), nil
	case OpTake:
		return s.Take(step.N), nil
	case OpTail:
		return s.Tail(step.N), nil
	case OpSlice:
		return s.Slice(step.Start, step.End), nil
	case OpRollup:
		return s.Rollup(groupKey(step.GroupBy), aggregator(step.Aggregates)), nil
	default:
		return nil, errors.InvalidInput("op", fmt.Sprintf("unknown step op %q", step.Op))
	}
}

// fieldErr tags an AppError with the field that raised it.
func fieldErr(field string, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.WithDetail("field", field)
	}
	return fmt.Errorf("field %s: %w", field, err)
}

// wherePredicate ANDs the conditions, stopping at the first that fails.
func wherePredicate(conds []Condition) query.Predicate[Record] {
	preds := make([]query.Predicate[Record], len(conds))
	for i, c := range conds {
		preds[i] = conditionPredicate(c)
	}
	return func(r Record) (bool, error) {
		for _, p := range preds {
			ok, err := p(r)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

func conditionPredicate(c Condition) query.Predicate[Record] {
	order := func(test func(int) bool) query.Predicate[Record] {
		return func(r Record) (bool, error) {
			v, ok := lookup(r, c.Field)
			if !ok || v == nil {
				return false, nil
			}
			n, err := compareValues(v, c.Value)
			if err != nil {
				return false, fieldErr(c.Field, err)
			}
			return test(n), nil
		}
	}
	member := func(r Record) bool {
		list, _ := asList(c.Value)
		v := fieldValue(r, c.Field)
		return slices.ContainsFunc(list, func(x any) bool { return equalValues(v, x) })
	}
	text := func(test func(s, sub string) bool) query.Predicate[Record] {
		return func(r Record) (bool, error) {
			v, ok := lookup(r, c.Field)
			if !ok || v == nil {
				return false, nil
			}
			s, ok := v.(string)
			if !ok {
				return false, fieldErr(c.Field, errors.TypeMismatch("string", kindName(v)))
			}
			sub, _ := c.Value.(string)
			return test(s, sub), nil
		}
	}

	switch c.Op {
	case CondEq:
		return query.Test(func(r Record) bool { return equalValues(fieldValue(r, c.Field), c.Value) })
	case CondNe:
		return query.Test(func(r Record) bool { return !equalValues(fieldValue(r, c.Field), c.Value) })
	case CondGt:
		return order(func(n int) bool { return n > 0 })
	case CondGte:
		return order(func(n int) bool { return n >= 0 })
	case CondLt:
		return order(func(n int) bool { return n < 0 })
	case CondLte:
		return order(func(n int) bool { return n <= 0 })
	case CondIn:
		return query.Test(member)
	case CondNin:
		return query.Not(query.Test(member))
	case CondContains:
		return text(strings.Contains)
	case CondPrefix:
		return text(strings.HasPrefix)
	case CondExists:
		return query.Test(func(r Record) bool { _, ok := lookup(r, c.Field); return ok })
	case CondMissing:
		return query.Test(func(r Record) bool { _, ok := lookup(r, c.Field); return !ok })
	default:
		return func(Record) (bool, error) {
			return false, errors.InvalidInput("op", fmt.Sprintf("unknown condition op %q", c.Op))
		}
	}
}

// sortComparator orders by each key in turn; later keys break ties.
func sortComparator(keys []SortKey) query.Comparator[Record] {
	comparators := make([]query.Comparator[Record], len(keys))
	for i, k := range keys {
		c := func(a, b Record) (int, error) {
			n, err := compareValues(fieldValue(a, k.Field), fieldValue(b, k.Field))
			if err != nil {
				return 0, fieldErr(k.Field, err)
			}
			return n, nil
		}
		if k.Desc {
			c = query.Reverse(c)
		}
		comparators[i] = c
	}
	return query.ThenBy(comparators...)
}

// groupKey builds the composite rollup key from fields. An empty field list
// puts every record in one group.
func groupKey(fields []string) query.KeyExtractor[Record] {
	return func(r Record) (query.Key, error) {
		key := make(query.Key, len(fields))
		for i, f := range fields {
			key[i] = normalize(fieldValue(r, f))
		}
		return key, nil
	}
}

func aggregator(specs []AggregateSpec) query.Aggregator[Record] {
	aggs := make([]query.Aggregate[Record], len(specs))
	for i, spec := range specs {
		aggs[i] = aggregateFor(spec)
	}
	return query.Aggregates(aggs...)
}

// aggregateFor maps a spec to a core aggregate. Numeric functions and a
// field-bound count skip members where the field is missing or null.
func aggregateFor(spec AggregateSpec) query.Aggregate[Record] {
	measure := func(r Record) (float64, error) {
		n, err := query.Number(fieldValue(r, spec.Field))
		if err != nil {
			return 0, fieldErr(spec.Field, err)
		}
		return n, nil
	}
	field := func(r Record) any { return fieldValue(r, spec.Field) }

	var agg query.Aggregate[Record]
	switch spec.Func {
	case FuncSum:
		agg = query.Sum(spec.Name, measure)
	case FuncAvg:
		agg = query.Avg(spec.Name, measure)
	case FuncMin:
		agg = query.Min(spec.Name, measure)
	case FuncMax:
		agg = query.Max(spec.Name, measure)
	case FuncCount:
		agg = query.Count[Record](spec.Name)
		if spec.Field == "" {
			return agg
		}
	case FuncFirst:
		return query.First(spec.Name, field)
	case FuncLast:
		return query.Last(spec.Name, field)
	default:
		return query.Aggregate[Record]{Name: spec.Name, Compute: func([]Record) (any, error) {
			return nil, errors.InvalidInput("func", fmt.Sprintf("unknown aggregate func %q", spec.Func))
		}}
	}
	return query.Aggregate[Record]{Name: spec.Name, Compute: func(members []Record) (any, error) {
		present := slices.DeleteFunc(slices.Clone(members), func(r Record) bool { return field(r) == nil })
		return agg.Compute(present)
	}}
}
