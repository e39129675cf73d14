package plan

import (
	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/query"
)

// outcome is what an output mode produced.
type outcome struct {
	records []Record
	groups  []Group
	value   any
	count   int
}

// collect runs the plan's terminal operation. groupBy names the key
// components of the last rollup, if any.
func collect(s *query.Stage[Record], out Output, groupBy []string, previous []Record) (outcome, error) {
	switch out.Mode {
	case "", ModeList:
		if s.Aggregated() {
			return listGroups(s, groupBy)
		}
		records, err := s.ToList()
		return outcome{records: records, count: len(records)}, err
	case ModeSelect:
		records, err := query.Map(s, project(out.Fields))
		return outcome{records: records, count: len(records)}, err
	case ModeReduce:
		v, err := reduce(s, *out.Reduce)
		return outcome{value: v, count: 1}, err
	case ModeDiff:
		if previous == nil {
			return outcome{}, errors.InvalidInput("previous", "diff output requires a previous snapshot")
		}
		records, err := s.ToDiff(changedFields(out.Fields), previous)
		return outcome{records: records, count: len(records)}, err
	default:
		return outcome{}, errors.InvalidInput("output.mode", "unknown output mode "+out.Mode)
	}
}

func listGroups(s *query.Stage[Record], groupBy []string) (outcome, error) {
	groups, err := s.Groups()
	if err != nil {
		return outcome{}, err
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		key := make(Record, len(groupBy))
		for j, f := range groupBy {
			key[f] = g.KeyAt(j)
		}
		out[i] = Group{Key: key, Values: g.Summary(), Count: g.Len()}
	}
	return outcome{groups: out, count: len(out)}, nil
}

// project copies the named fields into a new flat record. Dotted paths keep
// their full name as the output key; missing fields are omitted.
func project(fields []string) query.Mapper[Record, Record] {
	return func(r Record) (Record, error) {
		out := make(Record, len(fields))
		for _, f := range fields {
			if v, ok := lookup(r, f); ok {
				out[f] = v
			}
		}
		return out, nil
	}
}

// changedFields reports a record as changed when any of fields differs from
// the previous record at the same position.
func changedFields(fields []string) query.Differ[Record] {
	return func(current, previous Record) (bool, error) {
		for _, f := range fields {
			if !equalValues(fieldValue(current, f), fieldValue(previous, f)) {
				return true, nil
			}
		}
		return false, nil
	}
}

// fold accumulates one aggregate function over a sequence.
type fold struct {
	count int
	sum   float64
	best  any
	first any
	last  any
	seen  bool
}

// reduce folds the whole sequence into a single value. Like rollup
// aggregates, numeric functions skip missing and null fields.
func reduce(s *query.Stage[Record], spec AggregateSpec) (any, error) {
	acc, err := query.Reduce(s, fold{}, func(acc fold, r Record) (fold, error) {
		if spec.Func == FuncCount && spec.Field == "" {
			acc.count++
			return acc, nil
		}
		v := fieldValue(r, spec.Field)
		if !acc.seen {
			acc.first, acc.seen = v, true
		}
		acc.last = v
		if v == nil {
			return acc, nil
		}
		acc.count++
		switch spec.Func {
		case FuncSum, FuncAvg:
			n, err := query.Number(v)
			if err != nil {
				return acc, fieldErr(spec.Field, err)
			}
			acc.sum += n
		case FuncMin, FuncMax:
			n, err := query.Number(v)
			if err != nil {
				return acc, fieldErr(spec.Field, err)
			}
			if acc.best == nil ||
				(spec.Func == FuncMin && n < acc.best.(float64)) ||
				(spec.Func == FuncMax && n > acc.best.(float64)) {
				acc.best = n
			}
		}
		return acc, nil
	})
	if err != nil {
		return nil, err
	}

	switch spec.Func {
	case FuncCount:
		return acc.count, nil
	case FuncSum:
		return acc.sum, nil
	case FuncAvg:
		if acc.count == 0 {
			return nil, nil
		}
		return acc.sum / float64(acc.count), nil
	case FuncMin, FuncMax:
		return acc.best, nil
	case FuncFirst:
		return acc.first, nil
	case FuncLast:
		return acc.last, nil
	default:
		return nil, errors.InvalidInput("func", "unknown aggregate func "+spec.Func)
	}
}
