package plan

import (
	"fmt"

	"github.com/kbukum/recq/validation"
)

// Validate checks the plan's struct tags and the rules each step op adds on
// top. Sequencing problems, such as a sort after a rollup, are left to the
// engine so they surface as SEQUENCING_ERROR at run time.
func (p *Plan) Validate() error {
	v := validation.New().Merge("plan", validation.Struct(p))

	for i, s := range p.Steps {
		path := fmt.Sprintf("steps[%d]", i)
		switch s.Op {
		case OpFilter:
			v.Custom(len(s.Where) > 0, path+".where", "is required for filter")
			for j, c := range s.Where {
				validateCondition(v, fmt.Sprintf("%s.where[%d]", path, j), c)
			}
		case OpSort:
			v.Custom(len(s.Sort) > 0, path+".sort", "is required for sort")
		case OpSkip, OpTake, OpTail:
			v.Min(path+".n", s.N, 0)
		case OpSlice:
			v.Min(path+".start", s.Start, 0)
			v.Min(path+".end", s.End, 0)
		case OpRollup:
			v.Custom(len(s.Aggregates) > 0, path+".aggregates", "is required for rollup")
			validateNames(v, path+".aggregates", s.Aggregates)
		}
	}

	out := p.Output
	switch out.Mode {
	case ModeSelect, ModeDiff:
		v.Custom(len(out.Fields) > 0, "output.fields", "is required for "+out.Mode)
	case ModeReduce:
		v.Custom(out.Reduce != nil, "output.reduce", "is required for reduce")
	}
	return v.Err()
}

func validateCondition(v *validation.Validator, path string, c Condition) {
	switch c.Op {
	case CondExists, CondMissing:
	case CondIn, CondNin:
		_, ok := asList(c.Value)
		v.Custom(ok, path+".value", "must be a list for "+c.Op)
	case CondContains, CondPrefix:
		_, ok := c.Value.(string)
		v.Custom(ok, path+".value", "must be a string for "+c.Op)
	default:
		v.Custom(c.Value != nil, path+".value", "is required for "+c.Op)
	}
}

func validateNames(v *validation.Validator, path string, specs []AggregateSpec) {
	seen := make(map[string]bool, len(specs))
	for i, a := range specs {
		if a.Name != "" && seen[a.Name] {
			v.AddError(fmt.Sprintf("%s[%d].name", path, i), fmt.Sprintf("duplicates %q", a.Name))
		}
		seen[a.Name] = true
	}
}
