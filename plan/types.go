package plan

// Record is one row of input: field name to value.
type Record = map[string]any

// Step operations.
const (
	OpFilter = "filter"
	OpSort   = "sort"
	OpSkip   = "skip"
	OpTake   = "take"
	OpTail   = "tail"
	OpSlice  = "slice"
	OpRollup = "rollup"
)

// Condition operators.
const (
	CondEq       = "eq"
	CondNe       = "ne"
	CondGt       = "gt"
	CondGte      = "gte"
	CondLt       = "lt"
	CondLte      = "lte"
	CondIn       = "in"
	CondNin      = "nin"
	CondContains = "contains"
	CondPrefix   = "prefix"
	CondExists   = "exists"
	CondMissing  = "missing"
)

// Aggregate functions.
const (
	FuncSum   = "sum"
	FuncMin   = "min"
	FuncMax   = "max"
	FuncAvg   = "avg"
	FuncCount = "count"
	FuncFirst = "first"
	FuncLast  = "last"
)

// Output modes.
const (
	ModeList   = "list"
	ModeSelect = "select"
	ModeReduce = "reduce"
	ModeDiff   = "diff"
)

// Plan is a named query: steps applied in order, then an output.
type Plan struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description" mapstructure:"description"`
	Steps       []Step `json:"steps" yaml:"steps" mapstructure:"steps" validate:"dive"`
	Output      Output `json:"output" yaml:"output" mapstructure:"output"`
}

// Step is one query operation. Only the fields its Op uses are read.
type Step struct {
	Op         string          `json:"op" yaml:"op" mapstructure:"op" validate:"required,oneof=filter sort skip take tail slice rollup"`
	Where      []Condition     `json:"where,omitempty" yaml:"where" mapstructure:"where" validate:"dive"`
	Sort       []SortKey       `json:"sort,omitempty" yaml:"sort" mapstructure:"sort" validate:"dive"`
	N          int             `json:"n,omitempty" yaml:"n" mapstructure:"n"`
	Start      int             `json:"start,omitempty" yaml:"start" mapstructure:"start"`
	End        int             `json:"end,omitempty" yaml:"end" mapstructure:"end"`
	GroupBy    []string        `json:"group_by,omitempty" yaml:"group_by" mapstructure:"group_by" validate:"dive,required"`
	Aggregates []AggregateSpec `json:"aggregates,omitempty" yaml:"aggregates" mapstructure:"aggregates" validate:"dive"`
}

// Condition tests a single field. Field may be a dotted path into nested
// objects.
type Condition struct {
	Field string `json:"field" yaml:"field" mapstructure:"field" validate:"required"`
	Op    string `json:"op" yaml:"op" mapstructure:"op" validate:"required,oneof=eq ne gt gte lt lte in nin contains prefix exists missing"`
	Value any    `json:"value,omitempty" yaml:"value" mapstructure:"value"`
}

// SortKey orders by one field. Records missing the field sort first.
type SortKey struct {
	Field string `json:"field" yaml:"field" mapstructure:"field" validate:"required"`
	Desc  bool   `json:"desc,omitempty" yaml:"desc" mapstructure:"desc"`
}

// AggregateSpec computes one named value over a set of records.
type AggregateSpec struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Func  string `json:"func" yaml:"func" mapstructure:"func" validate:"required,oneof=sum min max avg count first last"`
	Field string `json:"field,omitempty" yaml:"field" mapstructure:"field" validate:"required_unless=Func count"`
}

// Output selects the terminal operation. An empty Mode means list.
type Output struct {
	Mode   string         `json:"mode,omitempty" yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=list select reduce diff"`
	Fields []string       `json:"fields,omitempty" yaml:"fields" mapstructure:"fields" validate:"dive,required"`
	Reduce *AggregateSpec `json:"reduce,omitempty" yaml:"reduce" mapstructure:"reduce" validate:"omitempty"`
}

// Group is one rollup group as returned by a list output.
type Group struct {
	Key    Record `json:"key"`
	Values Record `json:"values"`
	Count  int    `json:"count"`
}
