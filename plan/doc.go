// Package plan describes record queries as data and runs them on the query
// engine.
//
// A Plan is an ordered list of steps over records (map[string]any) followed
// by an output mode. Plans are loaded from YAML or JSON:
//
//	name: top-tech
//	steps:
//	  - op: filter
//	    where:
//	      - {field: industry, op: eq, value: tech}
//	  - op: sort
//	    sort:
//	      - {field: revenue, desc: true}
//	  - op: take
//	    n: 2
//	output:
//	  mode: select
//	  fields: [name, revenue]
//
// Run it with an Executor:
//
//	p, err := plan.Load("top-tech.yaml")
//	res, err := plan.NewExecutor().Execute(ctx, p, plan.Input{Records: records})
package plan
