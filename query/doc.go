// Package query provides an eager, chainable query engine over in-memory
// record sequences.
//
// A pipeline starts from Of (or OfType) and is extended by chain operations
// that each return a new immutable *Stage. No stage is ever modified after it
// is returned, so a stage can serve as the branch point of several chains.
// Every operation runs to completion when it is called.
//
// # Operations
//
// Chain (return a new stage):
//
//   - Filter: keep records matching a predicate, in original order
//   - SortBy: order records with a comparator (not stable)
//   - Skip, Take, Tail, Slice: positional windows, bounds are clamped
//   - Rollup: group by a composite key and compute a summary per group
//
// Terminal (materialize a result):
//
//   - ToList: the records of a stage
//   - Groups: the aggregate groups of a rolled-up stage
//   - Map: transform every record into a result type
//   - Reduce: fold records left to right
//   - ToDiff: records that differ position-wise from another sequence
//
// # Errors
//
// A failing operation yields a stage that carries the error. Chain calls on
// it are no-ops and every terminal returns the error. Once a stage has been
// rolled up only Groups is accepted; record operations fail with a
// SEQUENCING_ERROR.
//
// # Usage
//
//	big := query.Of(accounts).
//	    Filter(query.Test(func(a Account) bool { return a.Revenue > 10000 })).
//	    SortBy(query.Ascending(func(a Account) float64 { return a.Revenue }))
//	list, err := big.ToList()
//
//	groups, err := query.Of(accounts).
//	    Rollup(query.Fields(func(a Account) any { return a.Industry }),
//	        query.Aggregates(
//	            query.Sum("sum", revenue),
//	            query.Avg("avg", revenue),
//	        )).
//	    Groups()
package query
