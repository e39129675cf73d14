package query

import (
	"reflect"
	"slices"

	apperrors "github.com/kbukum/recq/errors"
)

// Stage is an immutable snapshot of a pipeline: the current ordered records,
// the groups of an applied rollup, and the error of a failed operation.
type Stage[T any] struct {
	elemType   string
	records    []T
	groups     []*Group[T]
	aggregated bool
	err        error
}

// Of creates the initial stage over records. The element type tag is the Go
// type name of T. The slice is copied.
func Of[T any](records []T) *Stage[T] {
	return OfType(records, reflect.TypeFor[T]().String())
}

// OfType creates the initial stage over records with an explicit element type
// tag. The tag is advisory and only used in error messages.
func OfType[T any](records []T, elemType string) *Stage[T] {
	return &Stage[T]{elemType: elemType, records: slices.Clone(records)}
}

// ElementType returns the advisory element type tag of the stage.
func (s *Stage[T]) ElementType() string { return s.elemType }

// Err returns the error of the operation that failed this stage, if any.
func (s *Stage[T]) Err() error { return s.err }

// Aggregated reports whether a rollup has been applied.
func (s *Stage[T]) Aggregated() bool { return s.aggregated }

// Len returns the number of records, or the number of groups once aggregated.
func (s *Stage[T]) Len() int {
	if s.aggregated {
		return len(s.groups)
	}
	return len(s.records)
}

// ToList returns a copy of the records of a non-aggregated stage.
func (s *Stage[T]) ToList() ([]T, error) {
	if err := s.accepts("toList"); err != nil {
		return nil, err
	}
	return slices.Clone(s.records), nil
}

// next derives a successor stage holding records.
func (s *Stage[T]) next(records []T) *Stage[T] {
	return &Stage[T]{elemType: s.elemType, records: records}
}

// fail derives a failed successor stage.
func (s *Stage[T]) fail(err error) *Stage[T] {
	return &Stage[T]{elemType: s.elemType, aggregated: s.aggregated, err: err}
}

// accepts returns the carried error, or a sequencing error when a record
// operation is applied after a rollup.
func (s *Stage[T]) accepts(op string) error {
	if s.err != nil {
		return s.err
	}
	if s.aggregated {
		return apperrors.Sequencing(op, "stage of "+s.elemType+" is aggregated, only groups can be read")
	}
	return nil
}

// capabilityErr passes AppErrors raised by a callback through unchanged and
// wraps any other error as a CAPABILITY_ERROR.
func capabilityErr(op string, err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.Capability(op, err)
}
