package query

import (
	"encoding/binary"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/zeebo/xxh3"

	apperrors "github.com/kbukum/recq/errors"
)

// Key is the composite grouping key of a record. All keys produced during one
// rollup must have the same number of components.
type Key []any

// Group is one output unit of a rollup: the shared key, the member records in
// their original order, and the summary computed by the aggregator.
type Group[T any] struct {
	keys    Key
	members []T
	summary map[string]any
}

// Keys returns a copy of the group key.
func (g *Group[T]) Keys() Key { return slices.Clone(g.keys) }

// KeyAt returns the key component at index i, or nil when i is out of range.
func (g *Group[T]) KeyAt(i int) any {
	if i < 0 || i >= len(g.keys) {
		return nil
	}
	return g.keys[i]
}

// Value returns the summary value called name, or nil when it is absent.
func (g *Group[T]) Value(name string) any { return g.summary[name] }

// Lookup returns the summary value called name and whether it is present.
func (g *Group[T]) Lookup(name string) (any, bool) {
	v, ok := g.summary[name]
	return v, ok
}

// Summary returns a copy of the summary mapping.
func (g *Group[T]) Summary() map[string]any { return maps.Clone(g.summary) }

// Members returns a copy of the records that produced the key.
func (g *Group[T]) Members() []T { return slices.Clone(g.members) }

// Len returns the number of member records.
func (g *Group[T]) Len() int { return len(g.members) }

// Rollup groups records by the key returned from keyOf. Groups appear in the
// order in which their key first occurs; members keep their original order.
// agg is then called once per group, in group order, to compute its summary.
// The resulting stage only accepts Groups.
func (s *Stage[T]) Rollup(keyOf KeyExtractor[T], agg Aggregator[T]) *Stage[T] {
	if err := s.accepts("rollup"); err != nil {
		return s.fail(err)
	}
	idx := newGroupIndex[T]()
	arity := -1
	for i, r := range s.records {
		key, err := keyOf(r)
		if err != nil {
			return s.fail(capabilityErr("rollup", err))
		}
		if arity < 0 {
			arity = len(key)
		} else if len(key) != arity {
			return s.fail(apperrors.ArityMismatch(arity, len(key), i))
		}
		idx.add(key, r)
	}
	for _, g := range idx.groups {
		summary, err := agg(slices.Clone(g.keys), slices.Clone(g.members))
		if err != nil {
			return s.fail(capabilityErr("rollup", err))
		}
		g.summary = maps.Clone(summary)
	}
	return &Stage[T]{elemType: s.elemType, groups: idx.groups, aggregated: true}
}

// Groups returns the aggregate groups of a rolled-up stage in first-occurrence
// order.
func (s *Stage[T]) Groups() ([]*Group[T], error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.aggregated {
		return nil, apperrors.Sequencing("groups", "no rollup has been applied")
	}
	return slices.Clone(s.groups), nil
}

// groupIndex maps composite keys to groups while keeping groups in
// first-occurrence order. Keys are hashed into buckets; a bucket lists the
// positions of the groups whose key shares the hash.
type groupIndex[T any] struct {
	groups  []*Group[T]
	buckets map[uint64][]int
	buf     []byte
}

func newGroupIndex[T any]() *groupIndex[T] {
	return &groupIndex[T]{buckets: make(map[uint64][]int)}
}

func (ix *groupIndex[T]) add(key Key, r T) {
	h := ix.hash(key)
	for _, pos := range ix.buckets[h] {
		if g := ix.groups[pos]; keysEqual(g.keys, key) {
			g.members = append(g.members, r)
			return
		}
	}
	ix.buckets[h] = append(ix.buckets[h], len(ix.groups))
	ix.groups = append(ix.groups, &Group[T]{keys: slices.Clone(key), members: []T{r}})
}

// hash encodes every component with its dynamic type so that equal keys
// always share a hash. Collisions are resolved by keysEqual.
func (ix *groupIndex[T]) hash(key Key) uint64 {
	ix.buf = ix.buf[:0]
	for _, c := range key {
		ix.buf = appendComponent(ix.buf, c)
		ix.buf = append(ix.buf, 0x1f)
	}
	return xxh3.Hash(ix.buf)
}

// appendComponent encodes scalar kinds by value. Composite, pointer and other
// kinds contribute only their type and are told apart by componentEqual.
func appendComponent(buf []byte, c any) []byte {
	if c == nil {
		return append(buf, "nil"...)
	}
	v := reflect.ValueOf(c)
	buf = append(buf, v.Type().String()...)
	buf = append(buf, 0)
	switch v.Kind() {
	case reflect.Bool:
		return strconv.AppendBool(buf, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(buf, v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(buf, v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == 0 {
			f = 0 // -0 == 0
		}
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	case reflect.String:
		return append(buf, v.String()...)
	default:
		return buf
	}
}

func keysEqual(a, b Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !componentEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// componentEqual uses == for comparable dynamic types and deep equality for
// the rest. Values of different dynamic types are never equal.
func componentEqual(a, b any) (equal bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	// Comparable types may still hold incomparable values behind interfaces.
	defer func() {
		if recover() != nil {
			equal = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
