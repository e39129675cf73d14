package query

import (
	"slices"
	"testing"

	apperrors "github.com/kbukum/recq/errors"
)

func TestOf_ToListIdentity(t *testing.T) {
	tests := []struct {
		name  string
		input []int
	}{
		{"empty", []int{}},
		{"single", []int{7}},
		{"duplicates", []int{3, 1, 3, 2, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustList(t, Of(tc.input))
			if !slices.Equal(got, tc.input) {
				t.Errorf("got %v, want %v", got, tc.input)
			}
		})
	}
}

func TestOf_CopiesInput(t *testing.T) {
	input := []int{1, 2, 3}
	s := Of(input)
	input[0] = 99
	got := mustList(t, s)
	if got[0] != 1 {
		t.Errorf("stage should not alias caller slice, got %v", got)
	}
	got[1] = 42
	if again := mustList(t, s); again[1] != 2 {
		t.Errorf("ToList should return a copy, got %v", again)
	}
}

func TestElementType(t *testing.T) {
	if got := Of([]account{}).ElementType(); got != "query.account" {
		t.Errorf("expected query.account, got %q", got)
	}
	if got := OfType([]any{}, "Account").ElementType(); got != "Account" {
		t.Errorf("expected Account, got %q", got)
	}
	s := OfType([]int{1, 2, 3}, "Opportunity").Filter(Test(func(int) bool { return true }))
	if got := s.ElementType(); got != "Opportunity" {
		t.Errorf("tag should survive chaining, got %q", got)
	}
}

func TestStage_BranchPoint(t *testing.T) {
	base := Of(seq(10))
	evens := base.Filter(Test(func(n int) bool { return n%2 == 0 }))
	firstThree := base.Take(3)
	sorted := base.SortBy(Compare(func(a, b int) int { return b - a }))

	if got := mustList(t, evens); !slices.Equal(got, []int{0, 2, 4, 6, 8}) {
		t.Errorf("evens: got %v", got)
	}
	if got := mustList(t, firstThree); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("take: got %v", got)
	}
	if got := mustList(t, sorted); got[0] != 9 {
		t.Errorf("sort: got %v", got)
	}
	if got := mustList(t, base); !slices.Equal(got, seq(10)) {
		t.Errorf("base stage changed: %v", got)
	}
}

func TestFailedStage_ShortCircuits(t *testing.T) {
	calls := 0
	failing := Of(seq(5)).Filter(func(n int) (bool, error) {
		if n == 2 {
			return false, apperrors.Validation("no twos")
		}
		return true, nil
	})
	later := failing.Filter(func(int) (bool, error) {
		calls++
		return true, nil
	}).Take(1)

	if calls != 0 {
		t.Errorf("callbacks after a failure must not run, ran %d times", calls)
	}
	if later.Err() == nil {
		t.Fatal("expected carried error")
	}
	if _, err := later.ToList(); err == nil {
		t.Error("ToList should return the carried error")
	}
	if _, err := Reduce(later, 0, func(a, n int) (int, error) { return a + n, nil }); err == nil {
		t.Error("Reduce should return the carried error")
	}
	if _, err := later.Groups(); err == nil {
		t.Error("Groups should return the carried error")
	}
}

func TestLen(t *testing.T) {
	s := Of(seq(6))
	if s.Len() != 6 {
		t.Errorf("expected 6, got %d", s.Len())
	}
	rolled := s.Rollup(func(n int) (Key, error) { return Key{n % 2}, nil }, Aggregates(Count[int]("n")))
	if rolled.Len() != 2 {
		t.Errorf("expected 2 groups, got %d", rolled.Len())
	}
	if !rolled.Aggregated() || s.Aggregated() {
		t.Error("only the rolled-up stage should be aggregated")
	}
}
