package query

import (
	stderrors "errors"
	"slices"
	"testing"

	apperrors "github.com/kbukum/recq/errors"
)

func byRevenue(a account) float64 { return a.Revenue }

func TestFilter_Scenario(t *testing.T) {
	input := []account{{Revenue: 5000}, {Revenue: 15000}, {Revenue: 20000}}
	got := mustList(t, Of(input).Filter(Test(func(a account) bool { return a.Revenue > 10000 })))
	if want := []float64{15000, 20000}; !slices.Equal(revenues(got), want) {
		t.Errorf("got %v, want %v", revenues(got), want)
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	input := []int{9, 2, 7, 4, 5, 6, 1}
	got := mustList(t, Of(input).Filter(Test(func(n int) bool { return n%2 == 1 })))
	if want := []int{9, 7, 5, 1}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilter_None(t *testing.T) {
	got := mustList(t, Of([]int{1, 3, 5}).Filter(Test(func(n int) bool { return n%2 == 0 })))
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestNot(t *testing.T) {
	odd := Test(func(n int) bool { return n%2 == 1 })
	got := mustList(t, Of(seq(6)).Filter(Not(odd)))
	if want := []int{0, 2, 4}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilter_CapabilityError(t *testing.T) {
	boom := stderrors.New("predicate failed")
	s := Of(seq(3)).Filter(func(n int) (bool, error) {
		if n == 1 {
			return false, boom
		}
		return true, nil
	})
	_, err := s.ToList()
	wantCode(t, err, apperrors.ErrCodeCapability)
	if !stderrors.Is(err, boom) {
		t.Errorf("expected callback error in chain, got %v", err)
	}
}

func TestFilter_AppErrorPassesThrough(t *testing.T) {
	s := OfType([]any{"x"}, "Account").Filter(func(r any) (bool, error) {
		n, err := As[int](r)
		return n > 0, err
	})
	err := s.Err()
	wantCode(t, err, apperrors.ErrCodeTypeMismatch)
	if apperrors.HasCode(err, apperrors.ErrCodeCapability) {
		t.Error("AppErrors from callbacks should not be re-wrapped")
	}
}

func TestSortBy_Scenario(t *testing.T) {
	input := []account{{Revenue: 15000}, {Revenue: 20000}}
	got := mustList(t, Of(input).SortBy(Ascending(byRevenue)))
	if want := []float64{15000, 20000}; !slices.Equal(revenues(got), want) {
		t.Errorf("got %v, want %v", revenues(got), want)
	}
}

func TestSortBy_Directions(t *testing.T) {
	input := []account{{Revenue: 3}, {Revenue: 1}, {Revenue: 2}}
	asc := mustList(t, Of(input).SortBy(Ascending(byRevenue)))
	if want := []float64{1, 2, 3}; !slices.Equal(revenues(asc), want) {
		t.Errorf("ascending: got %v", revenues(asc))
	}
	desc := mustList(t, Of(input).SortBy(Descending(byRevenue)))
	if want := []float64{3, 2, 1}; !slices.Equal(revenues(desc), want) {
		t.Errorf("descending: got %v", revenues(desc))
	}
}

func TestSortBy_ThenByBreaksTies(t *testing.T) {
	input := []account{
		{Name: "b", Industry: "Tech", Revenue: 1},
		{Name: "a", Industry: "Retail", Revenue: 2},
		{Name: "a", Industry: "Tech", Revenue: 3},
		{Name: "b", Industry: "Retail", Revenue: 4},
	}
	c := ThenBy(
		Ascending(func(a account) string { return a.Name }),
		Ascending(func(a account) string { return a.Industry }),
	)
	got := mustList(t, Of(input).SortBy(c))
	if want := []float64{2, 3, 4, 1}; !slices.Equal(revenues(got), want) {
		t.Errorf("got %v, want %v", revenues(got), want)
	}
}

func TestSortBy_PreservesLength(t *testing.T) {
	input := []int{5, 5, 1, 5, 3, 1}
	got := mustList(t, Of(input).SortBy(Compare(func(a, b int) int { return a - b })))
	if want := []int{1, 1, 3, 5, 5, 5}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortBy_ComparatorError(t *testing.T) {
	s := Of([]int{3, 1, 2}).SortBy(func(a, b int) (int, error) {
		return 0, stderrors.New("cannot compare")
	})
	wantCode(t, s.Err(), apperrors.ErrCodeCapability)
}

func TestWindows_Scenario(t *testing.T) {
	window := Of(seq(10)).Skip(5).Take(4)
	if got := mustList(t, window); !slices.Equal(got, []int{5, 6, 7, 8}) {
		t.Fatalf("skip(5).take(4): got %v", got)
	}
	tail := window.Tail(3)
	if got := mustList(t, tail); !slices.Equal(got, []int{6, 7, 8}) {
		t.Fatalf("tail(3): got %v", got)
	}
	if got := mustList(t, tail.Slice(0, 2)); !slices.Equal(got, []int{6, 7}) {
		t.Fatalf("slice(0,2): got %v", got)
	}
}

func TestWindows_LengthLaws(t *testing.T) {
	for size := 0; size <= 6; size++ {
		for n := 0; n <= 8; n++ {
			s := Of(seq(size))
			if got := s.Take(n).Len(); got != min(n, size) {
				t.Errorf("len(take(%d)) over %d = %d", n, size, got)
			}
			if got := s.Skip(n).Len(); got != max(0, size-n) {
				t.Errorf("len(skip(%d)) over %d = %d", n, size, got)
			}
			if got := s.Tail(n).Len(); got != min(n, size) {
				t.Errorf("len(tail(%d)) over %d = %d", n, size, got)
			}
		}
	}
}

func TestWindows_EdgeCases(t *testing.T) {
	input := seq(5)
	tests := []struct {
		name  string
		stage *Stage[int]
		want  []int
	}{
		{"skip past end", Of(input).Skip(10), []int{}},
		{"skip negative", Of(input).Skip(-2), input},
		{"take past end", Of(input).Take(10), input},
		{"take negative", Of(input).Take(-1), []int{}},
		{"tail past end", Of(input).Tail(9), input},
		{"tail zero", Of(input).Tail(0), []int{}},
		{"slice middle", Of(input).Slice(1, 3), []int{1, 2}},
		{"slice empty range", Of(input).Slice(2, 2), []int{}},
		{"slice inverted", Of(input).Slice(4, 1), []int{}},
		{"slice clamped", Of(input).Slice(-3, 99), input},
		{"slice start past end", Of(input).Slice(7, 9), []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustList(t, tc.stage); !slices.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRecordOperations_RejectedAfterRollup(t *testing.T) {
	rolled := Of(seq(4)).Rollup(Fields(func(n int) any { return n % 2 }), Aggregates(Count[int]("n")))
	tests := []struct {
		name string
		err  func() error
	}{
		{"filter", func() error { return rolled.Filter(Test(func(int) bool { return true })).Err() }},
		{"sortBy", func() error { return rolled.SortBy(Compare(func(a, b int) int { return a - b })).Err() }},
		{"skip", func() error { return rolled.Skip(1).Err() }},
		{"take", func() error { return rolled.Take(1).Err() }},
		{"tail", func() error { return rolled.Tail(1).Err() }},
		{"slice", func() error { return rolled.Slice(0, 1).Err() }},
		{"rollup", func() error {
			return rolled.Rollup(Fields(func(n int) any { return n }), Aggregates(Count[int]("n"))).Err()
		}},
		{"toList", func() error { _, err := rolled.ToList(); return err }},
		{"map", func() error { _, err := Map(rolled, func(n int) (int, error) { return n, nil }); return err }},
		{"reduce", func() error { _, err := Reduce(rolled, 0, func(a, n int) (int, error) { return a, nil }); return err }},
		{"toDiff", func() error { _, err := rolled.ToDiff(Changed(func(n int) int { return n }), nil); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wantCode(t, tc.err(), apperrors.ErrCodeSequencing)
		})
	}
}
