package query

import (
	"testing"

	apperrors "github.com/kbukum/recq/errors"
)

type account struct {
	Name     string
	Industry string
	Revenue  float64
}

func revenues(accounts []account) []float64 {
	out := make([]float64, len(accounts))
	for i, a := range accounts {
		out[i] = a.Revenue
	}
	return out
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func mustList[T any](t *testing.T, s *Stage[T]) []T {
	t.Helper()
	got, err := s.ToList()
	if err != nil {
		t.Fatalf("ToList: %v", err)
	}
	return got
}

func wantCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}
