package plan

import (
	"testing"
	"time"

	"github.com/kbukum/recq/errors"
)

func TestLookup(t *testing.T) {
	r := Record{"name": "Echo", "owner": Record{"team": "north", "lead": nil}, "tags": []any{"a"}}
	tests := []struct {
		field  string
		want   any
		wantOK bool
	}{
		{"name", "Echo", true},
		{"owner.team", "north", true},
		{"owner.lead", nil, true},
		{"owner.missing", nil, false},
		{"name.first", nil, false},
		{"tags.0", nil, false},
		{"absent", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			got, ok := lookup(r, tc.field)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("lookup(%q) = %v, %v; want %v, %v", tc.field, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestCompareValues(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"nil equal", nil, nil, 0},
		{"nil first", nil, 1, -1},
		{"nil last", "a", nil, 1},
		{"int vs float", 2, 2.5, -1},
		{"int64 vs int", int64(3), 3, 0},
		{"strings", "b", "a", 1},
		{"bools", false, true, -1},
		{"bools equal", true, true, 0},
		{"times", now, now.Add(time.Second), -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := compareValues(tc.a, tc.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("compareValues(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestCompareValuesMismatch(t *testing.T) {
	pairs := [][2]any{{1, "1"}, {"a", 1}, {true, 1}, {time.Now(), "x"}, {Record{}, Record{}}}
	for _, p := range pairs {
		_, err := compareValues(p[0], p[1])
		wantCode(t, err, errors.ErrCodeTypeMismatch)
	}
}

func TestEqualValues(t *testing.T) {
	if !equalValues(1, 1.0) || !equalValues(int64(7), uint8(7)) {
		t.Error("numbers of different types should compare by value")
	}
	if equalValues(1, "1") {
		t.Error("number and string should differ")
	}
	if !equalValues([]any{"a"}, []any{"a"}) || !equalValues(nil, nil) {
		t.Error("deep equal values should be equal")
	}
}

func TestNormalize(t *testing.T) {
	if normalize(int64(3)) != 3.0 || normalize(3) != 3.0 {
		t.Error("numbers should normalize to float64")
	}
	if normalize("x") != "x" || normalize(nil) != nil {
		t.Error("non-numbers should pass through")
	}
}

func TestKindName(t *testing.T) {
	tests := map[string]any{
		"null": nil, "number": 3, "string": "s", "bool": true,
		"object": Record{}, "list": []string{"a"}, "time": time.Time{},
	}
	for want, v := range tests {
		if got := kindName(v); got != want {
			t.Errorf("kindName(%v) = %s, want %s", v, got, want)
		}
	}
}
