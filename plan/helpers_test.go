package plan

import (
	"testing"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/logger"
)

func accounts() []Record {
	return []Record{
		{"name": "Acme", "industry": "tech", "revenue": 15000.0, "region": "eu"},
		{"name": "Beta", "industry": "retail", "revenue": 5000.0, "region": "us"},
		{"name": "Core", "industry": "tech", "revenue": 20000.0, "region": "us"},
		{"name": "Dyn", "industry": "finance", "revenue": 8000.0, "region": "eu"},
		{"name": "Echo", "industry": "tech", "revenue": 12000.0, "region": "eu", "owner": Record{"team": "north"}},
	}
}

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r["name"].(string)
	}
	return out
}

func wantCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !errors.HasCode(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func newTestExecutor(opts ...Option) *Executor {
	return NewExecutor(append([]Option{WithLogger(logger.Nop())}, opts...)...)
}
