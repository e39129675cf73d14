package source

import "context"

// Snapshot pairs the records of a collection before and after a change. Diff
// output compares After against Before position by position.
type Snapshot struct {
	Before []map[string]any `json:"before"`
	After  []map[string]any `json:"after"`
}

// LoadSnapshot reads both sides of a snapshot from record files.
func LoadSnapshot(ctx context.Context, beforePath, afterPath string) (*Snapshot, error) {
	before, err := LoadFile(ctx, beforePath)
	if err != nil {
		return nil, err
	}
	after, err := LoadFile(ctx, afterPath)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Before: before, After: after}, nil
}
