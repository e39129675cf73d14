package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/observability"
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 16 << 20

// ReadJSON decodes a JSON array of objects.
func ReadJSON(r io.Reader) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.InvalidInput("records", "expected a JSON array of objects: "+err.Error()).WithCause(err)
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, nil
}

// ReadNDJSON decodes one JSON object per line. Blank lines are skipped.
func ReadNDJSON(r io.Reader) ([]map[string]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	records := []map[string]any{}
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, errors.InvalidInput("records", fmt.Sprintf("line %d: %v", line, err)).
				WithCause(err).WithDetail("line", line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.SourceError("ndjson", err)
	}
	return records, nil
}

// LoadFile reads records from path. The extension picks the format: .json
// for an array; .ndjson or .jsonl for one object per line.
func LoadFile(ctx context.Context, path string) ([]map[string]any, error) {
	_, span := observability.StartSpan(ctx, observability.SpanSourceLoad)
	defer span.End()
	span.SetAttributes(attribute.String(observability.AttrSource, path))

	var read func(io.Reader) ([]map[string]any, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		read = ReadJSON
	case ".ndjson", ".jsonl":
		read = ReadNDJSON
	default:
		return nil, errors.InvalidInput("path", fmt.Sprintf("unsupported record file extension %q", ext))
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("record file", path)
		}
		return nil, errors.SourceError(path, err)
	}
	defer f.Close()

	records, err := read(f)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(observability.AttrRecordsOut, len(records)))
	return records, nil
}
