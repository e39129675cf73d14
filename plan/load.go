package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/kbukum/recq/errors"
)

// Load reads and validates a plan file. The format follows the extension:
// .yaml, .yml or .json.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("plan", path)
		}
		return nil, errors.InvalidInput("plan", err.Error()).WithCause(err)
	}
	p, err := decode(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes and validates a plan document held in memory. format is
// "yaml" or "json".
func Parse(data []byte, format string) (*Plan, error) {
	p, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// decode keeps condition values exactly as written, including the case of
// object keys.
func decode(data []byte, format string) (*Plan, error) {
	var p Plan
	var err error
	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &p)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &p)
	default:
		return nil, errors.InvalidInput("format", fmt.Sprintf("unsupported plan format %q", format))
	}
	if err != nil {
		return nil, errors.InvalidInput("plan", err.Error()).WithCause(err)
	}
	return &p, nil
}
