package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/kbukum/recq/errors"
)

// Exit codes returned by the recq binary.
const (
	ExitSuccess = 0
	// ExitFailure covers query failures: type mismatches, capability and
	// sequencing errors, source errors.
	ExitFailure = 1
	// ExitUsage covers invalid input: bad flags, plans or missing files.
	ExitUsage = 2
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return ExitUsage
	}
	switch appErr.Code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeNotFound, errors.ErrCodePayloadTooLarge:
		return ExitUsage
	default:
		return ExitFailure
	}
}

func writeJSON(w io.Writer, v any, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
