package dump

import (
	"fmt"

	"github.com/pkg/errors"
)

// MalformedDumpError is returned when a dump cannot be parsed.
type MalformedDumpError struct {
	Offset int64
	Reason string
	Err    error
}

func (e *MalformedDumpError) Error() string {
	msg := fmt.Sprintf("malformed frame dump at offset %d: %s", e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDumpError) Unwrap() error { return e.Err }

// IsMalformed reports whether err is or wraps a MalformedDumpError.
func IsMalformed(err error) bool {
	var m *MalformedDumpError
	return errors.As(err, &m)
}

func malformed(offset int64, err error, format string, args ...interface{}) error {
	return &MalformedDumpError{
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
