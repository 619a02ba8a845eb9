package protocol

import (
	"errors"
	"fmt"
)

// Error kinds recovered at the protocol-handler boundary and reported as
// {ok:false, error:...}. None of them terminate the session.
const (
	CodeNotInitialized   = "E_NOT_INITIALIZED"
	CodeInvalidConfig    = "E_INVALID_CONFIG"
	CodeInvalidArgument  = "E_INVALID_ARGUMENT"
	CodeMalformedRequest = "E_MALFORMED_REQUEST"
	CodeInternal         = "E_INTERNAL"
)

// ErrNotInitialized is returned by engine operations invoked before init or
// after stop.
var ErrNotInitialized = &OpError{Code: CodeNotInitialized, Msg: "engine not initialized"}

// OpError carries a protocol error kind plus the human-readable message that
// goes on the wire.
type OpError struct {
	Code string
	Msg  string
}

func (e *OpError) Error() string { return e.Msg }

func Errorf(code, format string, args ...any) *OpError {
	return &OpError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error kind, defaulting to E_INTERNAL for faults that
// were not classified at an operation boundary.
func CodeOf(err error) string {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return CodeInternal
}
