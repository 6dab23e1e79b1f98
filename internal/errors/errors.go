package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a chempath error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNoResult          ErrorCode = "NO_RESULT"          // 404
	ErrSuperseded        ErrorCode = "SUPERSEDED"         // 409
	ErrInternal          ErrorCode = "INTERNAL"           // 500
	ErrUpstream          ErrorCode = "UPSTREAM"           // 502
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE" // 502
	ErrConnectivity      ErrorCode = "CONNECTIVITY"       // 503
)

// User-facing messages shared by every surface.
const (
	MsgConnectivity = "Unable to connect to the server. Please check your internet connection and try again."
	MsgNoResult     = "No result for this input."
	MsgNoPathways   = "No reaction pathways found between these compounds. Try increasing the maximum steps or using different compounds."
	MsgUpstream     = "An error occurred. Please try again later."
	MsgMalformed    = "The server returned an unusable result."
)

// ChemError represents a structured error with code, status, and details.
type ChemError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error formats as "CODE: message".
func (e *ChemError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy of e carrying msg instead of its message.
func (e *ChemError) WithMessage(msg string) *ChemError {
	cp := *e
	cp.Message = msg
	return &cp
}

// NewInvalidRequest reports a bad argument caught before any request is sent.
func NewInvalidRequest(msg string) *ChemError {
	return &ChemError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNoResult creates a 404 error for a well-formed request the service
// had no answer for.
func NewNoResult(upstreamStatus int) *ChemError {
	return &ChemError{
		Code:    ErrNoResult,
		Status:  404,
		Message: MsgNoResult,
		Details: map[string]any{"upstream_status": upstreamStatus},
	}
}

// NewSuperseded creates a 409 error for a query result that arrived after a
// newer query was issued.
func NewSuperseded(ticket string) *ChemError {
	return &ChemError{
		Code:    ErrSuperseded,
		Status:  409,
		Message: "query superseded by a newer one",
		Details: map[string]any{"ticket": ticket},
	}
}

// NewUpstream creates a 502 error for any other non-2xx status.
func NewUpstream(upstreamStatus int) *ChemError {
	return &ChemError{
		Code:    ErrUpstream,
		Status:  502,
		Message: MsgUpstream,
		Details: map[string]any{"upstream_status": upstreamStatus},
	}
}

// NewMalformedResponse creates a 502 error for a response that violates the
// data model.
func NewMalformedResponse(reason string) *ChemError {
	return &ChemError{
		Code:    ErrMalformedResponse,
		Status:  502,
		Message: MsgMalformed,
		Details: map[string]any{"reason": reason},
	}
}

// NewConnectivity creates a 503 error for requests that never got a response.
func NewConnectivity(err error) *ChemError {
	e := &ChemError{
		Code:    ErrConnectivity,
		Status:  503,
		Message: MsgConnectivity,
	}
	if err != nil {
		e.Details = map[string]any{"cause": err.Error()}
	}
	return e
}

// NewInternal wraps an unexpected failure as a 500.
// The cause is kept in Details for logging; the message stays generic.
func NewInternal(err error) *ChemError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &ChemError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is (or wraps) a ChemError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *ChemError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// As extracts a *ChemError from err's chain.
func As(err error) (*ChemError, bool) {
	var cErr *ChemError
	ok := stderrors.As(err, &cErr)
	return cErr, ok
}
