package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// DomainKind tags the expected, recoverable application failures so the
// router and the task wrappers can tell them apart from internal defects.
type DomainKind string

const (
	KindBadUsage      DomainKind = "bad_usage"
	KindDuplicate     DomainKind = "duplicate"
	KindUnknownTarget DomainKind = "unknown_target"
	KindNoTeam        DomainKind = "no_team"
	KindMultipleTeams DomainKind = "multiple_teams"
	KindNotAuthorized DomainKind = "not_authorized"
)

// DomainError is an expected application failure whose message is safe to
// show to the invoking user verbatim.
type DomainError struct {
	Kind    DomainKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError with a formatted user-facing message.
func NewDomainError(kind DomainKind, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var derr *DomainError
	if errors.As(err, &derr) {
		return derr, true
	}
	return nil, false
}

// ResponseNotOK means the Slack API answered HTTP 200 but flagged the call
// as failed in the response body. It must never be swallowed: the worker's
// failure routing and the router's catch-all both key off it.
type ResponseNotOK struct {
	Method string
	Reason string
}

func (e *ResponseNotOK) Error() string {
	return fmt.Sprintf("slack api request %s was not successful: %s", e.Method, e.Reason)
}

// NewResponseNotOK wraps an in-body Slack API failure.
func NewResponseNotOK(method, reason string) *ResponseNotOK {
	return &ResponseNotOK{Method: method, Reason: reason}
}

// IsResponseNotOK reports whether err is an in-body Slack API failure.
func IsResponseNotOK(err error) bool {
	var rerr *ResponseNotOK
	return errors.As(err, &rerr)
}
