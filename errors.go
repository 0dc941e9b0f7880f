package routecore

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies the failures named in the routing core's error model.
// Configuration-time kinds (InvalidPattern, DuplicateRoute,
// ParameterNameConflict) are returned synchronously from Add/Attach. Runtime
// kinds (InvalidPath, InvalidHeader, BodyAlreadyConsumed, HandlerError) are
// converted to responses by the outermost error-handling middleware.
type ErrorKind uint8

const (
	KindInvalidPath ErrorKind = iota
	KindInvalidHeader
	KindInvalidPattern
	KindDuplicateRoute
	KindParameterNameConflict
	KindBodyAlreadyConsumed
	KindHandlerError
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidPath:
		return "InvalidPath"
	case KindInvalidHeader:
		return "InvalidHeader"
	case KindInvalidPattern:
		return "InvalidPattern"
	case KindDuplicateRoute:
		return "DuplicateRoute"
	case KindParameterNameConflict:
		return "ParameterNameConflict"
	case KindBodyAlreadyConsumed:
		return "BodyAlreadyConsumed"
	case KindHandlerError:
		return "HandlerError"
	default:
		return "Unknown"
	}
}

// Error is the routing core's own error type, carrying a Kind that callers
// can branch on with errors.As and a StatusCode for kinds the routing
// middleware is responsible for converting to a response.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("routecore: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("routecore: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target has the same Kind, so callers can write
// errors.Is(err, &Error{Kind: KindDuplicateRoute}) without matching Message.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// StatusCode reports the HTTP status the routing middleware should emit for
// runtime error kinds. Configuration-time kinds have no natural HTTP status
// since they never reach a handler; StatusCode returns 500 for those as a
// conservative default (an adapter should never actually observe them).
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindInvalidPath, KindInvalidHeader:
		return http.StatusBadRequest
	case KindHandlerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// StatusCoder is implemented by errors that know their own HTTP status.
// Handler code can return *Error or any custom error type implementing this
// interface, and ResolveStatus, which App.serve uses to answer a handler
// error, will honor it.
type StatusCoder interface {
	StatusCode() int
}

// ResolveStatus extracts the HTTP status an error should produce: the
// error's own StatusCode() if it implements StatusCoder, 500 otherwise.
// Grounded on the teacher's httperror.go ResolveResponseStatus/StatusCode
// helpers.
func ResolveStatus(err error) int {
	var coder StatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode()
	}
	return http.StatusInternalServerError
}

func errInvalidPath(msg string, cause error) error {
	return &Error{Kind: KindInvalidPath, Message: msg, Err: cause}
}

func errInvalidPattern(msg string) error {
	return &Error{Kind: KindInvalidPattern, Message: msg}
}

func errDuplicateRoute(msg string) error {
	return &Error{Kind: KindDuplicateRoute, Message: msg}
}

func errParameterNameConflict(msg string) error {
	return &Error{Kind: KindParameterNameConflict, Message: msg}
}

// errInvalidArgument reports a programming-time construction error (e.g. a
// response status below 100) that doesn't fit any of the routing core's
// named error kinds from section 7; it carries no HTTP status of its own
// because a caller should never let it reach the error-handling middleware.
func errInvalidArgument(msg string) error {
	return errors.New("routecore: " + msg)
}

// ErrBodyAlreadyConsumed is returned by Body.Read on any call after the
// first.
var ErrBodyAlreadyConsumed = &Error{Kind: KindBodyAlreadyConsumed, Message: "body already consumed"}

// HandlerError wraps an arbitrary handler panic/error as a routing-core
// HandlerError, surfaced as 500 with a fixed body; the original error is
// preserved for logging via Unwrap but never reaches the client.
func HandlerError(cause error) error {
	return &Error{Kind: KindHandlerError, Message: "handler error", Err: cause}
}
