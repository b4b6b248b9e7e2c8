package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Error kinds. Every error returned by the engine wraps exactly one of them.
var (
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrNotFound          = fmt.Errorf("not found")
	ErrConflict          = fmt.Errorf("conflict")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrDependencyFailure = fmt.Errorf("dependency failure")
)

var (
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidArgument)
	ErrInvalidCategory = fmt.Errorf("%w: unknown drink category", ErrInvalidArgument)
	ErrInvalidLatency  = fmt.Errorf("%w: reaction latency must be a positive integer", ErrInvalidArgument)
	ErrInvalidTiers    = fmt.Errorf("%w: tier boundaries must be strictly increasing", ErrInvalidArgument)
	ErrInvalidRequest  = fmt.Errorf("%w: malformed request", ErrInvalidArgument)

	ErrRoomNotFound = fmt.Errorf("%w: room", ErrNotFound)
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	ErrRoomEnded           = fmt.Errorf("%w: room already ended", ErrConflict)
	ErrUserAlreadyFinished = fmt.Errorf("%w: user already finished", ErrConflict)
	ErrUserFinished        = fmt.Errorf("%w: user is finished, events are closed", ErrConflict)

	ErrRoomCodeExhausted = fmt.Errorf("%w: room code allocation exceeded retry bound", ErrResourceExhausted)
	ErrQueueFull         = fmt.Errorf("%w: command queue is full", ErrResourceExhausted)

	ErrGeneratorNotConfigured = fmt.Errorf("%w: text generator not configured", ErrDependencyFailure)
	ErrMalformedOutput        = fmt.Errorf("%w: malformed generated text", ErrDependencyFailure)

	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)

var kinds = []error{
	ErrInvalidArgument,
	ErrNotFound,
	ErrConflict,
	ErrResourceExhausted,
	ErrDependencyFailure,
}

// Kind returns the kind sentinel wrapped by err, or nil for unclassified errors.
func Kind(err error) error {
	for _, k := range kinds {
		if stderrors.Is(err, k) {
			return k
		}
	}
	return nil
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch Kind(err) {
	case ErrInvalidArgument:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrResourceExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode maps an error to its gRPC status code.
func GRPCCode(err error) codes.Code {
	switch Kind(err) {
	case ErrInvalidArgument:
		return codes.InvalidArgument
	case ErrNotFound:
		return codes.NotFound
	case ErrConflict:
		return codes.FailedPrecondition
	case ErrResourceExhausted:
		return codes.ResourceExhausted
	case ErrDependencyFailure:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
