package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/five82/commons/internal/forum"
)

// ErrInvalidQuery is wrapped when a State cannot be sent to the backend.
var ErrInvalidQuery = errors.New("invalid query")

// FailureKind classifies a discovery error.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransport
	FailureBackend
	FailureMalformed
	FailureInvalidQuery
	FailureCanceled
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureBackend:
		return "backend"
	case FailureMalformed:
		return "malformed"
	case FailureInvalidQuery:
		return "invalid_query"
	case FailureCanceled:
		return "canceled"
	default:
		return "none"
	}
}

// Failure is the single "discovery failed" signal shown to the user.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Classify maps an error from Fetch or an Outcome to a Failure.
//
// Superseded requests never reach the store, so FailureCanceled only shows up
// when the caller's own context ends, as on shutdown.
func Classify(err error) Failure {
	if err == nil {
		return Failure{}
	}

	var apiErr *forum.APIError
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return Failure{
			Kind:    FailureInvalidQuery,
			Message: fmt.Sprintf("Search keyword is too long (max %d characters).", forum.MaxKeywordLength),
		}
	case errors.Is(err, context.Canceled):
		return Failure{Kind: FailureCanceled, Message: "Request cancelled."}
	case errors.As(err, &apiErr):
		msg := apiErr.Message()
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		return Failure{
			Kind:    FailureBackend,
			Message: fmt.Sprintf("Forum returned %d: %s", apiErr.Status, msg),
		}
	case errors.Is(err, forum.ErrMalformed):
		return Failure{Kind: FailureMalformed, Message: "Forum sent a response commons could not read."}
	default:
		return Failure{Kind: FailureTransport, Message: "Could not reach the forum: " + rootCause(err).Error()}
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
