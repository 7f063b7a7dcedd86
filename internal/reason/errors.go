package reason

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind distinguishes the failure modes the orchestrator handles
// explicitly. Auth and quota failures are logged distinctly so operators can
// tell "service broken" from "service exhausted"; only network failures are
// worth a retry.
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindQuota       ErrorKind = "quota"
	KindNetwork     ErrorKind = "network"
	KindBadResponse ErrorKind = "bad_response"
)

// ProviderError wraps a provider failure with its classification.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Kind classifies an error returned by a provider. Errors that are not
// ProviderError default to network, the retryable kind.
func Kind(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindNetwork
}

// Retryable reports whether the failure is worth the single bounded retry.
// Auth and quota failures will not heal within a backoff window, and a
// malformed response would just be malformed again.
func Retryable(err error) bool {
	return Kind(err) == KindNetwork
}

func classifyTransport(provider string, err error) *ProviderError {
	kind := KindNetwork
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindNetwork
	case errors.As(err, &netErr):
		kind = KindNetwork
	}
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

func classifyStatus(provider string, statusCode int, err error) *ProviderError {
	kind := KindBadResponse
	switch statusCode {
	case 401, 403:
		kind = KindAuth
	case 402, 429:
		kind = KindQuota
	}
	if statusCode >= 500 {
		kind = KindNetwork
	}
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
