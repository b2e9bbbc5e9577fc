package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies provider failures.
type Kind string

const (
	KindTimeout         Kind = "timeout"
	KindQuota           Kind = "quota"
	KindTransport       Kind = "transport"
	KindInvalidResponse Kind = "invalid_response"
)

// ProviderError wraps a single adapter call's failure with the model
// that produced it and the underlying cause.
type ProviderError struct {
	Model  string
	Kind   Kind
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Model, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s (status=%d)", e.Model, e.Kind, e.Status)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindForStatus maps an HTTP status code to an error kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindQuota
	case status == http.StatusRequestTimeout:
		return KindTimeout
	default:
		return KindTransport
	}
}

// WrapError normalizes an adapter failure into a ProviderError for the
// given model. Errors that already carry provider metadata pass through
// with the model filled in.
func WrapError(model string, err error) *ProviderError {
	if err == nil {
		return nil
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		if perr.Model == "" {
			perr.Model = model
		}
		return perr
	}

	kind := KindTransport
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	} else {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = KindTimeout
		}
	}

	return &ProviderError{Model: model, Kind: kind, Err: err}
}
