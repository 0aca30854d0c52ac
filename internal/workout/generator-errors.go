package workout

import (
	"context"
	"net"
	"net/http"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/openai/openai-go/v3"
)

// FailureKind categorises generation failures for logging. Callers always see the same generic error.
type FailureKind string

const (
	FailureRateLimit      FailureKind = "rate_limit"
	FailureQuotaExceeded  FailureKind = "quota_exceeded"
	FailureInvalidRequest FailureKind = "invalid_request"
	FailureAuthentication FailureKind = "authentication"
	FailurePermission     FailureKind = "permission"
	FailureNotFound       FailureKind = "not_found"
	FailureServer         FailureKind = "server_error"
	FailureTimeout        FailureKind = "timeout"
	FailureCanceled       FailureKind = "canceled"
	FailureNetwork        FailureKind = "network"
	FailureInvalidOutput  FailureKind = "invalid_output"
	FailureUnknown        FailureKind = "unknown"
)

// ClassifyFailure inspects a generation error.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return ""
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, apiErr.Code)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.Is(err, errPlanShape):
		return FailureInvalidOutput
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}

	return FailureUnknown
}

func classifyStatus(status int, code string) FailureKind {
	switch {
	case status == http.StatusTooManyRequests && code == "insufficient_quota":
		return FailureQuotaExceeded
	case status == http.StatusTooManyRequests:
		return FailureRateLimit
	case status == http.StatusUnauthorized:
		return FailureAuthentication
	case status == http.StatusForbidden:
		return FailurePermission
	case status == http.StatusNotFound:
		return FailureNotFound
	case status == http.StatusRequestTimeout:
		return FailureTimeout
	case status >= http.StatusInternalServerError:
		return FailureServer
	case status >= http.StatusBadRequest:
		return FailureInvalidRequest
	default:
		return FailureUnknown
	}
}
