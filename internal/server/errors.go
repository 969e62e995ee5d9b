package server

import (
	"context"
	"errors"
	"net/http"

	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
)

type errorMapping struct {
	status     int
	detail     string
	retryAfter string
}

// classify maps pipeline errors to an HTTP status and a stable detail message.
func (h *Handler) classify(err error) errorMapping {
	msg := func(id string, data map[string]interface{}) string {
		return h.trans.GetMessage(id, 0, data)
	}

	var appErr *domainErrors.AppError
	errors.As(err, &appErr)

	switch {
	case errors.Is(err, domainErrors.ErrInvalidRequest):
		reason := "invalid field"
		if appErr != nil {
			if r, ok := appErr.Context["reason"].(string); ok && r != "" {
				reason = r
			}
			if f, ok := appErr.Context["field"].(string); ok && f != "" {
				reason = f + " " + reason
			}
		}
		return errorMapping{status: http.StatusUnprocessableEntity, detail: msg("detail_invalid_request", map[string]interface{}{"Reason": reason})}
	case errors.Is(err, domainErrors.ErrInvalidReference):
		return errorMapping{status: http.StatusUnprocessableEntity, detail: msg("detail_invalid_reference", nil)}
	case errors.Is(err, domainErrors.ErrRepositoryNotFound):
		return errorMapping{status: http.StatusNotFound, detail: msg("detail_repository_not_found", nil)}
	case errors.Is(err, domainErrors.ErrGitHubRateLimit):
		m := errorMapping{status: http.StatusTooManyRequests, detail: msg("detail_rate_limited", nil)}
		if appErr != nil {
			m.retryAfter, _ = appErr.Context["retry_after"].(string)
		}
		return m
	case errors.Is(err, domainErrors.ErrUpstreamUnavailable), errors.Is(err, context.DeadlineExceeded):
		return errorMapping{status: http.StatusBadGateway, detail: msg("detail_upstream_unavailable", nil)}
	case appErr != nil && appErr.Type == domainErrors.TypeAI,
		errors.Is(err, domainErrors.ErrAPIKeyMissing):
		return errorMapping{status: http.StatusServiceUnavailable, detail: msg("detail_ai_unavailable", nil)}
	default:
		return errorMapping{status: http.StatusInternalServerError, detail: msg("detail_internal", nil)}
	}
}
