package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

// Handle logs the error with a message and reports it to Sentry when a hub is
// configured. The error is returned unchanged.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	// Extract goerr values for structured logging
	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	report(ctx, err)
	return err
}

// StatusCode maps an error onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrUsage),
		errors.Is(err, model.ErrSchema),
		errors.Is(err, model.ErrDataQuality):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// HandleHTTP logs the error and writes a JSON error response. Only 5xx errors
// are reported to Sentry; client errors are logged at warn level.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	status := StatusCode(err)
	logger := logging.From(ctx)

	var ge *goerr.Error
	attrs := []any{"status", status, "error", err.Error()}
	if errors.As(err, &ge) {
		attrs = append(attrs, "values", ge.Values())
	}

	if status >= http.StatusInternalServerError {
		if ge != nil {
			attrs = append(attrs, "stack", ge.Stacks())
		}
		logger.Error("HTTP error", attrs...)
		report(ctx, err)
	} else {
		logger.Warn("HTTP client error", attrs...)
	}

	writeJSONError(w, status, err)
}

func report(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		var ge *goerr.Error
		if errors.As(err, &ge) {
			scope.SetContext("goerr", sentry.Context(ge.Values()))
		}
		hub.CaptureException(err)
	})
}
