package http

import (
	"errors"
	"net/http"

	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// failureMessages are the client-facing texts for errors whose details must
// not leak.
type failureMessages struct {
	notFound string
	internal string
}

func writeError(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// fail converts a use case error to its HTTP response.
func (s *Server) fail(ctx echo.Context, err error, messages failureMessages) error {
	var codeErr *order.InvalidDeliveryCodeError

	switch {
	case errors.As(err, &codeErr):
		if codeErr.Missing {
			return writeError(ctx, http.StatusBadRequest, "Delivery code is required to complete delivery")
		}
		return writeError(ctx, http.StatusBadRequest, "Invalid delivery code")
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrAlreadyAssigned):
		return writeError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		message := messages.notFound
		if message == "" {
			message = http.StatusText(http.StatusNotFound)
		}
		return writeError(ctx, http.StatusNotFound, message)
	case errs.IsValidation(err):
		return writeError(ctx, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message := messages.internal
		if message == "" {
			message = http.StatusText(http.StatusInternalServerError)
		}
		return writeError(ctx, http.StatusInternalServerError, message)
	}
}

// ErrorHandler renders errors returned by echo itself (unknown routes,
// parameter binding) in the same shape as the handlers do.
func ErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(code)
		return
	}
	_ = writeError(ctx, code, message)
}
