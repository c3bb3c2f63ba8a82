package api

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"timeledger/internal/errors"
	"timeledger/internal/logging"
)

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

// handleError maps handler errors to a status and a JSON error body
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := errors.HTTPStatus(err)
	message := errors.GetUserMessage(err)

	var httpErr *echo.HTTPError
	if !errors.IsAppError(err) && stderrors.As(err, &httpErr) {
		status = httpErr.Code
		message = http.StatusText(status)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	} else if errors.ShouldLogError(err) {
		logging.FromContext(c.Request().Context(), s.logger).Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorBody(message))
	}
	if writeErr != nil {
		s.logger.Warn("failed to write error response", zap.Error(writeErr))
	}
}

// badRequest reports a malformed request body
func badRequest(err error) error {
	return errors.NewValidationError("Invalid request body", err)
}
