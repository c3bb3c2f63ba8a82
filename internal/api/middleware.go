package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"timeledger/internal/domain"
	"timeledger/internal/errors"
	"timeledger/internal/logging"
	"timeledger/internal/metrics"
)

const identityKey = "identity"

// observe logs each request and records its duration.
// Handler errors are rendered here so the logged status is the one sent.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		res := c.Response()

		logger := logging.WithRequestID(s.logger, res.Header().Get(echo.HeaderXRequestID))
		c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))

		if err := next(c); err != nil {
			c.Error(err)
		}

		duration := time.Since(start)
		path := c.Path()
		if path == "" {
			path = "unknown"
		}
		metrics.RecordHTTPRequest(req.Method, path, res.Status, duration)

		logger.Info("http request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", res.Status),
			zap.Int64("size", res.Size),
			zap.Duration("latency", duration))
		return nil
	}
}

// authMiddleware resolves the bearer token to an identity
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, errorBody("No token provided"))
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return c.JSON(http.StatusUnauthorized, errorBody("Invalid authorization format"))
		}

		identity, err := s.services.AuthService.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody(errors.GetUserMessage(err)))
		}

		c.Set(identityKey, *identity)
		return next(c)
	}
}

// currentUserID returns the id of the authenticated caller
func currentUserID(c echo.Context) string {
	if identity, ok := c.Get(identityKey).(domain.Identity); ok {
		return identity.UserID
	}
	return ""
}
