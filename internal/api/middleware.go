package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"kanban/internal/service"
)

const (
	tokenCookie = "token"
	claimsKey   = "claims"
)

// session rejects requests without a valid token cookie.
func (s *Server) session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(tokenCookie)
		if err != nil || cookie.Value == "" {
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		}
		claims, err := s.auth.ParseToken(cookie.Value)
		if err != nil {
			s.entry(c, "api.session").WithError(err).Debug("rejected token")
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

func currentUser(c echo.Context) uint {
	claims, ok := c.Get(claimsKey).(*service.Claims)
	if !ok {
		return 0
	}
	return claims.Idx
}

func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			if v.Status >= http.StatusInternalServerError {
				entry.Error("request")
			} else {
				entry.Info("request")
			}
			return nil
		},
	})
}

func httpErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, message := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		} else {
			log.WithError(err).Error("unhandled error")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = fail(c, code, message)
	}
}

// entry is the handler logger carrying the operation and request id.
func (s *Server) entry(c echo.Context, op string) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{
		"operation":  op,
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
