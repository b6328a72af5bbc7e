package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"team-calendar-api/core/constants"
	"team-calendar-api/core/controller"
	"team-calendar-api/core/entity"
	"team-calendar-api/core/errors"
	"team-calendar-api/core/logger"
	"team-calendar-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// PrincipalResolver loads the caller behind a validated token.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (*entity.AuthUser, *errors.AppError)
}

type Middleware struct {
	jwtSecret string
	resolver  PrincipalResolver
}

func NewMiddleware(jwtSecret string, resolver PrincipalResolver) *Middleware {
	return &Middleware{jwtSecret: jwtSecret, resolver: resolver}
}

// AuthMiddleware validates the bearer access token and stores the caller
// under constants.ContextCurrentUser.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "missing or malformed authorization header")
			}

			claims, err := utils.ValidateAndParseToken(m.jwtSecret, token)
			if err != nil {
				if stderrors.Is(err, utils.ErrExpiredToken) {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrTokenExpired, "token has expired")
				}
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "invalid token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "access token required")
			}

			user, appErr := m.resolver.ResolvePrincipal(c.Request().Context(), claims.UserID)
			if appErr != nil {
				if appErr.Code == errors.ErrNotFound || appErr.Code == errors.ErrUnauthorized {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "user not authenticated")
				}
				logger.Error("Middleware:AuthMiddleware", "user_id", claims.UserID, "error", appErr)
				return controller.NewErrorResponse(http.StatusInternalServerError, errors.ErrInternalServer, "failed to load user")
			}

			c.Set(constants.ContextTokenData, claims)
			c.Set(constants.ContextCurrentUser, user)
			return next(c)
		}
	}
}

// RequireTeam rejects callers without a team. Must run after AuthMiddleware.
func (m *Middleware) RequireTeam() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "user not authenticated")
			}
			if !user.HasTeam() {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "user does not belong to a team")
			}
			return next(c)
		}
	}
}

// RequireRole lets through callers holding any of roles.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "user not authenticated")
			}
			if !user.HasRole(roles...) {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "requires role "+strings.Join(roles, " or "))
			}
			return next(c)
		}
	}
}

// CurrentUser returns the caller stored by AuthMiddleware.
func CurrentUser(c echo.Context) (*entity.AuthUser, bool) {
	user, ok := c.Get(constants.ContextCurrentUser).(*entity.AuthUser)
	return user, ok && user != nil
}

// RequestID tags every request with a short nanoid.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: utils.GenerateRequestID,
	})
}

// RequestLogger writes one structured line per request.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Microsecond).String(),
			}
			if v.Error != nil {
				logger.Warn("http request", append(args, "error", v.Error)...)
				return nil
			}
			logger.Info("http request", args...)
			return nil
		},
	})
}

// Recover turns handler panics into 500 responses.
func Recover() echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered", "uri", c.Request().RequestURI, "error", err, "stack", string(stack))
			return err
		},
	})
}
