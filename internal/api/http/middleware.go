package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/observability"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the HTTP channel boundary: every failure raised
// below is resolved exactly once and rendered as the unified error payload.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalFault(nil)
			}
			if err != nil {
				appErr := apperrors.AsAppError(translateFiberError(err))
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), appErr.Code)
				}
				if appErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(appErr))
				}
				response := apperrors.Resolve(appErr)
				c.Status(response.Status)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// translateFiberError maps router-level fiber errors (unknown route, wrong
// method) into the shared taxonomy before resolution.
func translateFiberError(err error) error {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return err
	}
	switch fiberErr.Code {
	case http.StatusNotFound:
		return apperrors.NewRouteNotFound()
	case http.StatusMethodNotAllowed:
		return apperrors.NewMethodNotAllowed()
	default:
		return apperrors.NewAppError(apperrors.CodeInternalFault, fiberErr.Message, fiberErr.Code)
	}
}
