package utils

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"travel-cms/pkg/contextkeys"
	apperrors "travel-cms/pkg/errors"
)

// Ctx - контекст запроса с ограничением по времени на работу с хранилищем.
func Ctx(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), timeout)
}

func GetAdminEmailFromCtx(ctx context.Context) (string, error) {
	email, ok := ctx.Value(contextkeys.AdminEmailKey).(string)
	if !ok || email == "" {
		return "", apperrors.ErrUnauthorized
	}
	return email, nil
}
