package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/utils"
)

// Pinger - то, что умеет проверить соединение; *pgxpool.Pool подходит.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db      Pinger
	timeout time.Duration
	logger  *zap.Logger
}

func NewHealthController(db Pinger, timeout time.Duration, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, timeout: timeout, logger: logger}
}

func (c *HealthController) Check(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.timeout)
	defer cancel()

	if err := c.db.Ping(reqCtx); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusServiceUnavailable, "База данных недоступна", err, nil), c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"database": "ok"}, "Сервис работает", http.StatusOK)
}
