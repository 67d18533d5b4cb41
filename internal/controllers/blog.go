package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"travel-cms/internal/services"
	"travel-cms/pkg/utils"
)

type BlogController struct {
	blogService    services.BlogServiceInterface
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewBlogController(blogService services.BlogServiceInterface, requestTimeout time.Duration, logger *zap.Logger) *BlogController {
	return &BlogController{blogService: blogService, requestTimeout: requestTimeout, logger: logger}
}

func (c *BlogController) GetLatest(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	blogs, err := c.blogService.Latest(reqCtx, services.LatestBlogsCount)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, blogs, "Успешно", http.StatusOK)
}
