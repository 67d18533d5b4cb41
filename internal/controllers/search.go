package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"travel-cms/internal/dto"
	"travel-cms/internal/services"
	apperrors "travel-cms/pkg/errors"
	"travel-cms/pkg/utils"
)

type SearchController struct {
	searchService  services.SearchServiceInterface
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewSearchController(searchService services.SearchServiceInterface, requestTimeout time.Duration, logger *zap.Logger) *SearchController {
	return &SearchController{searchService: searchService, requestTimeout: requestTimeout, logger: logger}
}

func (c *SearchController) Search(ctx echo.Context) error {
	var query dto.SearchQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("некорректные параметры поиска"), c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, c.requestTimeout)
	defer cancel()

	results, err := c.searchService.Search(reqCtx, query.Term)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, results, "Успешно", http.StatusOK)
}
