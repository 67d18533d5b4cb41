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

type AuthController struct {
	authService    services.AuthServiceInterface
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, requestTimeout time.Duration, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для входа"))
	}

	if err := c.Validate(&payload); err != nil {
		ctrl.logger.Warn("Login: ошибка валидации данных", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	if payload.Credential() == "" {
		return ctrl.errorResponse(c, apperrors.NewValidationError("не указан секрет", "secret"))
	}

	reqCtx, cancel := utils.Ctx(c, ctrl.requestTimeout)
	defer cancel()

	res, err := ctrl.authService.Login(reqCtx, payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("email", payload.Email), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, res, "Вход выполнен", http.StatusOK)
}
