package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "travel-cms/pkg/errors"
)

// HTTPResponse - единый конверт ответа.
type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

// ErrorResponse переводит ошибку в HTTP-код и конверт {status:false, message, body?}.
// Детали ошибок хранилища и файлов уходят только в лог.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		return c.JSON(httpErr.Code, &HTTPResponse{Status: false, Message: httpErr.Message, Body: httpErr.Details})
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		var body interface{}
		if len(validationErr.Fields) > 0 {
			body = map[string]interface{}{"fields": validationErr.Fields}
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Status: false, Message: validationErr.Message, Body: body})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Status: false, Message: "Ошибка валидации: " + strings.Join(msgs, "; ")})
	}

	if code, ok := statusFor(err); ok {
		return c.JSON(code, &HTTPResponse{Status: false, Message: err.Error()})
	}

	var storageErr *apperrors.StorageError
	var ioErr *apperrors.IOError
	switch {
	case errors.As(err, &storageErr):
		logger.Error("Storage Error", zap.String("op", storageErr.Op), zap.Error(storageErr.Err))
	case errors.As(err, &ioErr):
		logger.Error("IO Error", zap.String("op", ioErr.Op), zap.String("name", ioErr.Name), zap.Error(ioErr.Err))
	default:
		logger.Error("Unexpected Error", zap.Error(err))
	}
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{Status: false, Message: "Внутренняя ошибка сервера"})
}

var errorStatuses = []struct {
	err  error
	code int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrFileNotFound, http.StatusNotFound},
	{apperrors.ErrBadRequest, http.StatusBadRequest},
	{apperrors.ErrEmptySearchTerm, http.StatusBadRequest},
	{apperrors.ErrAccountLocked, http.StatusTooManyRequests},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized},
	{apperrors.ErrInvalidSigningMethod, http.StatusUnauthorized},
}

func statusFor(err error) (int, bool) {
	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.code, true
		}
	}
	return 0, false
}
