package utils

import (
	"errors"
	"net/http"

	apperrors "cmms-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
	Total   *uint64     `json:"total,omitempty"`
}

// SuccessResponse отдаёт единый конверт ответа. Последним опциональным
// аргументом можно передать общее количество записей для списков.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Message: message,
		Body:    body,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку приложения в HTTP-статус и конверт ответа.
// Технические детали остаются в логах, клиенту уходит только сообщение.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "Внутренняя ошибка сервера"

	var httpErr *apperrors.HttpError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		if len(validationErrs) > 0 {
			message = "Поле '" + validationErrs[0].Field() + "' не прошло валидацию (" + validationErrs[0].Tag() + ")"
		} else {
			message = "Ошибка валидации данных"
		}
	case errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrUserNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrDuplicateKey) || errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden) || errors.Is(err, apperrors.ErrAccountDeactivated):
		code = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenNotYetValid),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrTokenIsNotRefresh):
		code = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperrors.ErrAccountLocked):
		code = http.StatusTooManyRequests
		message = err.Error()
	default:
		if logger != nil {
			logger.Error("Необработанная ошибка", zap.Error(err))
		}
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Message: message,
	})
}
