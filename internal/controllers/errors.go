package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/gin-gonic/gin"
)

// Ошибки.
var (
	ErrUnauthorized = errors.New("unauthorized")    // Нет валидного токена владельца
	ErrBadRequest   = errors.New("invalid request") // Тело запроса не разобрано
	ErrInternal     = errors.New("internal error")  // Прочая ошибка
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondError отвечает клиенту ошибкой, соответствующей ошибке сервиса.
// Исходная ошибка с внутренней причиной прикрепляется к контексту для логгера.
func respondError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)

	var (
		status  int
		message string
	)
	switch {
	case errors.Is(err, services.ErrValidation):
		status, message = http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, ErrBadRequest):
		status, message = http.StatusBadRequest, ErrBadRequest.Error()
	case errors.Is(err, ErrUnauthorized):
		status, message = http.StatusUnauthorized, ErrUnauthorized.Error()
	case errors.Is(err, services.ErrConflict):
		status, message = http.StatusConflict, "short code is already taken"
	case errors.Is(err, services.ErrNotFound):
		status, message = http.StatusNotFound, "link not found"
	case errors.Is(err, services.ErrExhausted):
		status, message = http.StatusServiceUnavailable, "could not allocate short code, try again later"
	default:
		status, message = http.StatusInternalServerError, ErrInternal.Error()
	}
	ctx.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// validationMessage текст ошибки валидации без служебного суффикса сервиса.
func validationMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+services.ErrValidation.Error())
	if msg == services.ErrValidation.Error() {
		return "validation error"
	}
	return msg
}
