package api

import (
	"errors"
	"net/http"

	"budgeting/config"
	"budgeting/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// statusFor 领域错误到 HTTP 状态码的映射，未识别的错误为 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrMissingAmount),
		errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError 根据错误类型写出 {"message": ...}
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		InternalError(c, SafeErrorMessage(err, fallback))
		return
	}
	Error(c, status, err.Error())
}
