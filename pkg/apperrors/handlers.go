package apperrors

import (
	"sync/atomic"

	"jobnest_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - тело ответа об ошибке.
// message дублирует error.message для клиентов, читающих response.data.message
type ErrorResponse struct {
	Message string    `json:"message"`
	Error   *AppError `json:"error"`
}

var debugMode atomic.Bool

// SetDebug включает вывод текста внутренних ошибок клиенту (только не в production)
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// HandleError пишет ответ об ошибке в gin.Context
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
		if debugMode.Load() && err != nil {
			appErr = appErr.WithDetails(err.Error())
		}
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "server error", errOrSelf(appErr),
			"path", c.Request.URL.Path,
			"code", appErr.Code,
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Message: appErr.Message, Error: appErr})
}

func errOrSelf(e *AppError) error {
	if e.Err != nil {
		return e.Err
	}
	return e
}
