package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursewish/internal/app/models/dto"
)

// NotFound answers unknown routes with the standard error envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		detail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found").
			WithDetails(c.Request.Method + " " + c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(detail))
	}
}

// Recovery turns a handler panic into a logged 500 response
func Recovery(lgr zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		lgr.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	})
}
