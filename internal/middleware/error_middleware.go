package middleware

import (
	"net/http"

	"pixpoll/internal/transport/httpdto"
	"pixpoll/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler logs errors attached by handlers and answers with 500 when a
// handler failed without writing a response.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		for _, e := range c.Errors {
			log.Error(c.Request.Context(), "request error",
				zap.String("path", c.Request.URL.Path),
				zap.Error(e.Err),
			)
		}
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorBody(httpdto.CodeInternal, "internal error"))
		}
	}
}
