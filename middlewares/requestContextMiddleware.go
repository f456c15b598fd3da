package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/ricemill_backend/utils"
)

const (
	CorrelationIdHeader = "X-Correlation-Id"
	UsernameHeader      = "X-Username"
)

// RequestContextMiddleware attaches a correlation id (generated when the
// caller sends none) and the acting username to the request context.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := strings.TrimSpace(c.GetHeader(CorrelationIdHeader))
		if cid == "" {
			cid = uuid.NewString()
		}
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), cid)
		if username := strings.TrimSpace(c.GetHeader(UsernameHeader)); username != "" {
			ctx = utils.SetUsernameInContext(ctx, username)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(CorrelationIdHeader, cid)
		c.Next()
	}
}
