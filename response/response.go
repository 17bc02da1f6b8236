// Package response writes JSON replies. Every error body has the shape
// {"message": "..."}.
package response

import (
	"net/http"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Error maps err to its HTTP status and writes the public message.
// Dependency failures are logged with their cause; clients only ever see
// "Server error" for them.
func Error(c *gin.Context, log *zap.Logger, err error) {
	e := apperr.From(err)
	status := e.HTTPStatus()
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("request_id", RequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("op", e.Message),
			zap.Error(e.Err))
	}
	c.AbortWithStatusJSON(status, gin.H{"message": e.PublicMessage()})
}

// Message writes {"message": msg} with the given status.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
