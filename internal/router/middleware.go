package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"up2you.app/storefront/pkg/global"
)

const AdminTokenHeader = "X-Admin-Token"

// HashAdminToken prepares the configured admin token for AdminOnly. An empty
// token yields a nil hash, which leaves the admin routes open.
func HashAdminToken(token string) ([]byte, error) {
	if token == "" {
		return nil, nil
	}
	return bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
}

// AdminOnly rejects requests whose X-Admin-Token does not match hash.
func AdminOnly(hash []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(hash) == 0 {
			c.Next()
			return
		}

		token := c.GetHeader(AdminTokenHeader)
		if token == "" || bcrypt.CompareHashAndPassword(hash, []byte(token)) != nil {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Unauthorized", []global.ValidationError{
				{Field: AdminTokenHeader, Message: "valid admin token required", Code: "unauthorized"},
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request through slog.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
