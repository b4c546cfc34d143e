package auth

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxUserID = "user_id"

// WithUser reads the acting user's id from the X-User-Id header into the
// request context. Authentication itself happens upstream; this only
// carries the identity the audit trail attributes mutations to.
func WithUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if raw != "" {
			if id, err := strconv.Atoi(raw); err == nil {
				c.Set(CtxUserID, id)
			}
		}
		c.Next()
	}
}

// UserID extracts the acting user's id set by WithUser.
func UserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
