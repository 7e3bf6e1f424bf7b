package middlewares

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// StaffIdentity reads the X-Staff-ID header the gateway sets after
// authenticating staff and puts it on the context. Handlers that act
// on behalf of a staff member reject requests without it.
func StaffIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.GetHeader("X-Staff-ID"); v != "" {
			if id, err := strconv.ParseUint(v, 10, 32); err == nil && id > 0 {
				c.Set("staff_id", uint(id))
			}
		}
		c.Next()
	}
}
