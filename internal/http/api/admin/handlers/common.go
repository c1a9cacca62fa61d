// Package handlers implements admin console endpoints.
package handlers

import "github.com/gin-gonic/gin"

// readAdminIDFromContext returns the admin ID from request context.
func readAdminIDFromContext(c *gin.Context) (uint64, bool) {
	value, ok := c.Get("adminID")
	if !ok {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}

// readAdminUsernameFromContext returns the admin username from request context.
func readAdminUsernameFromContext(c *gin.Context) string {
	value, ok := c.Get("adminUsername")
	if !ok {
		return ""
	}
	username, _ := value.(string)
	return username
}
