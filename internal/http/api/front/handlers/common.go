package handlers

import "github.com/gin-gonic/gin"

// getUserID extracts the authenticated user ID from gin context.
func getUserID(c *gin.Context) string {
	val, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}

// getImpersonatorID extracts the impersonating admin ID, zero for plain
// user sessions.
func getImpersonatorID(c *gin.Context) uint64 {
	val, exists := c.Get("impersonatorID")
	if !exists {
		return 0
	}
	id, ok := val.(uint64)
	if !ok {
		return 0
	}
	return id
}
