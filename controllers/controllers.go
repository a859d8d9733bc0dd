package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talenthub-api/services"
)

// respondError maps a typed application error onto its HTTP status. The
// upstream cause, when present, is logged and replaced by the generic
// user-facing message.
func respondError(c *gin.Context, err error) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, appErr.Err)
		}
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}

	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// callerToken extracts the caller's own bearer token, if any, so inserts
// can run at the caller's scope instead of anonymous.
func callerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return token
}
