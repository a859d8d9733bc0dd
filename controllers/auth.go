package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthController handles the legacy admin login. The external identity
// service issues its own session tokens out of band; this endpoint only
// covers the shared-secret path and echoes the secret back as the token
// the dashboard stores.
type AuthController struct {
	adminPassword string
}

func NewAuthController(adminPassword string) *AuthController {
	return &AuthController{adminPassword: adminPassword}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login.
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.adminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": req.Password})
}
