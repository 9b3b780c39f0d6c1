// controllers/dev_controller.go
package controllers

import (
	"net/http"
	"os"

	"backend/config"
	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// Dev-only helpers. Auth is an external collaborator in production; this
// endpoint mints local tokens so the API can be exercised without it.

type tokenReq struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
}

// POST /dev/token
func MintDevToken(c *gin.Context) {
	if os.Getenv("DEV_ENDPOINTS") != "true" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.
		Attrs(models.User{FullName: req.FullName}).
		FirstOrCreate(&user, models.User{Email: req.Email}).Error; err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"token": token, "user_id": user.ID})
}
