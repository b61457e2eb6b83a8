package handlers

import (
	"net/http"

	"bistro_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// IssueToken émet un JWT d'une heure pour une identité déjà authentifiée côté
// client. POST /jwt
func IssueToken(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}

	token, err := utils.GenerateJWT(input.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
