package middleware

import (
	"context"
	"net/http"
	"time"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// IsAdmin indique si l'email a le rôle admin. Le rôle est relu en base à
// chaque appel : un token émis avant une rétrogradation ne donne donc pas un
// accès admin périmé. Variable pour l'injection en test — c'est aussi le seul
// endroit où vit la politique admin (le bypass de l'historique de paiement
// passe par ici).
var IsAdmin = func(ctx context.Context, email string) bool {
	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return err == nil && user.IsAdmin()
}

// RequireAdmin refuse la requête si l'utilisateur authentifié n'est pas admin.
func RequireAdmin(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		c.Abort()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !IsAdmin(ctx, email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}

	c.Next()
}
