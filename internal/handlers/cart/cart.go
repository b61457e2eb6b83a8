package cart

import (
	"context"
	"net/http"
	"time"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetCart retourne les lignes de panier du client. L'email demandé doit être
// celui du token : pas de lecture du panier d'autrui. GET /carts?email=
func GetCart(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		email = c.GetString("email")
	}
	if email != c.GetString("email") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès interdit"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Carts.Find(ctx, bson.M{"email": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération panier"})
		return
	}
	defer cursor.Close(ctx)

	items := []models.CartItem{}
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddToCart ajoute une ligne au panier du client authentifié. POST /carts
func AddToCart(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil || item.MenuItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// La propriété vient du token, jamais du body
	item.Email = c.GetString("email")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Carts.InsertOne(ctx, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout au panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedId": res.InsertedID})
}

// DeleteCartItem retire une ligne du panier. La suppression est bornée à
// l'email du token. DELETE /carts/:id
func DeleteCartItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Carts.DeleteOne(ctx, bson.M{
		"_id":   id,
		"email": c.GetString("email"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount})
}
