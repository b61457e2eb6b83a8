package menu

import (
	"context"
	"log"
	"net/http"
	"time"

	"bistro_back_end/internal/cache"
	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"
	"bistro_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetMenu retourne la carte complète, servie depuis Redis quand possible.
// GET /menu (public)
func GetMenu(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if items, ok := cache.GetMenuFromCache(ctx); ok {
		c.JSON(http.StatusOK, items)
		return
	}

	cursor, err := database.Menu.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération menu"})
		return
	}
	defer cursor.Close(ctx)

	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage"})
		return
	}

	cache.SetMenuCache(ctx, items)
	c.JSON(http.StatusOK, items)
}

// GetMenuItem retourne un plat par id. GET /menu/:id (public)
func GetMenuItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var item models.MenuItem
	if err := database.Menu.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateMenuItem ajoute un plat à la carte. POST /menu (admin)
func CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil || item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Menu.InsertOne(ctx, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création plat"})
		return
	}

	cache.InvalidateMenuCache(ctx)
	c.JSON(http.StatusOK, gin.H{"insertedId": res.InsertedID})
}

// UpdateMenuItem met à jour un plat. PATCH /menu/:id (admin)
func UpdateMenuItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	var input struct {
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Image    string  `json:"image"`
		Recipe   string  `json:"recipe"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":     input.Name,
		"category": input.Category,
		"price":    input.Price,
		"image":    input.Image,
		"recipe":   input.Recipe,
	}}

	res, err := database.Menu.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	cache.InvalidateMenuCache(ctx)
	c.JSON(http.StatusOK, gin.H{"modifiedCount": res.ModifiedCount})
}

// DeleteMenuItem retire un plat de la carte. DELETE /menu/:id (admin)
func DeleteMenuItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Menu.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}

	cache.InvalidateMenuCache(ctx)
	c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount})
}

// UploadImage pousse une image de plat vers MinIO et retourne son URL.
// POST /menu/image (admin)
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image manquant"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	url, err := services.UploadMenuImage(ctx, file)
	if err != nil {
		log.Println("❌ Erreur upload image:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
