package user

import (
	"context"
	"net/http"
	"time"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetUsers liste tous les utilisateurs. GET /users (admin)
func GetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération utilisateurs"})
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// CheckAdmin indique si l'email donné a le rôle admin. Un utilisateur ne peut
// interroger que son propre statut. GET /users/admin/:email
func CheckAdmin(c *gin.Context) {
	email := c.Param("email")
	if email != c.GetString("email") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès interdit"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	admin := false
	err := database.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == nil {
		admin = user.IsAdmin()
	}

	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

// CreateUser enregistre un utilisateur à sa première connexion. Un email déjà
// connu n'est pas une erreur : on répond sans créer de doublon. POST /users
func CreateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil || user.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Utilisateur déjà enregistré", "insertedId": nil})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur base de données"})
		return
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	res, err := database.Users.InsertOne(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedId": res.InsertedID})
}

// PromoteToAdmin donne le rôle admin à un utilisateur. PATCH /users/admin/:id (admin)
func PromoteToAdmin(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": models.RoleAdmin}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": res.ModifiedCount})
}

// DeleteUser supprime un utilisateur. DELETE /users/:id (admin)
func DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": res.DeletedCount})
}
